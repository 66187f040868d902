// Package model はドメインモデルを定義する。
package model

// Comment はレシピに対するコメント1件を表す。
// comments_<recipeId> キー配下に配列として永続化される。
// Date は作成時点で整形済みのタイムスタンプ文字列。
type Comment struct {
	Content string `json:"content"`
	Date    string `json:"date"`
}
