// Package model はドメインモデルを定義する。
package model

import "time"

// User は登録済みユーザーを表す。
// 元のSPAと同様にパスワードは平文のまま保存する（仕様として明記された挙動であり、
// ハッシュ化はスコープ外）。
type User struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SessionUser はストレージキー user に書き込まれる現在ユーザーの射影。
// 元のSPAが localStorage の user キーに保存していた {email} と同じ形。
type SessionUser struct {
	Email string `json:"email"`
}

// Session はログインセッションを表す。
// sessions キー配下に sessionID → Session のマップとして永続化される。
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired はセッションが期限切れかどうかを返す。
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
