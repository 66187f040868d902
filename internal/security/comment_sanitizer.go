// Package security はアプリケーションのセキュリティ機能を提供する。
//
// CommentSanitizerService はユーザーが投稿するコメント本文をサニタイズし、
// XSS攻撃などのセキュリティリスクから閲覧者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグのみを通過させる。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// CommentSanitizerService はコメント本文のサニタイズ機能のインターフェースを定義する。
// コメントの保存前に使用される。
type CommentSanitizerService interface {
	// Sanitize は本文をサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, strong, em, code）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// commentSanitizer はCommentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type commentSanitizer struct {
	policy *bluemonday.Policy
}

// NewCommentSanitizer はCommentSanitizerServiceの新しいインスタンスを生成する。
// コメントは短いテキストであり、リンクや画像を含む必要がないため、
// 許可リストは最小限の装飾タグに絞る。
//   - 許可タグ: p, br, strong, em, code
//   - script, iframe, style等は許可リストに含めないことで自動的に除去される
//   - on*イベント属性はbluemondayのデフォルトで許可されないため除去される
func NewCommentSanitizer() *commentSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br",
		"strong", "em", "code",
	)

	return &commentSanitizer{
		policy: p,
	}
}

// Sanitize は本文をサニタイズして安全なHTMLを返す。
func (s *commentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
