// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はメッセージ本文のテキストをサニタイズし、
// クライアント側でレンダリングされる際のXSSリスクからユーザーを保護する。
// bluemondayのStrictPolicyを使用し、HTMLタグを一切許可しない。
package security

import "github.com/microcosm-cc/bluemonday"

// ContentSanitizerService はテキストコンテンツのサニタイズ機能のインターフェースを定義する。
// メッセージ本文の保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力テキストからHTMLタグを全て除去して返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// メッセージはプレーンテキストとして扱うため、タグを一切許可しない
// StrictPolicyを使用する。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからHTMLタグを全て除去して返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return s.policy.Sanitize(raw)
}

// compile-time interface check
var _ ContentSanitizerService = (*contentSanitizer)(nil)
