// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService はユーザー入力のテキストフィールドをサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
// タスクのタイトルや説明は装飾を持たないプレーンテキストとして扱うため、
// bluemondayのStrictPolicyで全てのHTMLタグを除去する。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService はテキスト入力のサニタイズ機能のインターフェースを定義する。
// タスクの作成・更新時、フィールドの保存前に使用される。
type InputSanitizerService interface {
	// Sanitize は入力テキストから全てのHTMLタグを除去して返す。
	// script, iframe, styleタグおよびon*イベント属性を含む全てのマークアップが除去される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// 全タグを除去するStrictPolicyを使用する。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストから全てのHTMLタグを除去して返す。
func (s *inputSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
