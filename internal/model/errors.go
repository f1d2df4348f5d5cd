// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, task, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated      = "UNAUTHENTICATED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeRegistrationFailed   = "REGISTRATION_FAILED"
	ErrCodeDataUnavailable      = "DATA_UNAVAILABLE"
	ErrCodeTaskNotFound         = "TASK_NOT_FOUND"
	ErrCodeValidation           = "VALIDATION"
)

// NewUnauthenticatedError は未認証エラーを生成する。
// ガード失敗はページ処理に対して終端であり、以降のレンダリングを行ってはならない。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "ログインしていません。",
		Category: "auth",
		Action:   "ログインページからサインインしてください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "管理者権限が必要です。",
		Category: "auth",
		Action:   "一般ユーザー用ダッシュボードをご利用ください。",
	}
}

// NewAuthenticationFailedError は認証失敗エラーを生成する。
// リダイレクトせず、ユーザーに再試行させる。
func NewAuthenticationFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeAuthenticationFailed,
		Message:  fmt.Sprintf("ログインに失敗しました: %s", reason),
		Category: "auth",
		Action:   "メールアドレスとパスワードを確認してください。",
	}
}

// NewRegistrationFailedError は登録失敗エラーを生成する。
func NewRegistrationFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeRegistrationFailed,
		Message:  fmt.Sprintf("アカウント登録に失敗しました: %s", reason),
		Category: "auth",
		Action:   "別のメールアドレスを使うか、パスワードの強度を上げてください。",
	}
}

// NewDataUnavailableError は参照先ドキュメントの欠落エラーを生成する。
// 行単位の欠落は表示側でプレースホルダーに退避し、一覧全体を中断しない。
func NewDataUnavailableError(what string) *APIError {
	return &APIError{
		Code:     ErrCodeDataUnavailable,
		Message:  fmt.Sprintf("参照先のデータが見つかりません: %s", what),
		Category: "system",
		Action:   "再読み込みしても解決しない場合はログインし直してください。",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError(taskID string) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %s", taskID),
		Category: "task",
		Action:   "タスクIDを確認してください。",
	}
}

// NewValidationError は入力値検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}
