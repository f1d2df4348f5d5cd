// Package auth はアイデンティティプロバイダー連携、プロファイル管理、セッション管理を提供する。
package auth

import (
	"context"
	"fmt"
)

// Account はアイデンティティプロバイダーが発行した認証済みアイデンティティを表す。
type Account struct {
	UID   string
	Email string
}

// Provider は外部アイデンティティプロバイダーのインターフェース。
// セッションの発行・永続化はアプリケーション側の責務であり、
// プロバイダーは資格情報の検証とアカウント作成のみを担う。
type Provider interface {
	// CreateAccount はメールアドレスとパスワードで新規アカウントを作成する。
	// プロバイダーが資格情報を拒否した場合は*ProviderErrorを返す。
	CreateAccount(ctx context.Context, email, password string) (*Account, error)

	// Authenticate は資格情報を検証し、アイデンティティを返す。
	// 資格情報が不正な場合は*ProviderErrorを返す。
	Authenticate(ctx context.Context, email, password string) (*Account, error)
}

// ProviderError はプロバイダーが資格情報を拒否したことを表す。
// 通信障害と区別し、ユーザーに再試行させるために使用する。
type ProviderError struct {
	Reason string // プロバイダーのエラーコード（EMAIL_EXISTS, INVALID_PASSWORD 等）
}

// Error はerrorインターフェースを実装する。
func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider rejected credentials: %s", e.Reason)
}
