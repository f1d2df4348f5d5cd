// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/langitlangit/creatortrack/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	sessionContextKey = contextKey("session")
	profileContextKey = contextKey("profile")
)

// AccessGuard はセッション検証とロール判定のインターフェース。
// guard.Serviceの部分集合として定義する。
type AccessGuard interface {
	Protect(ctx context.Context, sessionID string, requiredRole model.Role) (*model.Session, *model.Profile, error)
}

// NewGuardMiddleware はHTTP Only CookieからセッションIDを読み取り、
// アクセスガードで検証するミドルウェアを返す。
// 認可済みのセッションとプロファイルをリクエストコンテキストに注入する。
func NewGuardMiddleware(g AccessGuard, requiredRole model.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. CookieからセッションIDを取得
			var sessionID string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				sessionID = cookie.Value
			}

			// 2. ガードで検証
			session, profile, err := g.Protect(r.Context(), sessionID, requiredRole)
			if err != nil {
				WriteError(w, err)
				return
			}

			// 3. 認可済みの身元をコンテキストに注入
			ctx := ContextWithIdentity(r.Context(), session, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithIdentity はコンテキストにセッションとプロファイルを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, session *model.Session, profile *model.Profile) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, session)
	return context.WithValue(ctx, profileContextKey, profile)
}

// SessionFromContext はリクエストコンテキストからセッションを取得する。
// ガードミドルウェアを通過したリクエストでのみ有効。
func SessionFromContext(ctx context.Context) (*model.Session, error) {
	session, ok := ctx.Value(sessionContextKey).(*model.Session)
	if !ok || session == nil {
		return nil, errors.New("session not found in context")
	}
	return session, nil
}

// ProfileFromContext はリクエストコンテキストからプロファイルを取得する。
func ProfileFromContext(ctx context.Context) (*model.Profile, error) {
	profile, ok := ctx.Value(profileContextKey).(*model.Profile)
	if !ok || profile == nil {
		return nil, errors.New("profile not found in context")
	}
	return profile, nil
}

// UIDFromContext はリクエストコンテキストから認可済みユーザーのUIDを取得する。
func UIDFromContext(ctx context.Context) (string, error) {
	profile, err := ProfileFromContext(ctx)
	if err != nil {
		return "", err
	}
	return profile.UID, nil
}
