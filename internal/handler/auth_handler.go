// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/langitlangit/creatortrack/internal/auth"
	"github.com/langitlangit/creatortrack/internal/middleware"
	"github.com/langitlangit/creatortrack/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, in auth.RegisterInput) (*model.Profile, *model.Session, error)
	Login(ctx context.Context, email, password string) (*model.Profile, *model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthMetrics は認証操作の計測インターフェース。
type AuthMetrics interface {
	RecordAuthOutcome(operation string, success bool)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics AuthMetrics
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnil可。
func NewAuthHandler(service AuthServiceInterface, metrics AuthMetrics, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
		config:  config,
	}
}

// registerRequest は新規登録リクエストのボディ。
type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	DisplayName    string `json:"displayName"`
	Role           string `json:"role"`
	Specialization string `json:"specialization"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// profileResponse はプロファイルのAPIレスポンス。
type profileResponse struct {
	UID            string `json:"uid"`
	Email          string `json:"email"`
	DisplayName    string `json:"displayName"`
	Role           string `json:"role"`
	Specialization string `json:"specialization"`
	Theme          string `json:"theme"`
}

func toProfileResponse(p *model.Profile) profileResponse {
	return profileResponse{
		UID:            p.UID,
		Email:          p.Email,
		DisplayName:    p.DisplayName,
		Role:           string(p.Role),
		Specialization: p.Specialization,
		Theme:          string(p.Theme),
	}
}

// Register は新規登録を処理する。
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.WriteError(w, model.NewValidationError("メールアドレスとパスワードは必須です"))
		return
	}

	profile, session, err := h.service.Register(r.Context(), auth.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		DisplayName:    req.DisplayName,
		Role:           req.Role,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.recordOutcome("register", false)
		middleware.WriteError(w, err)
		return
	}
	h.recordOutcome("register", true)

	h.setSessionCookie(w, session.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toProfileResponse(profile))
}

// Login はログインを処理する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.WriteError(w, model.NewValidationError("メールアドレスとパスワードは必須です"))
		return
	}

	profile, session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.recordOutcome("login", false)
		middleware.WriteError(w, err)
		return
	}
	h.recordOutcome("login", true)

	h.setSessionCookie(w, session.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProfileResponse(profile))
}

// Logout はセッションを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	if err := h.service.Logout(r.Context(), sessionID); err != nil {
		slog.Error("failed to logout", slog.String("error", err.Error()))
		// ログアウト失敗してもCookieはクリアする
	}
	h.recordOutcome("logout", true)

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザーのプロファイルを返す。
// GET /auth/me（ガードミドルウェアの内側に配置する）
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, model.NewUnauthenticatedError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProfileResponse(profile))
}

// setSessionCookie はセッションCookieを設定する（HTTP Only）。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie はセッションCookieを破棄する。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) recordOutcome(operation string, success bool) {
	if h.metrics != nil {
		h.metrics.RecordAuthOutcome(operation, success)
	}
}
