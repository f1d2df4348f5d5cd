package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/langitlangit/creatortrack/internal/middleware"
	"github.com/langitlangit/creatortrack/internal/model"
)

// ProfileStoreInterface はユーザーハンドラーが必要とする永続化インターフェース。
type ProfileStoreInterface interface {
	List(ctx context.Context) ([]*model.Profile, error)
	UpdateTheme(ctx context.Context, uid string, theme model.Theme) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	store ProfileStoreInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(store ProfileStoreInterface) *UserHandler {
	return &UserHandler{store: store}
}

// List は全ユーザーのプロファイル一覧を返す。管理者のみ閲覧できる。
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.List(r.Context())
	if err != nil {
		middleware.WriteError(w, fmt.Errorf("failed to list profiles: %w", err))
		return
	}

	out := make([]profileResponse, len(profiles))
	for i, p := range profiles {
		out[i] = toProfileResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// themeRequest はテーマ更新リクエストのボディ。
type themeRequest struct {
	Theme string `json:"theme"`
}

// themeResponse はテーマのAPIレスポンス。
type themeResponse struct {
	Theme string `json:"theme"`
}

// GetTheme は現在のユーザーの表示テーマを返す。
// GET /api/users/me/theme
func (h *UserHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, model.NewUnauthenticatedError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(themeResponse{Theme: string(model.NormalizeTheme(string(profile.Theme)))})
}

// UpdateTheme は現在のユーザーの表示テーマを更新する。
// 未知の値はダークに正規化する。
// PUT /api/users/me/theme
func (h *UserHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, model.NewUnauthenticatedError())
		return
	}

	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	theme := model.NormalizeTheme(req.Theme)
	if err := h.store.UpdateTheme(r.Context(), profile.UID, theme); err != nil {
		middleware.WriteError(w, fmt.Errorf("failed to update theme: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(themeResponse{Theme: string(theme)})
}
