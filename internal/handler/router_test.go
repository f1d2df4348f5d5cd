package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/langitlangit/creatortrack/internal/dashboard"
	"github.com/langitlangit/creatortrack/internal/middleware"
	"github.com/langitlangit/creatortrack/internal/model"
	"github.com/langitlangit/creatortrack/internal/task"
)

// routerGuard はAccessGuardのテスト用モック。
// セッションIDをそのままuidとして解釈し、"admin:"接頭辞で管理者になる。
type routerGuard struct{}

func (routerGuard) Protect(ctx context.Context, sessionID string, requiredRole model.Role) (*model.Session, *model.Profile, error) {
	if sessionID == "" {
		return nil, nil, model.NewUnauthenticatedError()
	}
	role := model.RoleUser
	if sessionID == "admin-session" {
		role = model.RoleAdmin
	}
	if requiredRole == model.RoleAdmin && role != model.RoleAdmin {
		return nil, nil, model.NewForbiddenError()
	}
	return &model.Session{ID: sessionID, UID: "u1"}, &model.Profile{UID: "u1", Role: role}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(1000, 1000))
	t.Cleanup(rl.Stop)

	view := &mockStatsView{
		stats: dashboard.Stats{Total: 1},
		tasks: []model.Task{{ID: "t1"}},
		ready: true,
	}
	taskView := &mockTaskView{
		queryFn: func(filter task.Filter, mode task.SortMode) ([]model.Task, bool) {
			return []model.Task{{ID: "t1"}}, true
		},
		findFn: func(id string) (*model.Task, bool) { return &model.Task{ID: id}, true },
	}

	return NewRouter(&RouterDeps{
		Guard:             routerGuard{},
		Logger:            slog.Default(),
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,
		AuthService:       &mockAuthService{},
		AuthConfig:        AuthHandlerConfig{SessionMaxAge: 3600},
		TaskView:          taskView,
		TaskService:       &mockTaskService{},
		StatsView:         view,
		ProfileStore:      &mockProfileStore{},
	})
}

func routerRequest(method, path, session string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session})
	}
	return req
}

// TestRouter_Routes はルーティングとガードの配置を検証する。
func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		session    string
		wantStatus int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"csrf token is public", http.MethodGet, "/api/csrf-token", "", http.StatusOK},
		{"tasks require auth", http.MethodGet, "/api/tasks", "", http.StatusUnauthorized},
		{"tasks with session", http.MethodGet, "/api/tasks", "user-session", http.StatusOK},
		{"task detail", http.MethodGet, "/api/tasks/t1", "user-session", http.StatusOK},
		{"me requires auth", http.MethodGet, "/auth/me", "", http.StatusUnauthorized},
		{"me with session", http.MethodGet, "/auth/me", "user-session", http.StatusOK},
		{"my dashboard", http.MethodGet, "/api/dashboard/my", "user-session", http.StatusOK},
		{"export", http.MethodGet, "/api/dashboard/export", "user-session", http.StatusOK},
		{"stats is admin only", http.MethodGet, "/api/dashboard/stats", "user-session", http.StatusForbidden},
		{"stats with admin", http.MethodGet, "/api/dashboard/stats", "admin-session", http.StatusOK},
		{"user list is admin only", http.MethodGet, "/api/users", "user-session", http.StatusForbidden},
		{"user list with admin", http.MethodGet, "/api/users", "admin-session", http.StatusOK},
		{"theme", http.MethodGet, "/api/users/me/theme", "user-session", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, routerRequest(tt.method, tt.path, tt.session))
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

// TestRouter_CSRFOnMutation は状態変更メソッドがCSRFトークンを要求することを検証する。
func TestRouter_CSRFOnMutation(t *testing.T) {
	router := newTestRouter(t)

	req := routerRequest(http.MethodPost, "/api/tasks", "user-session")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("mutation without CSRF token: status = %d, want 403", rec.Code)
	}
}

// TestRouter_SecurityHeaders は共通レスポンスヘッダーの付与を検証する。
func TestRouter_SecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, routerRequest(http.MethodGet, "/health", ""))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
