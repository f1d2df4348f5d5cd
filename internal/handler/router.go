package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/langitlangit/creatortrack/internal/middleware"
	"github.com/langitlangit/creatortrack/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Guard             middleware.AccessGuard
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthMetrics AuthMetrics
	AuthConfig  AuthHandlerConfig

	// タスク
	TaskView    TaskQueryView
	TaskService TaskServiceInterface
	TaskMetrics TaskMetrics

	// ダッシュボード
	StatsView     StatsView
	ExportMetrics ExportMetrics

	// ユーザー
	ProfileStore ProfileStoreInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → CORS → CSRF → Guard → RateLimit(General)
//
// 認証ルート（/auth/login等）とヘルスチェックはガードの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthMetrics, deps.AuthConfig)
	taskHandler := NewTaskHandler(deps.TaskView, deps.TaskService, deps.TaskMetrics)
	dashboardHandler := NewDashboardHandler(deps.StatsView, deps.ExportMetrics)
	userHandler := NewUserHandler(deps.ProfileStore)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		// /auth/meは有効なセッションを要求する
		r.With(middleware.NewGuardMiddleware(deps.Guard, model.RoleUser)).Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Guard → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewGuardMiddleware(deps.Guard, model.RoleUser))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// タスク管理（書き込みは専用レート制限を追加）
		r.Get("/api/tasks", taskHandler.List)
		r.With(deps.RateLimiter.MutationMiddleware()).Post("/api/tasks", taskHandler.Create)
		r.Get("/api/tasks/{id}", taskHandler.Get)
		r.With(deps.RateLimiter.MutationMiddleware()).Patch("/api/tasks/{id}", taskHandler.Update)

		// 個人ダッシュボードとエクスポート
		r.Get("/api/dashboard/my", dashboardHandler.My)
		r.Get("/api/dashboard/export", dashboardHandler.Export)

		// テーマ設定
		r.Get("/api/users/me/theme", userHandler.GetTheme)
		r.Put("/api/users/me/theme", userHandler.UpdateTheme)
	})

	// --- 管理者限定のルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewGuardMiddleware(deps.Guard, model.RoleAdmin))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/dashboard/stats", dashboardHandler.Stats)
		r.Get("/api/users", userHandler.List)
		r.With(deps.RateLimiter.MutationMiddleware()).Delete("/api/tasks/{id}", taskHandler.Delete)
	})

	return r
}

// healthHandler は稼働確認エンドポイント。
// GET /health
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
