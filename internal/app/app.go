// Package app はアプリケーションの起動と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/langitlangit/creatortrack/internal/auth"
	"github.com/langitlangit/creatortrack/internal/config"
	"github.com/langitlangit/creatortrack/internal/dashboard"
	"github.com/langitlangit/creatortrack/internal/guard"
	"github.com/langitlangit/creatortrack/internal/handler"
	"github.com/langitlangit/creatortrack/internal/logger"
	"github.com/langitlangit/creatortrack/internal/metrics"
	"github.com/langitlangit/creatortrack/internal/middleware"
	"github.com/langitlangit/creatortrack/internal/repository"
	"github.com/langitlangit/creatortrack/internal/store"
	"github.com/langitlangit/creatortrack/internal/task"
	"github.com/langitlangit/creatortrack/internal/worker/cleanup"
)

// sessionCleanupInterval は期限切れセッション掃除ジョブの実行間隔。
const sessionCleanupInterval = time.Hour

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// Firestoreクライアントを開き、全依存関係をワイヤリングし、
// 購読ビューとHTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Firestoreクライアント
	client, err := store.Open(ctx, cfg.FirebaseProjectID, cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to open firestore: %w", err)
	}
	defer client.Close()

	slog.Info("firestore client established",
		slog.String("project_id", cfg.FirebaseProjectID),
	)

	// 2. リポジトリの初期化
	profileRepo := repository.NewFirestoreProfileRepo(client)
	taskRepo := repository.NewFirestoreTaskRepo(client)
	sessionRepo := repository.NewFirestoreSessionRepo(client)

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ドメインサービスの初期化
	identityProvider := auth.NewFirebaseProvider(auth.FirebaseProviderConfig{
		APIKey: cfg.FirebaseAPIKey,
	})
	authService := auth.NewService(
		identityProvider, profileRepo, sessionRepo,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)
	accessGuard := guard.NewService(sessionRepo, profileRepo)
	taskService := task.NewService(taskRepo, profileRepo, slog.Default())

	// 5. ライブビューの起動
	// タスクコレクションの購読はダッシュボード集計と一覧ビューが
	// それぞれ独立のストリームを消費する。
	statsView := dashboard.NewView(taskRepo, profileRepo, collector, slog.Default(), cfg.RecentTasksLimit)
	statsView.Start(ctx)

	listView := task.NewListView(taskRepo, slog.Default())
	listView.Start(ctx)

	// 期限切れセッションの定期掃除
	cleanupJob := cleanup.NewCleanupJob(sessionRepo, slog.Default())
	go cleanupJob.RunPeriodic(ctx, sessionCleanupInterval)

	// 6. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitMutation),
	)
	defer rateLimiter.Stop()

	csrfConfig := middleware.CSRFConfig{
		CookieSecure: cfg.CookieSecure,
		CookieDomain: cfg.CookieDomain,
	}

	deps := &handler.RouterDeps{
		Guard:             accessGuard,
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		CSRFConfig:        csrfConfig,

		AuthService: authService,
		AuthMetrics: collector,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		TaskView:    listView,
		TaskService: taskService,
		TaskMetrics: collector,

		StatsView:     statsView,
		ExportMetrics: collector,

		ProfileStore: profileRepo,
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// メトリクスはアプリケーションとは別のリスナーで公開する
	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metrics.SetupMetricsRoute(registry),
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("metrics server starting",
			slog.String("addr", metricsServer.Addr),
		)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server listen error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	// 購読ストリームを停止してからHTTPサーバーを閉じる
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", slog.String("error", err.Error()))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
