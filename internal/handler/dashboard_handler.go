package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/langitlangit/creatortrack/internal/dashboard"
	"github.com/langitlangit/creatortrack/internal/middleware"
	"github.com/langitlangit/creatortrack/internal/model"
)

// StatsView はダッシュボードハンドラーが必要とするビューインターフェース。
type StatsView interface {
	Stats() (dashboard.Stats, bool)
	Tasks() ([]model.Task, bool)
	UserCount() int
}

// ExportMetrics はCSVエクスポートの計測インターフェース。
type ExportMetrics interface {
	RecordCSVExport()
}

// DashboardHandler はダッシュボード集計のHTTPハンドラー。
type DashboardHandler struct {
	view    StatsView
	metrics ExportMetrics
}

// NewDashboardHandler はDashboardHandlerを生成する。metricsはnil可。
func NewDashboardHandler(view StatsView, metrics ExportMetrics) *DashboardHandler {
	return &DashboardHandler{
		view:    view,
		metrics: metrics,
	}
}

// statsResponse は全体集計のAPIレスポンス。
type statsResponse struct {
	dashboard.Stats
	UserCount int `json:"userCount"`
}

// Stats は全体集計を返す。管理者のみ閲覧できる。
// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.view.Stats()
	if !ok {
		middleware.WriteError(w, model.NewDataUnavailableError("ダッシュボード集計"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statsResponse{
		Stats:     stats,
		UserCount: h.view.UserCount(),
	})
}

// My は現在のユーザーに絞った集計を返す。
// GET /api/dashboard/my
func (h *DashboardHandler) My(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		middleware.WriteError(w, model.NewUnauthenticatedError())
		return
	}

	tasks, ok := h.view.Tasks()
	if !ok {
		middleware.WriteError(w, model.NewDataUnavailableError("ダッシュボード集計"))
		return
	}

	stats := dashboard.ComputeUserStats(tasks, profile.UID, time.Now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// Export はタスク一覧をCSVでダウンロードさせる。
// GET /api/dashboard/export
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	tasks, ok := h.view.Tasks()
	if !ok {
		middleware.WriteError(w, model.NewDataUnavailableError("タスク一覧"))
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCSVExport()
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.csv"`)
	_, _ = w.Write([]byte(dashboard.ExportCSV(tasks)))
}
