// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ビューやハンドラー層から利用する。
type MetricsCollector interface {
	ObserveSnapshotApplied(taskCount int, duration time.Duration)
	RecordAuthOutcome(operation string, success bool)
	RecordTaskMutation(operation string)
	RecordCSVExport()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	snapshotApplies  prometheus.Counter
	snapshotTasks    prometheus.Gauge
	aggregateLatency prometheus.Histogram
	authOutcomes     *prometheus.CounterVec
	taskMutations    *prometheus.CounterVec
	csvExports       prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		snapshotApplies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "creatortrack_snapshot_applies_total",
			Help: "購読ストリームから適用したスナップショットの合計数",
		}),
		snapshotTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "creatortrack_snapshot_tasks",
			Help: "直近のスナップショットに含まれるタスク数",
		}),
		aggregateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "creatortrack_aggregate_latency_seconds",
			Help:    "スナップショット1件あたりの集計再計算時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "creatortrack_auth_outcomes_total",
			Help: "認証操作の結果別の合計数",
		}, []string{"operation", "outcome"}),
		taskMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "creatortrack_task_mutations_total",
			Help: "タスク書き込み操作の合計数",
		}, []string{"operation"}),
		csvExports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "creatortrack_csv_exports_total",
			Help: "CSVエクスポートの合計数",
		}),
	}

	reg.MustRegister(
		c.snapshotApplies,
		c.snapshotTasks,
		c.aggregateLatency,
		c.authOutcomes,
		c.taskMutations,
		c.csvExports,
	)

	return c
}

// ObserveSnapshotApplied はスナップショット適用を記録する。
func (c *Collector) ObserveSnapshotApplied(taskCount int, duration time.Duration) {
	c.snapshotApplies.Inc()
	c.snapshotTasks.Set(float64(taskCount))
	c.aggregateLatency.Observe(duration.Seconds())
}

// RecordAuthOutcome は認証操作の結果を記録する。
// operationはlogin / register / logoutのいずれか。
func (c *Collector) RecordAuthOutcome(operation string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	c.authOutcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordTaskMutation はタスク書き込み操作を記録する。
// operationはcreate / update / deleteのいずれか。
func (c *Collector) RecordTaskMutation(operation string) {
	c.taskMutations.WithLabelValues(operation).Inc()
}

// RecordCSVExport はCSVエクスポートを記録する。
func (c *Collector) RecordCSVExport() {
	c.csvExports.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
