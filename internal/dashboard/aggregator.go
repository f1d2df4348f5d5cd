package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
	"github.com/langitlangit/creatortrack/internal/repository"
)

// SnapshotObserver はスナップショット適用の計測インターフェース。
type SnapshotObserver interface {
	ObserveSnapshotApplied(taskCount int, duration time.Duration)
}

// View はダッシュボード集計のライブビュー。
// 購読ストリームの消費は単一のゴルーチンが担い、HTTPハンドラーは
// RWMutex越しに直近のキャッシュだけを読む。部分更新は行わず、
// スナップショット1件ごとに集計を丸ごと差し替える。
type View struct {
	taskWatcher  repository.TaskWatcher
	countWatcher repository.ProfileCountWatcher
	observer     SnapshotObserver
	logger       *slog.Logger
	recentLimit  int

	mu        sync.RWMutex
	stats     Stats
	tasks     []model.Task
	userCount int
	ready     bool
}

// NewView はViewを生成する。observerはnil可。
func NewView(
	taskWatcher repository.TaskWatcher,
	countWatcher repository.ProfileCountWatcher,
	observer SnapshotObserver,
	logger *slog.Logger,
	recentLimit int,
) *View {
	return &View{
		taskWatcher:  taskWatcher,
		countWatcher: countWatcher,
		observer:     observer,
		logger:       logger,
		recentLimit:  recentLimit,
	}
}

// Start は購読を開始し、消費ゴルーチンを起動する。
// コンテキストのキャンセルで購読とゴルーチンが終了する。
func (v *View) Start(ctx context.Context) {
	taskCh := v.taskWatcher.Watch(ctx)
	countCh := v.countWatcher.WatchCount(ctx)

	go func() {
		for {
			select {
			case tasks, ok := <-taskCh:
				if !ok {
					v.logger.Info("タスク購読ストリームが終了しました")
					return
				}
				v.apply(tasks)
			case count, ok := <-countCh:
				if !ok {
					countCh = nil
					continue
				}
				v.mu.Lock()
				v.userCount = count
				v.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// apply はスナップショットから集計を再計算してキャッシュを差し替える。
func (v *View) apply(tasks []model.Task) {
	start := time.Now()
	stats := Compute(tasks, v.recentLimit)

	v.mu.Lock()
	v.stats = stats
	v.tasks = tasks
	v.ready = true
	v.mu.Unlock()

	if v.observer != nil {
		v.observer.ObserveSnapshotApplied(len(tasks), time.Since(start))
	}
}

// Stats は直近の集計キャッシュを返す。
// まだ一度もスナップショットを受信していない場合はfalseを返す。
func (v *View) Stats() (Stats, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stats, v.ready
}

// Tasks は直近のタスクスナップショットを返す。CSVエクスポートと
// ユーザー別集計が同じキャッシュを共有する。
func (v *View) Tasks() ([]model.Task, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tasks, v.ready
}

// UserCount は登録ユーザー数の直近値を返す。
func (v *View) UserCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.userCount
}
