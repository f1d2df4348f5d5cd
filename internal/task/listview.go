package task

import (
	"context"
	"log/slog"
	"sync"

	"github.com/langitlangit/creatortrack/internal/model"
	"github.com/langitlangit/creatortrack/internal/repository"
)

// ListView はタスク一覧のライブビュー。
// 購読ストリームから受け取った直近のスナップショットを保持し、
// 絞り込みと並べ替えは問い合わせごとにキャッシュへ適用する。
// ストアへの再問い合わせは行わない。
type ListView struct {
	watcher repository.TaskWatcher
	logger  *slog.Logger

	mu    sync.RWMutex
	tasks []model.Task
	ready bool
}

// NewListView はListViewを生成する。
func NewListView(watcher repository.TaskWatcher, logger *slog.Logger) *ListView {
	return &ListView{
		watcher: watcher,
		logger:  logger,
	}
}

// Start は購読を開始し、消費ゴルーチンを起動する。
func (v *ListView) Start(ctx context.Context) {
	ch := v.watcher.Watch(ctx)

	go func() {
		for {
			select {
			case tasks, ok := <-ch:
				if !ok {
					v.logger.Info("タスク一覧の購読ストリームが終了しました")
					return
				}
				v.mu.Lock()
				v.tasks = tasks
				v.ready = true
				v.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Query はキャッシュにフィルタとソートを適用した結果を返す。
// まだ一度もスナップショットを受信していない場合はfalseを返す。
func (v *ListView) Query(filter Filter, mode SortMode) ([]model.Task, bool) {
	v.mu.RLock()
	tasks := v.tasks
	ready := v.ready
	v.mu.RUnlock()

	if !ready {
		return nil, false
	}
	return Sort(filter.Apply(tasks), mode), true
}

// Find はキャッシュから指定IDのタスクを探す。
func (v *ListView) Find(id string) (*model.Task, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.ready {
		return nil, false
	}
	for i := range v.tasks {
		if v.tasks[i].ID == id {
			task := v.tasks[i]
			return &task, true
		}
	}
	return nil, true
}
