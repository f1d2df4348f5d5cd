package dashboard

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
)

type mockTaskWatcher struct {
	ch chan []model.Task
}

func (m *mockTaskWatcher) Watch(ctx context.Context) <-chan []model.Task { return m.ch }

type mockCountWatcher struct {
	ch chan int
}

func (m *mockCountWatcher) WatchCount(ctx context.Context) <-chan int { return m.ch }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// TestView_NotReadyBeforeFirstSnapshot は初回スナップショット受信前は
// キャッシュが利用不可として扱われることを検証する。
func TestView_NotReadyBeforeFirstSnapshot(t *testing.T) {
	view := NewView(
		&mockTaskWatcher{ch: make(chan []model.Task)},
		&mockCountWatcher{ch: make(chan int)},
		nil,
		slog.Default(),
		8,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	view.Start(ctx)

	if _, ok := view.Stats(); ok {
		t.Error("Stats() should not be ready before the first snapshot")
	}
	if _, ok := view.Tasks(); ok {
		t.Error("Tasks() should not be ready before the first snapshot")
	}
}

// TestView_AppliesSnapshot はスナップショット受信でキャッシュが
// 丸ごと差し替わることを検証する。
func TestView_AppliesSnapshot(t *testing.T) {
	taskWatcher := &mockTaskWatcher{ch: make(chan []model.Task, 2)}
	countWatcher := &mockCountWatcher{ch: make(chan int, 1)}
	view := NewView(taskWatcher, countWatcher, nil, slog.Default(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	view.Start(ctx)

	taskWatcher.ch <- []model.Task{
		{ID: "t1", Status: model.StatusTodo},
		{ID: "t2", Status: model.StatusCompleted},
	}
	countWatcher.ch <- 3

	waitFor(t, func() bool {
		_, ok := view.Stats()
		return ok && view.UserCount() == 3
	})

	stats, _ := view.Stats()
	if stats.Total != 2 || stats.Pending != 1 || stats.Completed != 1 {
		t.Errorf("unexpected stats after first snapshot: %+v", stats)
	}

	// 2回目のスナップショットで全置換される
	taskWatcher.ch <- []model.Task{{ID: "t3", Status: model.StatusCancelled}}
	waitFor(t, func() bool {
		s, ok := view.Stats()
		return ok && s.Total == 1
	})

	stats, _ = view.Stats()
	if stats.Pending != 0 || stats.Completed != 0 {
		t.Errorf("stats were not fully recomputed: %+v", stats)
	}
}

type recordingObserver struct {
	ch chan int
}

func (r *recordingObserver) ObserveSnapshotApplied(taskCount int, _ time.Duration) {
	r.ch <- taskCount
}

// TestView_NotifiesObserver はスナップショット適用が計測フックに
// 通知されることを検証する。
func TestView_NotifiesObserver(t *testing.T) {
	taskWatcher := &mockTaskWatcher{ch: make(chan []model.Task, 1)}
	observer := &recordingObserver{ch: make(chan int, 1)}
	view := NewView(taskWatcher, &mockCountWatcher{ch: make(chan int)}, observer, slog.Default(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	view.Start(ctx)

	taskWatcher.ch <- []model.Task{{ID: "t1"}, {ID: "t2"}}

	select {
	case n := <-observer.ch:
		if n != 2 {
			t.Errorf("observed task count = %d, want 2", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("observer was not notified")
	}
}
