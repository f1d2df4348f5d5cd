package dashboard

import (
	"testing"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
)

func deadlinePtr(t time.Time) *time.Time { return &t }

// TestComputeUserStats_Counts は担当・作成タスクの計上規則を検証する。
func TestComputeUserStats_Counts(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "t1", AssignedTo: "u1", Status: model.StatusTodo, Deadline: deadlinePtr(now.Add(48 * time.Hour))},
		{ID: "t2", AssignedTo: "u1", Status: model.StatusCompleted},
		{ID: "t3", AssignedTo: "u1", Status: model.StatusInProgress, Deadline: deadlinePtr(now.Add(30 * 24 * time.Hour))},
		{ID: "t4", AssignedTo: "u2", Status: model.StatusTodo},
		{ID: "t5", CreatedBy: "u1", AssignedTo: "u2", Status: model.StatusTodo},
		{ID: "t6", AssignedTo: "u1", Status: model.StatusCancelled},
		{ID: "t7", AssignedTo: "u1", Status: model.StatusTodo, Deadline: deadlinePtr(now.Add(-24 * time.Hour))},
	}

	stats := ComputeUserStats(tasks, "u1", now)

	if stats.MyTotal != 6 {
		t.Errorf("MyTotal = %d, want 6", stats.MyTotal)
	}
	// 完了でもキャンセルでもないt1, t3, t5, t7
	if stats.MyPending != 4 {
		t.Errorf("MyPending = %d, want 4", stats.MyPending)
	}
	if stats.MyCompleted != 1 {
		t.Errorf("MyCompleted = %d, want 1", stats.MyCompleted)
	}
	// 締切が未来のt1, t3のみ。過去の締切(t7)は数えない
	if stats.Upcoming != 2 {
		t.Errorf("Upcoming = %d, want 2", stats.Upcoming)
	}
	if len(stats.Created) != 1 || stats.Created[0].ID != "t5" {
		t.Errorf("Created = %+v, want [t5]", stats.Created)
	}
}

// TestComputeUserStats_AssignedAndCreated_CountedOnce は担当かつ作成の
// タスクが集計上1件として扱われることを検証する。
func TestComputeUserStats_AssignedAndCreated_CountedOnce(t *testing.T) {
	now := time.Now()
	tasks := []model.Task{
		{ID: "t1", AssignedTo: "u1", CreatedBy: "u1", Status: model.StatusTodo},
	}

	stats := ComputeUserStats(tasks, "u1", now)

	if stats.MyTotal != 1 {
		t.Errorf("MyTotal = %d, want 1", stats.MyTotal)
	}
	if len(stats.Assigned) != 1 || len(stats.Created) != 1 {
		t.Errorf("Assigned/Created = %d/%d, want 1/1", len(stats.Assigned), len(stats.Created))
	}
}

// TestComputeUserStats_DeadlineOrder は担当一覧が締切昇順で、
// 締切未設定が末尾に回ることを検証する。
func TestComputeUserStats_DeadlineOrder(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "late", AssignedTo: "u1", Status: model.StatusTodo, Deadline: deadlinePtr(now.Add(72 * time.Hour))},
		{ID: "none", AssignedTo: "u1", Status: model.StatusTodo},
		{ID: "soon", AssignedTo: "u1", Status: model.StatusTodo, Deadline: deadlinePtr(now.Add(24 * time.Hour))},
	}

	stats := ComputeUserStats(tasks, "u1", now)

	wantOrder := []string{"soon", "late", "none"}
	if len(stats.Assigned) != len(wantOrder) {
		t.Fatalf("len(Assigned) = %d, want %d", len(stats.Assigned), len(wantOrder))
	}
	for i, want := range wantOrder {
		if stats.Assigned[i].ID != want {
			t.Errorf("Assigned[%d].ID = %q, want %q", i, stats.Assigned[i].ID, want)
		}
	}
}

// TestComputeUserStats_NoTasks は関与タスクがないユーザーでゼロ値に
// なることを検証する。
func TestComputeUserStats_NoTasks(t *testing.T) {
	now := time.Now()
	stats := ComputeUserStats([]model.Task{{ID: "t1", AssignedTo: "other"}}, "u1", now)
	if stats.MyTotal != 0 || len(stats.Assigned) != 0 || len(stats.Created) != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}
