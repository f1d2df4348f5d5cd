package task

import (
	"testing"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
)

// TestSort_PriorityDesc は優先度降順の固定順位を検証する。
func TestSort_PriorityDesc(t *testing.T) {
	tasks := []model.Task{
		{ID: "low", Priority: model.PriorityLow},
		{ID: "urgent", Priority: model.PriorityUrgent},
		{ID: "medium", Priority: model.PriorityMedium},
		{ID: "unknown", Priority: "???"},
	}

	got := Sort(tasks, SortPriorityDesc)

	wantOrder := []string{"urgent", "medium", "low", "unknown"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}
}

// TestSort_CreatedAtDesc は作成日時の新しい順を検証する。
func TestSort_CreatedAtDesc(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(time.Hour)},
	}

	got := Sort(tasks, SortCreatedAtDesc)
	if got[0].ID != "new" || got[1].ID != "old" {
		t.Errorf("unexpected order: %q, %q", got[0].ID, got[1].ID)
	}
}

// TestSort_Deadline は締切ソートの両方向で未設定が末尾に回ることを検証する。
func TestSort_Deadline(t *testing.T) {
	early := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "none"},
		{ID: "late", Deadline: &late},
		{ID: "early", Deadline: &early},
	}

	asc := Sort(tasks, SortDeadlineAsc)
	if asc[0].ID != "early" || asc[1].ID != "late" || asc[2].ID != "none" {
		t.Errorf("asc order = %q, %q, %q", asc[0].ID, asc[1].ID, asc[2].ID)
	}

	desc := Sort(tasks, SortDeadlineDesc)
	if desc[0].ID != "late" || desc[1].ID != "early" || desc[2].ID != "none" {
		t.Errorf("desc order = %q, %q, %q", desc[0].ID, desc[1].ID, desc[2].ID)
	}
}

// TestSort_DeadlineAsc_UndatedSortLast は締切昇順でも未設定タスクが
// 先頭に浮かばず末尾に回ることを検証する。未設定をゼロ値扱いすると
// 昇順の先頭を占有してしまうため、明示的に末尾へ送る。
func TestSort_DeadlineAsc_UndatedSortLast(t *testing.T) {
	deadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "undated1"},
		{ID: "dated", Deadline: &deadline},
		{ID: "undated2"},
	}

	got := Sort(tasks, SortDeadlineAsc)
	if got[0].ID != "dated" {
		t.Errorf("got[0].ID = %q, want %q", got[0].ID, "dated")
	}
	// 未設定同士は元の相対順を保つ
	if got[1].ID != "undated1" || got[2].ID != "undated2" {
		t.Errorf("undated order = %q, %q, want undated1, undated2", got[1].ID, got[2].ID)
	}
}

// TestSort_UnknownMode は未知のモードが入力順を保つことを検証する。
func TestSort_UnknownMode(t *testing.T) {
	tasks := []model.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	for _, mode := range []SortMode{"", "bogus"} {
		got := Sort(tasks, mode)
		for i := range tasks {
			if got[i].ID != tasks[i].ID {
				t.Errorf("mode %q reordered input at index %d", mode, i)
			}
		}
	}
}

// TestSort_DoesNotMutateInput は並べ替えが入力スライスを汚さないことを検証する。
func TestSort_DoesNotMutateInput(t *testing.T) {
	tasks := []model.Task{
		{ID: "low", Priority: model.PriorityLow},
		{ID: "urgent", Priority: model.PriorityUrgent},
	}

	_ = Sort(tasks, SortPriorityDesc)
	if tasks[0].ID != "low" {
		t.Error("input slice was mutated")
	}
}
