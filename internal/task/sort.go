package task

import (
	"sort"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
)

// SortMode は一覧の並べ替えモード。
type SortMode string

const (
	// SortCreatedAtDesc は作成日時の新しい順。
	SortCreatedAtDesc SortMode = "createdAt_desc"
	// SortDeadlineAsc は締切の近い順。締切未設定は末尾。
	SortDeadlineAsc SortMode = "deadline_asc"
	// SortDeadlineDesc は締切の遠い順。締切未設定は末尾。
	SortDeadlineDesc SortMode = "deadline_desc"
	// SortPriorityDesc は優先度の高い順。
	SortPriorityDesc SortMode = "priority_desc"
)

// Sort はタスク列を指定モードで安定に並べ替えた新しいスライスを返す。
// 未知のモードと空文字は入力の順序をそのまま保つ。
func Sort(tasks []model.Task, mode SortMode) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)

	switch mode {
	case SortCreatedAtDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	case SortDeadlineAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return deadlineLess(sorted[i].Deadline, sorted[j].Deadline, false)
		})
	case SortDeadlineDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return deadlineLess(sorted[i].Deadline, sorted[j].Deadline, true)
		})
	case SortPriorityDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority.Rank() > sorted[j].Priority.Rank()
		})
	}
	return sorted
}

// deadlineLess は締切の比較関数。未設定は方向に関わらず末尾に回す。
func deadlineLess(a, b *time.Time, desc bool) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	if desc {
		return a.After(*b)
	}
	return a.Before(*b)
}
