// Package task はタスクの一覧ビューとCRUD操作を提供する。
package task

import (
	"strings"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
)

// Filter は一覧の絞り込み条件。ゼロ値のフィールドは条件なしを表し、
// 指定された条件はすべてAND結合される。
type Filter struct {
	Status         model.Status
	Priority       model.Priority
	Platform       string
	AssignedToName string
	DeadlineFrom   *time.Time
	DeadlineTo     *time.Time
	Search         string
}

// Match はタスクが全条件を満たすかを返す。
func (f Filter) Match(task model.Task) bool {
	if f.Status != "" && task.Status != f.Status {
		return false
	}
	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}
	if f.Platform != "" && task.Platform != f.Platform {
		return false
	}
	if f.AssignedToName != "" && !containsFold(task.AssignedToName, f.AssignedToName) {
		return false
	}
	if !f.matchDeadline(task.Deadline) {
		return false
	}
	// タイトルと説明は連結して検索する。境界をまたぐ語句もヒットさせる。
	if f.Search != "" && !containsFold(task.Title+" "+task.Description, f.Search) {
		return false
	}
	return true
}

// matchDeadline は締切の範囲条件を判定する。境界は両端とも含む。
// 範囲が指定されている場合、締切未設定のタスクは除外される。
func (f Filter) matchDeadline(deadline *time.Time) bool {
	if f.DeadlineFrom == nil && f.DeadlineTo == nil {
		return true
	}
	if deadline == nil {
		return false
	}
	if f.DeadlineFrom != nil && deadline.Before(*f.DeadlineFrom) {
		return false
	}
	if f.DeadlineTo != nil && deadline.After(*f.DeadlineTo) {
		return false
	}
	return true
}

// Apply はフィルタにマッチするタスクだけを元の順序のまま返す。
func (f Filter) Apply(tasks []model.Task) []model.Task {
	matched := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Match(task) {
			matched = append(matched, task)
		}
	}
	return matched
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
