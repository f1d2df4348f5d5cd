// Package model はドメインモデルを定義する。
package model

import "time"

// Status はタスクの進行状態を表す。
type Status string

const (
	// StatusTodo は未着手のタスク。
	StatusTodo Status = "todo"
	// StatusInProgress は作業中のタスク。
	StatusInProgress Status = "in-progress"
	// StatusReview はレビュー待ちのタスク。
	StatusReview Status = "review"
	// StatusCompleted は完了したタスク。
	StatusCompleted Status = "completed"
	// StatusCancelled は中止されたタスク。完了にも保留にも数えない。
	StatusCancelled Status = "cancelled"
)

// IsPending は保留中（todo / in-progress / review）かどうかを返す。
func (s Status) IsPending() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusReview
}

// Priority はタスクの優先度を表す。
type Priority string

const (
	// PriorityLow は低優先度。
	PriorityLow Priority = "low"
	// PriorityMedium は中優先度。
	PriorityMedium Priority = "medium"
	// PriorityHigh は高優先度。
	PriorityHigh Priority = "high"
	// PriorityUrgent は緊急。
	PriorityUrgent Priority = "urgent"
)

// Rank は優先度ソート用の固定順位を返す。
// low=1 < medium=2 < high=3 < urgent=4。未知の値は0でlowより下位になる。
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

// Task はコンテンツ制作タスクを表す。
// tasksコレクションに格納される。AssignedTo / CreatedByはプロファイルへの
// 弱参照であり、参照切れは表示側でプレースホルダーに置き換える。
type Task struct {
	ID             string     `firestore:"-"`
	Title          string     `firestore:"title"`
	Description    string     `firestore:"description"`
	Platform       string     `firestore:"platform"`
	ContentFor     string     `firestore:"contentFor"`
	ContentType    string     `firestore:"contentType"`
	Status         Status     `firestore:"status"`
	Priority       Priority   `firestore:"priority"`
	AssignedTo     string     `firestore:"assignedTo"`
	AssignedToName string     `firestore:"assignedToName"`
	CreatedBy      string     `firestore:"createdBy"`
	Deadline       *time.Time `firestore:"deadline"`
	CreatedAt      time.Time  `firestore:"createdAt"`
	UpdatedAt      time.Time  `firestore:"updatedAt"`
}
