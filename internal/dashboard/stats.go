// Package dashboard はタスクコレクションのライブ集計ビューを提供する。
// ストアの購読ストリームからスナップショットを受け取るたびに
// 集計を全件再計算し、直近の結果をキャッシュとして保持する。
package dashboard

import (
	"sort"

	"github.com/langitlangit/creatortrack/internal/model"
)

// unspecifiedBucket はcontentFor未設定のタスクを束ねるバケット名。
const unspecifiedBucket = "Unspecified"

// Stats はダッシュボードに表示する集計結果。
// 1回のスナップショットから丸ごと再計算される値オブジェクトで、
// 生成後に書き換えない。
type Stats struct {
	Total        int            `json:"total"`
	Pending      int            `json:"pending"`
	Completed    int            `json:"completed"`
	ByStatus     map[string]int `json:"byStatus"`
	ByPlatform   map[string]int `json:"byPlatform"`
	ByContentFor map[string]int `json:"byContentFor"`
	Recent       []model.Task   `json:"recent"`
}

// Compute はタスク集合から集計を再計算する。
// 中止タスクは保留にも完了にも数えないが、総数と度数分布には含める。
func Compute(tasks []model.Task, recentLimit int) Stats {
	stats := Stats{
		Total:        len(tasks),
		ByStatus:     make(map[string]int),
		ByPlatform:   make(map[string]int),
		ByContentFor: make(map[string]int),
	}

	for _, task := range tasks {
		stats.ByStatus[string(task.Status)]++

		// プラットフォーム未設定は空文字キーのまま数える
		stats.ByPlatform[task.Platform]++

		bucket := task.ContentFor
		if bucket == "" {
			bucket = unspecifiedBucket
		}
		stats.ByContentFor[bucket]++

		if task.Status.IsPending() {
			stats.Pending++
		}
		if task.Status == model.StatusCompleted {
			stats.Completed++
		}
	}

	stats.Recent = recentTasks(tasks, recentLimit)
	return stats
}

// recentTasks は更新日時降順の先頭n件を返す。
// 同時刻のタスクは元の並び順を保つ。
func recentTasks(tasks []model.Task, n int) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
