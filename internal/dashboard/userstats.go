package dashboard

import (
	"sort"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
)

// UserStats は個人ダッシュボードに表示するユーザー別の集計結果。
// 担当または作成しているタスクが集計対象で、両方に該当しても1件として数える。
type UserStats struct {
	MyTotal     int          `json:"myTotal"`
	MyPending   int          `json:"myPending"`
	MyCompleted int          `json:"myCompleted"`
	Upcoming    int          `json:"upcoming"`
	Assigned    []model.Task `json:"assigned"`
	Created     []model.Task `json:"created"`
}

// ComputeUserStats はタスク集合から指定ユーザーの集計を再計算する。
// MyPendingは完了でもキャンセルでもないタスク、Upcomingは締切が未来のタスクを数える。
// 担当タスクと作成タスクはそれぞれ締切昇順に並べ替える（締切未設定は末尾）。
func ComputeUserStats(tasks []model.Task, uid string, now time.Time) UserStats {
	var stats UserStats

	for _, task := range tasks {
		assigned := task.AssignedTo == uid
		created := task.CreatedBy == uid

		if assigned {
			stats.Assigned = append(stats.Assigned, task)
		}
		if created {
			stats.Created = append(stats.Created, task)
		}
		if assigned || created {
			stats.MyTotal++
			switch {
			case task.Status == model.StatusCompleted:
				stats.MyCompleted++
			case task.Status != model.StatusCancelled:
				stats.MyPending++
			}
			if task.Deadline != nil && task.Deadline.After(now) {
				stats.Upcoming++
			}
		}
	}

	sortByDeadlineAsc(stats.Assigned)
	sortByDeadlineAsc(stats.Created)
	return stats
}

func sortByDeadlineAsc(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].Deadline, tasks[j].Deadline
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}
