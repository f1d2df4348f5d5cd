package repository

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/langitlangit/creatortrack/internal/model"
)

// Watch はタスクコレクションの購読を開始する。
// Firestoreのスナップショットリスナーを1本張り、変化のたびに結果集合全体を
// updatedAt降順で配信する。購読はページ（プロセス）の生存期間だけ維持され、
// コンテキストのキャンセルがストリーム終了の唯一の契機となる。
// ストリームの回収はFirestoreクライアント側の責務。
func (r *FirestoreTaskRepo) Watch(ctx context.Context) <-chan []model.Task {
	ch := make(chan []model.Task)

	query := r.client.Collection(tasksCollection).OrderBy("updatedAt", firestore.Desc)
	snapIter := query.Snapshots(ctx)

	go func() {
		defer close(ch)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					slog.Error("task snapshot stream terminated",
						slog.String("error", err.Error()),
					)
				}
				return
			}

			tasks := decodeTaskSnapshot(snap)

			select {
			case ch <- tasks:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

// decodeTaskSnapshot はクエリスナップショットをタスクのスライスに変換する。
// デコードできないドキュメントは警告を記録してスキップし、残りの行の配信を妨げない。
func decodeTaskSnapshot(snap *firestore.QuerySnapshot) []model.Task {
	tasks := make([]model.Task, 0, snap.Size)
	for {
		doc, err := snap.Documents.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			slog.Warn("failed to iterate task snapshot",
				slog.String("error", err.Error()),
			)
			break
		}

		task := model.Task{}
		if decodeErr := doc.DataTo(&task); decodeErr != nil {
			slog.Warn("skipping undecodable task document",
				slog.String("task_id", doc.Ref.ID),
				slog.String("error", decodeErr.Error()),
			)
			continue
		}
		task.ID = doc.Ref.ID
		tasks = append(tasks, task)
	}
	return tasks
}

// WatchCount はユーザーコレクションの件数のみを購読する。
// タスク購読とは独立したストリームで、両者の配信順序に関係はない。
func (r *FirestoreProfileRepo) WatchCount(ctx context.Context) <-chan int {
	ch := make(chan int)

	snapIter := r.client.Collection(profilesCollection).Snapshots(ctx)

	go func() {
		defer close(ch)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					slog.Error("profile snapshot stream terminated",
						slog.String("error", err.Error()),
					)
				}
				return
			}

			select {
			case ch <- snap.Size:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

// compile-time interface checks
var (
	_ TaskWatcher         = (*FirestoreTaskRepo)(nil)
	_ ProfileCountWatcher = (*FirestoreProfileRepo)(nil)
)
