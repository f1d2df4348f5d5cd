package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/langitlangit/creatortrack/internal/model"
)

// tasksCollection はタスクを格納するコレクション名。
const tasksCollection = "tasks"

// FirestoreTaskRepo はFirestoreを使用したタスクリポジトリ。
type FirestoreTaskRepo struct {
	client *firestore.Client
}

// NewFirestoreTaskRepo はFirestoreTaskRepoを生成する。
func NewFirestoreTaskRepo(client *firestore.Client) *FirestoreTaskRepo {
	return &FirestoreTaskRepo{client: client}
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *FirestoreTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	snap, err := r.client.Collection(tasksCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task document: %w", err)
	}

	task := &model.Task{}
	if err := snap.DataTo(task); err != nil {
		return nil, fmt.Errorf("failed to decode task document: %w", err)
	}
	task.ID = snap.Ref.ID
	return task, nil
}

// Save はタスクをIDをキーにUPSERTする（全置換）。
func (r *FirestoreTaskRepo) Save(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if _, err := r.client.Collection(tasksCollection).Doc(task.ID).Set(ctx, task); err != nil {
		return fmt.Errorf("failed to save task document: %w", err)
	}
	return nil
}

// Delete は指定IDのタスクを削除する。
func (r *FirestoreTaskRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(tasksCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete task document: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TaskRepository = (*FirestoreTaskRepo)(nil)
