// Package repository はドキュメントストアに対する永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/langitlangit/creatortrack/internal/model"
)

// ProfileRepository はユーザープロファイルの永続化インターフェース。
type ProfileRepository interface {
	// FindByUID は指定uidのプロファイルを取得する。見つからない場合はnilを返す。
	FindByUID(ctx context.Context, uid string) (*model.Profile, error)

	// Save はプロファイルをuidをキーにUPSERTする（全置換）。
	Save(ctx context.Context, profile *model.Profile) error

	// List は全プロファイルを返す。管理者のユーザー一覧表示用。
	List(ctx context.Context) ([]*model.Profile, error)

	// UpdateTheme は表示テーマのみを部分更新する。
	UpdateTheme(ctx context.Context, uid string, theme model.Theme) error
}

// TaskRepository はタスクの永続化インターフェース。
type TaskRepository interface {
	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// Save はタスクをIDをキーにUPSERTする（全置換）。
	Save(ctx context.Context, task *model.Task) error

	// Delete は指定IDのタスクを削除する。
	Delete(ctx context.Context, id string) error
}

// SessionRepository はセッションの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れまたは未検出の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しない場合もエラーにしない。
	DeleteByID(ctx context.Context, id string) error
}

// TaskWatcher はタスクコレクションの購読インターフェース。
// ストリームはマッチするドキュメントが変化するたびに、結果集合全体の
// スナップショットをupdatedAt降順で配信する（差分ではなく全置換）。
type TaskWatcher interface {
	// Watch は購読を開始し、スナップショットのチャネルを返す。
	// チャネルはコンテキストのキャンセルまたはストリーム終了でクローズされる。
	Watch(ctx context.Context) <-chan []model.Task
}

// ProfileCountWatcher はユーザーコレクションの件数のみを購読するインターフェース。
// ダッシュボードのライブユーザー数表示用で、個別ドキュメントは配信しない。
type ProfileCountWatcher interface {
	// WatchCount は購読を開始し、スナップショットごとの総件数を配信する。
	WatchCount(ctx context.Context) <-chan int
}
