package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/langitlangit/creatortrack/internal/model"
)

// sessionsCollection はセッションを格納するコレクション名。
const sessionsCollection = "sessions"

// FirestoreSessionRepo はFirestoreを使用したセッションリポジトリ。
type FirestoreSessionRepo struct {
	client *firestore.Client
}

// NewFirestoreSessionRepo はFirestoreSessionRepoを生成する。
func NewFirestoreSessionRepo(client *firestore.Client) *FirestoreSessionRepo {
	return &FirestoreSessionRepo{client: client}
}

// Create はセッションを作成する。
func (r *FirestoreSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if _, err := r.client.Collection(sessionsCollection).Doc(session.ID).Set(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションを取得する。期限切れまたは未検出の場合はnilを返す。
func (r *FirestoreSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	snap, err := r.client.Collection(sessionsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session document: %w", err)
	}

	session := &model.Session{}
	if err := snap.DataTo(session); err != nil {
		return nil, fmt.Errorf("failed to decode session document: %w", err)
	}
	if !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return session, nil
}

// DeleteByID は指定IDのセッションを削除する。
// Firestoreの削除は存在しないドキュメントに対しても成功するため、冪等に呼び出せる。
func (r *FirestoreSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.client.Collection(sessionsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired は有効期限がbeforeより前のセッションをまとめて削除し、削除件数を返す。
// 有効期限判定はFindByIDでも行われるため、このメソッドはストレージの肥大化を防ぐ
// 掃除用であり、呼び出しが遅れても認可判定には影響しない。
func (r *FirestoreSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	iter := r.client.Collection(sessionsCollection).
		Where("expiresAt", "<", before).
		Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to iterate expired sessions: %w", err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("failed to delete expired session: %w", err)
		}
		deleted++
	}
	return deleted, nil
}

// compile-time interface check
var _ SessionRepository = (*FirestoreSessionRepo)(nil)
