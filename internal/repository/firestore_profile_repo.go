package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/langitlangit/creatortrack/internal/model"
)

// profilesCollection はプロファイルを格納するコレクション名。
const profilesCollection = "users"

// FirestoreProfileRepo はFirestoreを使用したプロファイルリポジトリ。
type FirestoreProfileRepo struct {
	client *firestore.Client
}

// NewFirestoreProfileRepo はFirestoreProfileRepoを生成する。
func NewFirestoreProfileRepo(client *firestore.Client) *FirestoreProfileRepo {
	return &FirestoreProfileRepo{client: client}
}

// FindByUID は指定uidのプロファイルを取得する。見つからない場合はnilを返す。
func (r *FirestoreProfileRepo) FindByUID(ctx context.Context, uid string) (*model.Profile, error) {
	snap, err := r.client.Collection(profilesCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile document: %w", err)
	}

	profile := &model.Profile{}
	if err := snap.DataTo(profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile document: %w", err)
	}
	return profile, nil
}

// Save はプロファイルをuidをキーにUPSERTする（全置換）。
func (r *FirestoreProfileRepo) Save(ctx context.Context, profile *model.Profile) error {
	if profile.UID == "" {
		return fmt.Errorf("profile uid is required")
	}
	if _, err := r.client.Collection(profilesCollection).Doc(profile.UID).Set(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile document: %w", err)
	}
	return nil
}

// List は全プロファイルを返す。
// デコードできないドキュメントはスキップし、一覧全体は中断しない。
func (r *FirestoreProfileRepo) List(ctx context.Context) ([]*model.Profile, error) {
	iter := r.client.Collection(profilesCollection).Documents(ctx)
	defer iter.Stop()

	var profiles []*model.Profile
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate profiles: %w", err)
		}

		profile := &model.Profile{}
		if err := snap.DataTo(profile); err != nil {
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// UpdateTheme は表示テーマのみを部分更新する。
func (r *FirestoreProfileRepo) UpdateTheme(ctx context.Context, uid string, theme model.Theme) error {
	_, err := r.client.Collection(profilesCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "theme", Value: theme},
	})
	if err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProfileRepository = (*FirestoreProfileRepo)(nil)
