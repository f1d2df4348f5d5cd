// Package guard は保護ページへのアクセス判定を提供する。
// セッションの検証とロール要求の突き合わせをここに集約し、
// ハンドラー層には認可済みのプロファイルだけを渡す。
package guard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/langitlangit/creatortrack/internal/model"
	"github.com/langitlangit/creatortrack/internal/repository"
)

// Service はアクセスガード。
type Service struct {
	sessionRepo repository.SessionRepository
	profileRepo repository.ProfileRepository
}

// NewService はServiceを生成する。
func NewService(
	sessionRepo repository.SessionRepository,
	profileRepo repository.ProfileRepository,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
	}
}

// Protect はセッションIDとロール要求を検証し、認可済みの
// セッションとプロファイルを返す。
//
// セッションが存在しない・期限切れの場合はUNAUTHENTICATED、
// ロール不足の場合はFORBIDDENを返す。到達不能性(ストア障害)は
// そのままラップして返し、認可エラーとは区別する。
func (s *Service) Protect(ctx context.Context, sessionID string, requiredRole model.Role) (*model.Session, *model.Profile, error) {
	if sessionID == "" {
		return nil, nil, model.NewUnauthenticatedError()
	}

	// 1. セッション検証
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if session == nil {
		return nil, nil, model.NewUnauthenticatedError()
	}

	// 2. プロファイル取得
	profile, err := s.profileRepo.FindByUID(ctx, session.UID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile for session: %w", err)
	}
	if profile == nil {
		// セッションは有効だがプロファイルが外部で削除されたケース。
		// 再ログインで修復されるため未認証として扱う。
		slog.Warn("session without profile, requiring re-authentication",
			slog.String("uid", session.UID))
		return nil, nil, model.NewUnauthenticatedError()
	}

	// 3. ロール要求の突き合わせ
	if requiredRole == model.RoleAdmin && !profile.IsAdmin() {
		return nil, nil, model.NewForbiddenError()
	}

	return session, profile, nil
}
