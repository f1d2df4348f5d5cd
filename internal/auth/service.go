package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
	"github.com/langitlangit/creatortrack/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service はプロファイルストアのビジネスロジックを提供する。
// アイデンティティプロバイダーのアイデンティティと、アプリケーションレベルの
// プロファイルドキュメント（ロール・表示名）を対応付ける。
type Service struct {
	provider    Provider
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	provider Provider,
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		provider:    provider,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// RegisterInput は新規登録の入力。
// Roleはフォーム由来の未検証文字列として扱い、許可リストで正規化する。
type RegisterInput struct {
	Email          string
	Password       string
	DisplayName    string
	Role           string
	Specialization string
}

// Register は新規アカウントを作成し、プロファイルドキュメントを無条件に書き込む。
// プロバイダーが資格情報を拒否した場合（メール重複、脆弱なパスワード等）は
// RegistrationFailedを返し、リダイレクトせずユーザーに再試行させる。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.Profile, *model.Session, error) {
	account, err := s.provider.CreateAccount(ctx, in.Email, in.Password)
	if err != nil {
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			return nil, nil, model.NewRegistrationFailedError(provErr.Reason)
		}
		return nil, nil, fmt.Errorf("failed to create account: %w", err)
	}

	profile := &model.Profile{
		UID:            account.UID,
		Email:          in.Email,
		DisplayName:    in.DisplayName,
		Role:           model.NormalizeRole(in.Role),
		Specialization: in.Specialization,
		Theme:          model.ThemeDark,
		CreatedAt:      time.Now(),
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, nil, fmt.Errorf("failed to save profile: %w", err)
	}

	session, err := s.createSession(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("new user registered",
		slog.String("uid", account.UID),
		slog.String("role", string(profile.Role)),
	)

	return profile, session, nil
}

// Login は資格情報を検証し、対応するプロファイルを返す。
// プロファイルが存在しない場合（通常の登録フロー外で作成されたアカウント等）は
// role=userのデフォルトプロファイルを合成して永続化する。
// これは冪等な修復であり、エラーではない。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Profile, *model.Session, error) {
	account, err := s.provider.Authenticate(ctx, email, password)
	if err != nil {
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			return nil, nil, model.NewAuthenticationFailedError(provErr.Reason)
		}
		return nil, nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	profile, err := s.profileRepo.FindByUID(ctx, account.UID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find profile: %w", err)
	}

	if profile == nil {
		profile = &model.Profile{
			UID:            account.UID,
			Email:          account.Email,
			DisplayName:    "",
			Role:           model.RoleUser,
			Specialization: "",
			Theme:          model.ThemeDark,
			CreatedAt:      time.Now(),
		}
		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return nil, nil, fmt.Errorf("failed to repair missing profile: %w", err)
		}
		slog.Info("synthesized default profile on login",
			slog.String("uid", account.UID),
		)
	}

	session, err := s.createSession(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return profile, session, nil
}

// Logout はセッションを破棄する。
// 既にログアウト済みの場合もエラーにしない（呼び出し側から見て冪等）。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, account *Account) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UID:       account.UID,
		Email:     account.Email,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
