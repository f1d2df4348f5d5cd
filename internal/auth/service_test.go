package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/langitlangit/creatortrack/internal/model"
)

// --- モック ---

type mockProvider struct {
	createAccountFn func(ctx context.Context, email, password string) (*Account, error)
	authenticateFn  func(ctx context.Context, email, password string) (*Account, error)
}

func (m *mockProvider) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	return m.createAccountFn(ctx, email, password)
}
func (m *mockProvider) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	return m.authenticateFn(ctx, email, password)
}

type mockProfileRepo struct {
	profiles map[string]*model.Profile
	saveErr  error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) FindByUID(ctx context.Context, uid string) (*model.Profile, error) {
	return m.profiles[uid], nil
}
func (m *mockProfileRepo) Save(ctx context.Context, profile *model.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profiles[profile.UID] = profile
	return nil
}
func (m *mockProfileRepo) List(ctx context.Context) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}
func (m *mockProfileRepo) UpdateTheme(ctx context.Context, uid string, theme model.Theme) error {
	if p, ok := m.profiles[uid]; ok {
		p.Theme = theme
	}
	return nil
}

type mockSessionRepo struct {
	sessions    map[string]*model.Session
	deleteCalls int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.Session)}
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	m.sessions[session.ID] = session
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.sessions[id], nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	m.deleteCalls++
	delete(m.sessions, id)
	return nil
}

func newTestService(provider Provider, profileRepo *mockProfileRepo, sessionRepo *mockSessionRepo) *Service {
	return NewService(provider, profileRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})
}

// --- テスト ---

// TestService_Register_NormalizesRole はフォーム由来のロールが許可リストで
// 正規化されることを検証する。"admin" 以外の任意文字列はすべて "user" になる。
func TestService_Register_NormalizesRole(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRole model.Role
	}{
		{"admin is preserved", "admin", model.RoleAdmin},
		{"user stays user", "user", model.RoleUser},
		{"arbitrary string is demoted", "superadmin", model.RoleUser},
		{"empty defaults to user", "", model.RoleUser},
		{"case sensitive", "Admin", model.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{
				createAccountFn: func(ctx context.Context, email, password string) (*Account, error) {
					return &Account{UID: "u1", Email: email}, nil
				},
			}
			profileRepo := newMockProfileRepo()
			sessionRepo := newMockSessionRepo()
			svc := newTestService(provider, profileRepo, sessionRepo)

			profile, session, err := svc.Register(context.Background(), RegisterInput{
				Email:    "a@b.com",
				Password: "secret123",
				Role:     tt.input,
			})
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if profile.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", profile.Role, tt.wantRole)
			}
			if session == nil || session.UID != "u1" {
				t.Errorf("session not issued for registered account: %+v", session)
			}

			// プロファイルが永続化されていること
			saved := profileRepo.profiles["u1"]
			if saved == nil {
				t.Fatal("profile document was not persisted")
			}
			if saved.Role != tt.wantRole {
				t.Errorf("persisted Role = %q, want %q", saved.Role, tt.wantRole)
			}
		})
	}
}

// TestService_Register_ProviderRejection はプロバイダー拒否が
// RegistrationFailedとして伝播することを検証する。
func TestService_Register_ProviderRejection(t *testing.T) {
	provider := &mockProvider{
		createAccountFn: func(ctx context.Context, email, password string) (*Account, error) {
			return nil, &ProviderError{Reason: "EMAIL_EXISTS"}
		},
	}
	profileRepo := newMockProfileRepo()
	svc := newTestService(provider, profileRepo, newMockSessionRepo())

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Password: "secret123",
	})
	if err == nil {
		t.Fatal("expected error for rejected registration, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeRegistrationFailed {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeRegistrationFailed)
	}

	// プロファイルは書き込まれないこと
	if len(profileRepo.profiles) != 0 {
		t.Errorf("profile should not be persisted on rejection, got %d docs", len(profileRepo.profiles))
	}
}

// TestService_Login_ExistingProfile は既存プロファイルがそのまま返ることを検証する。
func TestService_Login_ExistingProfile(t *testing.T) {
	provider := &mockProvider{
		authenticateFn: func(ctx context.Context, email, password string) (*Account, error) {
			return &Account{UID: "u1", Email: "a@b.com"}, nil
		},
	}
	profileRepo := newMockProfileRepo()
	profileRepo.profiles["u1"] = &model.Profile{
		UID: "u1", Email: "a@b.com", DisplayName: "Alice", Role: model.RoleAdmin,
	}
	svc := newTestService(provider, profileRepo, newMockSessionRepo())

	profile, _, err := svc.Login(context.Background(), "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if profile.DisplayName != "Alice" {
		t.Errorf("DisplayName = %q, want %q", profile.DisplayName, "Alice")
	}
	if profile.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", profile.Role, model.RoleAdmin)
	}
}

// TestService_Login_MissingProfile_SynthesizesDefault はプロファイル欠落時に
// デフォルトプロファイルが合成・永続化されることを検証する（冪等な修復）。
func TestService_Login_MissingProfile_SynthesizesDefault(t *testing.T) {
	provider := &mockProvider{
		authenticateFn: func(ctx context.Context, email, password string) (*Account, error) {
			return &Account{UID: "u1", Email: "a@b.com"}, nil
		},
	}
	profileRepo := newMockProfileRepo()
	svc := newTestService(provider, profileRepo, newMockSessionRepo())

	profile, _, err := svc.Login(context.Background(), "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if profile.UID != "u1" {
		t.Errorf("UID = %q, want %q", profile.UID, "u1")
	}
	if profile.Email != "a@b.com" {
		t.Errorf("Email = %q, want %q", profile.Email, "a@b.com")
	}
	if profile.DisplayName != "" {
		t.Errorf("DisplayName = %q, want empty", profile.DisplayName)
	}
	if profile.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", profile.Role, model.RoleUser)
	}
	if profile.Specialization != "" {
		t.Errorf("Specialization = %q, want empty", profile.Specialization)
	}

	// ストアにドキュメントが作成されていること
	if profileRepo.profiles["u1"] == nil {
		t.Error("default profile was not persisted")
	}
}

// TestService_Login_BadCredentials は認証失敗がAuthenticationFailedとして
// 伝播することを検証する。
func TestService_Login_BadCredentials(t *testing.T) {
	provider := &mockProvider{
		authenticateFn: func(ctx context.Context, email, password string) (*Account, error) {
			return nil, &ProviderError{Reason: "INVALID_PASSWORD"}
		},
	}
	svc := newTestService(provider, newMockProfileRepo(), newMockSessionRepo())

	_, _, err := svc.Login(context.Background(), "a@b.com", "wrong")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeAuthenticationFailed {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeAuthenticationFailed)
	}
}

// TestService_Logout_Idempotent はログアウトが複数回呼んでも安全なことを検証する。
func TestService_Logout_Idempotent(t *testing.T) {
	sessionRepo := newMockSessionRepo()
	sessionRepo.sessions["s1"] = &model.Session{ID: "s1", UID: "u1"}
	svc := newTestService(&mockProvider{}, newMockProfileRepo(), sessionRepo)

	if err := svc.Logout(context.Background(), "s1"); err != nil {
		t.Fatalf("first Logout() error = %v", err)
	}
	if err := svc.Logout(context.Background(), "s1"); err != nil {
		t.Fatalf("second Logout() error = %v", err)
	}
	// セッション未保持の呼び出しもエラーにならない
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty session Logout() error = %v", err)
	}
}
