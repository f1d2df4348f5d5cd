package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	defaultSignUpURL = "https://identitytoolkit.googleapis.com/v1/accounts:signUp"
	defaultSignInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"
)

// FirebaseProviderConfig はFirebase Identity Toolkitプロバイダーの設定。
type FirebaseProviderConfig struct {
	APIKey string

	// テスト用にオーバーライド可能なURL
	SignUpURL string
	SignInURL string
}

// FirebaseProvider はFirebase Identity Toolkit REST APIによる
// メール/パスワード認証を提供する。
// セッションの永続化は行わず、検証済みアイデンティティの返却のみを担う。
type FirebaseProvider struct {
	config FirebaseProviderConfig
}

// NewFirebaseProvider はFirebaseProviderを生成する。
func NewFirebaseProvider(config FirebaseProviderConfig) *FirebaseProvider {
	if config.SignUpURL == "" {
		config.SignUpURL = defaultSignUpURL
	}
	if config.SignInURL == "" {
		config.SignInURL = defaultSignInURL
	}
	return &FirebaseProvider{config: config}
}

// identityRequest はIdentity Toolkitの認証エンドポイントへのリクエストボディ。
type identityRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// identityResponse はIdentity Toolkitの認証エンドポイントのレスポンス。
type identityResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

// identityErrorResponse はIdentity Toolkitのエラーレスポンス。
type identityErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateAccount はメールアドレスとパスワードで新規アカウントを作成する。
func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	return p.post(ctx, p.config.SignUpURL, email, password)
}

// Authenticate は資格情報を検証し、アイデンティティを返す。
func (p *FirebaseProvider) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	return p.post(ctx, p.config.SignInURL, email, password)
}

// post はIdentity Toolkitの認証エンドポイントを呼び出す。
// 4xxレスポンスはプロバイダーによる資格情報の拒否として*ProviderErrorに変換する。
func (p *FirebaseProvider) post(ctx context.Context, endpoint, email, password string) (*Account, error) {
	payload, err := json.Marshal(identityRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal identity request: %w", err)
	}

	url := endpoint + "?key=" + p.config.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var errResp identityErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
			return nil, &ProviderError{Reason: fmt.Sprintf("status %d", resp.StatusCode)}
		}
		return nil, &ProviderError{Reason: errResp.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var idResp identityResponse
	if err := json.Unmarshal(body, &idResp); err != nil {
		return nil, fmt.Errorf("failed to parse identity response: %w", err)
	}
	if idResp.LocalID == "" {
		return nil, fmt.Errorf("empty localId in identity response")
	}

	return &Account{
		UID:   idResp.LocalID,
		Email: idResp.Email,
	}, nil
}

// compile-time interface check
var _ Provider = (*FirebaseProvider)(nil)
