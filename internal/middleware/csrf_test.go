package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newCSRFHandler() http.Handler {
	return NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

// TestCSRFMiddleware_SafeMethod は安全なメソッドが検証なしで通過し、
// トークンCookieが払い出されることを検証する。
func TestCSRFMiddleware_SafeMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	newCSRFHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var issued bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "csrf_token" && cookie.Value != "" {
			issued = true
		}
	}
	if !issued {
		t.Error("csrf_token cookie was not issued")
	}
}

// TestCSRFMiddleware_Mutation は状態変更メソッドのトークン検証を検証する。
func TestCSRFMiddleware_Mutation(t *testing.T) {
	handler := newCSRFHandler()

	tests := []struct {
		name       string
		cookie     string
		header     string
		wantStatus int
	}{
		{"matching tokens", "tok123", "tok123", http.StatusOK},
		{"missing cookie", "", "tok123", http.StatusForbidden},
		{"missing header", "tok123", "", http.StatusForbidden},
		{"mismatched tokens", "tok123", "tok456", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "csrf_token", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// TestCSRFMiddleware_FailureBody は検証失敗時のレスポンスが
// 統一エラーフォーマットであることを検証する。
func TestCSRFMiddleware_FailureBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	newCSRFHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "FORBIDDEN" {
		t.Errorf("code = %q, want FORBIDDEN", body.Code)
	}
	if body.Message == "" || body.Action == "" {
		t.Errorf("message/action should be populated: %+v", body)
	}
}

// TestCSRFTokenHandler はトークン取得エンドポイントの払い出しと
// 既存トークンの再利用を検証する。
func TestCSRFTokenHandler(t *testing.T) {
	handler := NewCSRFTokenHandler(CSRFConfig{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// 既存トークンはそのまま返る
	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "existing"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if body := rec.Body.String(); !containsToken(body, "existing") {
		t.Errorf("existing token was not reused: %s", body)
	}
}

func containsToken(body, token string) bool {
	return len(body) > 0 && (body == `{"token":"`+token+`"}`+"\n")
}
