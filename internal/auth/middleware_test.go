package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestMiddleware(t *testing.T) (func(http.Handler) http.Handler, *TokenService) {
	t.Helper()
	svc, err := NewTokenService(testSecret, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return RequireAuth(svc, zerolog.Nop()), svc
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	middleware, _ := newTestMiddleware(t)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"empty bearer", "Bearer "},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["error"] != "Access token required" {
				t.Errorf("error = %q, want %q", body["error"], "Access token required")
			}
		})
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	middleware, _ := newTestMiddleware(t)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	other, _ := NewTokenService("some-other-secret-entirely", 24*time.Hour)
	foreignToken, _ := other.Issue(1, false)

	expiredIssuer, _ := NewTokenService(testSecret, 24*time.Hour)
	expiredIssuer = expiredIssuer.WithClock(func() time.Time {
		return time.Now().Add(-48 * time.Hour)
	})
	expiredToken, _ := expiredIssuer.Issue(1, false)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"foreign signature", foreignToken},
		{"expired", expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["error"] != "Invalid token" {
				t.Errorf("error = %q, want %q", body["error"], "Invalid token")
			}
		})
	}
}

func TestRequireAuth_ValidTokenInjectsIdentity(t *testing.T) {
	middleware, svc := newTestMiddleware(t)

	var captured Identity
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("identity missing from context")
		}
		captured = id
		w.WriteHeader(http.StatusNoContent)
	}))

	token, err := svc.Issue(42, true)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if captured.UserID != 42 || !captured.IsAdmin {
		t.Errorf("identity = %+v, want UserID=42 IsAdmin=true", captured)
	}
}
