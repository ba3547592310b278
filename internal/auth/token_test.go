package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-long-enough"

func TestNewTokenService_RejectsEmptySecret(t *testing.T) {
	if _, err := NewTokenService("", 24*time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := svc.Issue(42, true)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	identity, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.UserID != 42 {
		t.Errorf("UserID = %d, want 42", identity.UserID)
	}
	if !identity.IsAdmin {
		t.Error("IsAdmin = false, want true")
	}
}

func TestTokenService_Expiry(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	issuer, _ := NewTokenService(testSecret, 24*time.Hour)
	issuer = issuer.WithClock(func() time.Time { return issued })

	token, err := issuer.Issue(7, false)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"just before expiry", issued.Add(24*time.Hour - time.Minute), nil},
		{"after expiry", issued.Add(25 * time.Hour), ErrTokenExpired},
		{"long after expiry", issued.Add(30 * 24 * time.Hour), ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier, _ := NewTokenService(testSecret, 24*time.Hour)
			verifier = verifier.WithClock(func() time.Time { return tt.at })

			_, err := verifier.Verify(token)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Verify: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer, _ := NewTokenService(testSecret, 24*time.Hour)
	verifier, _ := NewTokenService("a-completely-different-secret", 24*time.Hour)

	token, err := issuer.Issue(7, false)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrTokenInvalidSignature) {
		t.Errorf("Verify error = %v, want %v", err, ErrTokenInvalidSignature)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc, _ := NewTokenService(testSecret, 24*time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Verify(%q) error = %v, want %v", token, err, ErrTokenMalformed)
		}
	}
}

func TestTokenService_RejectsNonPositiveUserID(t *testing.T) {
	svc, _ := NewTokenService(testSecret, 24*time.Hour)

	token, err := svc.Issue(0, false)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify error = %v, want %v", err, ErrTokenMalformed)
	}
}
