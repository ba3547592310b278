// Package auth provides JWT bearer-token issuance, verification and the
// HTTP middleware that gates protected routes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the resolved caller identity carried by a verified token.
type Identity struct {
	UserID  int64
	IsAdmin bool
}

// Claims is the JWT claim set for Eventboard tokens.
type Claims struct {
	UserID  int64 `json:"userId"`
	IsAdmin bool  `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// It holds no state beyond the signing secret and is a pure function of
// input + secret + clock.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenService creates a TokenService. The secret must be non-empty;
// configuration validation enforces this before the process starts, and
// the constructor double-checks so a misuse fails loudly.
func NewTokenService(secret string, lifetime time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token service: signing secret must not be empty")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token service: lifetime must be positive")
	}
	return &TokenService{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// WithClock overrides the clock. Intended for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue produces a signed token encoding the user identity plus
// issued-at and expiry claims.
func (s *TokenService) Issue(userID int64, isAdmin bool) (string, error) {
	issuedAt := s.now().UTC()
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify cryptographically validates a token's signature and expiry and
// returns the identity it carries. Failures map to ErrTokenMalformed,
// ErrTokenExpired or ErrTokenInvalidSignature.
func (s *TokenService) Verify(tokenStr string) (Identity, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrTokenInvalidSignature
		default:
			return Identity{}, ErrTokenMalformed
		}
	}

	if claims.UserID <= 0 {
		return Identity{}, ErrTokenMalformed
	}

	return Identity{UserID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}
