package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// contextKey is a private type for context values set by this package.
type contextKey struct{}

var identityKey = contextKey{}

// IdentityFromContext returns the caller identity attached by the
// middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// ContextWithIdentity attaches an identity to a context. Exported for
// handler tests that bypass the middleware.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// RequireAuth returns a middleware that gates protected routes behind a
// valid bearer token. A missing header rejects with 401; any token
// verification failure rejects with 403. Expired and otherwise-invalid
// tokens are deliberately not distinguished at the HTTP level.
// On success the resolved identity is attached to the request context.
func RequireAuth(tokens *TokenService, logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("component", "auth_middleware").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				log.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				writeAuthError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			identity, err := tokens.Verify(tokenStr)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("token verification failed")
				writeAuthError(w, http.StatusForbidden, "Invalid token")
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of an
// "Authorization: Bearer <token>" header.
func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthHeader
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrMissingAuthHeader
	}
	return parts[1], nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
