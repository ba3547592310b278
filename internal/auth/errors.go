package auth

import "errors"

// Token verification errors. The HTTP layer deliberately collapses all
// of them into a single 403 outcome; the distinction exists for logging
// and for callers that need it.
var (
	// ErrTokenMalformed indicates the token could not be parsed.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalidSignature indicates the signature does not match
	// the configured secret.
	ErrTokenInvalidSignature = errors.New("token signature is invalid")

	// ErrMissingAuthHeader indicates no Authorization header was sent.
	ErrMissingAuthHeader = errors.New("missing Authorization header")
)
