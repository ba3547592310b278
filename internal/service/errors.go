// Package service provides business logic services for Eventboard.
package service

import "errors"

// Common service errors.
var (
	// Validation errors
	ErrInvalidUsername = errors.New("invalid username: must be 3-255 characters")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidPassword = errors.New("invalid password: must be at least 8 characters")
	ErrMissingTitle    = errors.New("title and content are required")
	ErrMissingContent  = errors.New("title and content are required")
	ErrTitleTooLong    = errors.New("title is too long (max 255 characters)")

	// General errors
	ErrInternalError = errors.New("internal server error")
)
