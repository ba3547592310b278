package domain

import (
	"errors"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail indicates a user with the same email exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateUsername indicates a user with the same username exists.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials indicates authentication failed.
	// Unknown email and wrong password both map here so that login
	// responses carry no user-enumeration signal.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ===========================================
	// Post Errors
	// ===========================================

	// ErrPostNotFound indicates the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrNotPostOwner indicates the caller does not own the post.
	ErrNotPostOwner = errors.New("not the post owner")

	// ErrDuplicateSlug indicates a post with the same slug exists.
	ErrDuplicateSlug = errors.New("slug already exists")

	// ===========================================
	// Upload Errors
	// ===========================================

	// ErrInvalidFileType indicates the uploaded file is not an image.
	ErrInvalidFileType = errors.New("only image files are allowed")

	// ErrFileTooLarge indicates the uploaded file exceeds the size ceiling.
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
)
