// Package domain contains the core business entities for Eventboard.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the events-community application.
package domain

import (
	"time"
)

// User represents a registered user in the system.
// Users own posts and authenticate with email + password.
type User struct {
	// ID is the unique identifier for the user (auto-generated).
	ID int64 `json:"id"`

	// Username is the unique username for display.
	// Constraints: 3-255 characters.
	Username string `json:"username"`

	// Email is the unique email address, used as the login key.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This should never be exposed in API responses.
	PasswordHash string `json:"-"`

	// IsAdmin indicates whether the user has administrative privileges.
	// Admins may modify or delete posts they do not own.
	IsAdmin bool `json:"is_admin"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with default values.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
