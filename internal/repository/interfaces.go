// Package repository provides the data access layer for Eventboard.
// Implementations exist for SQLite (embedded) and PostgreSQL; services
// depend only on the interfaces defined here.
package repository

import (
	"context"

	"github.com/trelvik/eventboard/internal/domain"
)

// UserRepository manages persisted user records.
type UserRepository interface {
	// Create inserts a new user and sets its ID.
	// Returns domain.ErrDuplicateEmail or domain.ErrDuplicateUsername
	// when a uniqueness constraint is violated.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by email (the login key).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ExistsByEmail checks whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername checks whether a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)

	// SetAdmin updates the admin flag of a user.
	// Returns domain.ErrUserNotFound if no such user exists.
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
}

// PostRepository manages persisted post records. All read methods return
// posts joined with the owner's username (Post.AuthorName).
type PostRepository interface {
	// Create inserts a new post and sets its ID.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post by ID.
	GetByID(ctx context.Context, id int64) (*domain.Post, error)

	// GetBySlug retrieves a post by its slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)

	// ListAll returns all posts ordered newest-created-first.
	ListAll(ctx context.Context) ([]*domain.Post, error)

	// ListByOwner returns the posts owned by a user, newest-created-first.
	ListByOwner(ctx context.Context, userID int64) ([]*domain.Post, error)

	// UpdateOwned writes the post's mutable fields in a single
	// conditional statement scoped to (post.ID, post.UserID), so a
	// concurrent delete or ownership change cannot race the write.
	// Returns ErrNotFound if no row matched.
	UpdateOwned(ctx context.Context, post *domain.Post) error

	// DeleteOwned removes a post in a single conditional statement
	// scoped to (id, ownerID). Returns ErrNotFound if no row matched.
	DeleteOwned(ctx context.Context, id, ownerID int64) error
}
