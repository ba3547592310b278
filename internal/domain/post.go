package domain

import (
	"time"
)

// Post represents a blog-style post in the events community.
// A post is exclusively owned by one user; only the owner (or an admin)
// may mutate or delete it.
type Post struct {
	// ID is the unique identifier for the post (auto-generated).
	ID int64 `json:"id"`

	// Title is the post headline. Constraints: non-empty, at most 255 characters.
	Title string `json:"title"`

	// Content is the post body. May embed markup; length is unbounded.
	Content string `json:"content"`

	// TechnicalSpecs, QuickInfo and EventProgram are optional
	// semi-structured fields. nil means absent.
	TechnicalSpecs *FlexField `json:"-"`
	QuickInfo      *FlexField `json:"-"`
	EventProgram   *FlexField `json:"-"`

	// ImagePath is the relative URL of the uploaded image, if any
	// (e.g. "/uploads/post-image-123.jpg"). nil means no image.
	ImagePath *string `json:"image_path"`

	// Slug is the URL-safe public identifier, derived from the title.
	Slug string `json:"slug"`

	// UserID references the owning user.
	UserID int64 `json:"user_id"`

	// AuthorName is the owner's username. Populated by read queries
	// that join the users table; empty otherwise.
	AuthorName string `json:"username,omitempty"`

	// CreatedAt is the timestamp when the post was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the post was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPost creates a new Post owned by the given user.
func NewPost(title, content, slug string, userID int64) *Post {
	now := time.Now().UTC()
	return &Post{
		Title:     title,
		Content:   content,
		Slug:      slug,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanBeModifiedBy reports whether the given caller may mutate or delete
// the post. Owners always can; admins are allowed by policy.
func (p *Post) CanBeModifiedBy(userID int64, isAdmin bool) bool {
	return p.UserID == userID || isAdmin
}
