package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trelvik/eventboard/internal/domain"
	"github.com/trelvik/eventboard/internal/repository"
)

// postRepository implements repository.PostRepository for PostgreSQL.
type postRepository struct {
	db *DB
}

// NewPostRepository creates a new PostgreSQL post repository.
func NewPostRepository(db *DB) repository.PostRepository {
	return &postRepository{db: db}
}

// postSelect joins posts with the owning user's username.
const postSelect = `
	SELECT p.id, p.title, p.content,
	       p.technical_specs, p.technical_specs_format,
	       p.quick_info, p.quick_info_format,
	       p.event_program, p.event_program_format,
	       p.image_path, p.slug, p.user_id, u.username,
	       p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON p.user_id = u.id
`

// Create inserts a new post.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (title, content,
			technical_specs, technical_specs_format,
			quick_info, quick_info_format,
			event_program, event_program_format,
			image_path, slug, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	specsVal, specsFmt := flexToColumns(post.TechnicalSpecs)
	infoVal, infoFmt := flexToColumns(post.QuickInfo)
	progVal, progFmt := flexToColumns(post.EventProgram)

	err := r.db.Pool.QueryRow(ctx, query,
		post.Title,
		post.Content,
		specsVal, specsFmt,
		infoVal, infoFmt,
		progVal, progFmt,
		post.ImagePath,
		post.Slug,
		post.UserID,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID)

	if err != nil {
		if uniqueViolationConstraint(err, "posts_slug_key") {
			return domain.ErrDuplicateSlug
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID, joined with the owner's username.
func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := scanPost(r.db.Pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by ID: %w", err)
	}
	return post, nil
}

// GetBySlug retrieves a post by slug, joined with the owner's username.
func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := scanPost(r.db.Pool.QueryRow(ctx, postSelect+` WHERE p.slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}
	return post, nil
}

// ListAll returns all posts ordered newest-created-first.
func (r *postRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	return r.list(ctx, postSelect+` ORDER BY p.created_at DESC, p.id DESC`)
}

// ListByOwner returns a user's posts ordered newest-created-first.
func (r *postRepository) ListByOwner(ctx context.Context, userID int64) ([]*domain.Post, error) {
	return r.list(ctx, postSelect+` WHERE p.user_id = $1 ORDER BY p.created_at DESC, p.id DESC`, userID)
}

func (r *postRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Post, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// UpdateOwned writes a post's mutable fields in one conditional
// statement scoped to (id, user_id).
func (r *postRepository) UpdateOwned(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE posts
		SET title = $1, content = $2,
			technical_specs = $3, technical_specs_format = $4,
			quick_info = $5, quick_info_format = $6,
			event_program = $7, event_program_format = $8,
			updated_at = $9
		WHERE id = $10 AND user_id = $11
	`

	specsVal, specsFmt := flexToColumns(post.TechnicalSpecs)
	infoVal, infoFmt := flexToColumns(post.QuickInfo)
	progVal, progFmt := flexToColumns(post.EventProgram)

	result, err := r.db.Pool.Exec(ctx, query,
		post.Title,
		post.Content,
		specsVal, specsFmt,
		infoVal, infoFmt,
		progVal, progFmt,
		post.UpdatedAt,
		post.ID,
		post.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteOwned removes a post in one conditional statement scoped to
// (id, user_id).
func (r *postRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// scanPost scans a post row in postSelect column order.
func scanPost(row pgx.Row) (*domain.Post, error) {
	post := &domain.Post{}
	var specsVal, specsFmt, infoVal, infoFmt, progVal, progFmt *string
	var imagePath *string

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&specsVal, &specsFmt,
		&infoVal, &infoFmt,
		&progVal, &progFmt,
		&imagePath,
		&post.Slug,
		&post.UserID,
		&post.AuthorName,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.TechnicalSpecs = columnsToFlex(specsVal, specsFmt)
	post.QuickInfo = columnsToFlex(infoVal, infoFmt)
	post.EventProgram = columnsToFlex(progVal, progFmt)
	post.ImagePath = imagePath

	return post, nil
}

// flexToColumns maps a FlexField to its (value, format) column pair.
// An absent field persists as NULL in both columns, never as "".
func flexToColumns(f *domain.FlexField) (*string, *string) {
	if f == nil {
		return nil, nil
	}
	format := string(f.Format)
	return &f.Value, &format
}

// columnsToFlex rebuilds a FlexField from its column pair. Rows written
// before the format column existed default to markup.
func columnsToFlex(value, format *string) *domain.FlexField {
	if value == nil {
		return nil
	}
	f := &domain.FlexField{Format: domain.FieldFormatMarkup, Value: *value}
	if format != nil && *format == string(domain.FieldFormatJSON) {
		f.Format = domain.FieldFormatJSON
	}
	return f
}

// Ensure postRepository implements repository.PostRepository.
var _ repository.PostRepository = (*postRepository)(nil)
