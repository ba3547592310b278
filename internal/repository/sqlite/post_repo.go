package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/trelvik/eventboard/internal/domain"
	"github.com/trelvik/eventboard/internal/repository"
)

// postRepository implements repository.PostRepository for SQLite.
type postRepository struct {
	db *DB
}

// NewPostRepository creates a new SQLite post repository.
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	specsVal, specsFmt := flexToColumns(post.TechnicalSpecs)
	infoVal, infoFmt := flexToColumns(post.QuickInfo)
	progVal, progFmt := flexToColumns(post.EventProgram)

	result, err := r.db.ExecContext(ctx, query,
		post.Title,
		post.Content,
		specsVal, specsFmt,
		infoVal, infoFmt,
		progVal, progFmt,
		nullString(post.ImagePath),
		post.Slug,
		post.UserID,
		post.CreatedAt.Format(time.RFC3339),
		post.UpdatedAt.Format(time.RFC3339),
	)

	if err != nil {
		if uniqueViolationColumn(err, "posts.slug") {
			return domain.ErrDuplicateSlug
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	post.ID = id

	return nil
}

// GetByID retrieves a post by ID, joined with the owner's username.
func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by ID: %w", err)
	}
	return post, nil
}

// GetBySlug retrieves a post by slug, joined with the owner's username.
func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.slug = ?`, slug))
	if err != nil {
		if isNoRows(err) {
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
	return r.list(ctx, postSelect+` WHERE p.user_id = ? ORDER BY p.created_at DESC, p.id DESC`, userID)
}

func (r *postRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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
// statement scoped to (id, user_id). A concurrent delete makes the
// WHERE clause match nothing, which surfaces as ErrNotFound.
func (r *postRepository) UpdateOwned(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE posts
		SET title = ?, content = ?,
			technical_specs = ?, technical_specs_format = ?,
			quick_info = ?, quick_info_format = ?,
			event_program = ?, event_program_format = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	specsVal, specsFmt := flexToColumns(post.TechnicalSpecs)
	infoVal, infoFmt := flexToColumns(post.QuickInfo)
	progVal, progFmt := flexToColumns(post.EventProgram)

	result, err := r.db.ExecContext(ctx, query,
		post.Title,
		post.Content,
		specsVal, specsFmt,
		infoVal, infoFmt,
		progVal, progFmt,
		post.UpdatedAt.Format(time.RFC3339),
		post.ID,
		post.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteOwned removes a post in one conditional statement scoped to
// (id, user_id).
func (r *postRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// scanPost scans a post row in postSelect column order.
func scanPost(row rowScanner) (*domain.Post, error) {
	post := &domain.Post{}
	var specsVal, specsFmt, infoVal, infoFmt, progVal, progFmt sql.NullString
	var imagePath sql.NullString
	var createdAt, updatedAt string

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
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.TechnicalSpecs = columnsToFlex(specsVal, specsFmt)
	post.QuickInfo = columnsToFlex(infoVal, infoFmt)
	post.EventProgram = columnsToFlex(progVal, progFmt)
	if imagePath.Valid {
		post.ImagePath = &imagePath.String
	}
	post.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	post.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return post, nil
}

// flexToColumns maps a FlexField to its (value, format) column pair.
// An absent field persists as NULL in both columns, never as "".
func flexToColumns(f *domain.FlexField) (sql.NullString, sql.NullString) {
	if f == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: f.Value, Valid: true},
		sql.NullString{String: string(f.Format), Valid: true}
}

// columnsToFlex rebuilds a FlexField from its column pair. Rows written
// before the format column existed default to markup.
func columnsToFlex(value, format sql.NullString) *domain.FlexField {
	if !value.Valid {
		return nil
	}
	f := &domain.FlexField{Format: domain.FieldFormatMarkup, Value: value.String}
	if format.Valid && format.String == string(domain.FieldFormatJSON) {
		f.Format = domain.FieldFormatJSON
	}
	return f
}

// nullString converts *string to sql.NullString.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Ensure postRepository implements repository.PostRepository.
var _ repository.PostRepository = (*postRepository)(nil)
