package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/trelvik/eventboard/internal/auth"
	"github.com/trelvik/eventboard/internal/domain"
	"github.com/trelvik/eventboard/internal/repository"
	"github.com/trelvik/eventboard/internal/storage"
)

// PostServiceConfig contains configuration for the PostService.
type PostServiceConfig struct {
	// DeleteFilesOnPostDelete removes a post's image file when the post
	// is deleted.
	DeleteFilesOnPostDelete bool
}

// PostService handles post CRUD use cases: ownership checks, slug
// generation, flexible-field normalization and image-file association.
type PostService struct {
	posts  repository.PostRepository
	files  storage.Store
	cfg    PostServiceConfig
	logger zerolog.Logger
	now    func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(posts repository.PostRepository, files storage.Store, cfg PostServiceConfig, logger zerolog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		files:  files,
		cfg:    cfg,
		logger: logger.With().Str("service", "post").Logger(),
		now:    time.Now,
	}
}

// WithClock overrides the clock. Intended for tests.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// List returns all posts, newest-created-first, with author usernames.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list posts")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return posts, nil
}

// GetBySlug returns the post with the given slug.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("slug", slug).Msg("failed to get post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return post, nil
}

// GetByID returns the post with the given ID.
func (s *PostService) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("post_id", id).Msg("failed to get post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return post, nil
}

// ListByOwner returns the caller's posts, newest-created-first.
func (s *PostService) ListByOwner(ctx context.Context, userID int64) ([]*domain.Post, error) {
	posts, err := s.posts.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to list user posts")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return posts, nil
}

// CreatePostInput contains the data needed to create a post.
// The image, if any, has already been stored; ImagePath carries its
// relative URL.
type CreatePostInput struct {
	Title          string
	Content        string
	TechnicalSpecs *string
	QuickInfo      *string
	EventProgram   *string
	ImagePath      *string
}

// Create persists a new post owned by the caller and returns the full
// post-with-username projection.
//
// If a file was already saved for this request and anything afterwards
// fails, the file is removed before the error returns: a failed create
// must never leave an orphaned upload behind.
func (s *PostService) Create(ctx context.Context, caller auth.Identity, input CreatePostInput) (*domain.Post, error) {
	post, err := s.create(ctx, caller, input)
	if err != nil && input.ImagePath != nil {
		s.discardUpload(ctx, *input.ImagePath)
	}
	return post, err
}

func (s *PostService) create(ctx context.Context, caller auth.Identity, input CreatePostInput) (*domain.Post, error) {
	if err := validatePostContent(input.Title, input.Content); err != nil {
		return nil, err
	}

	slug := domain.Slugify(input.Title, s.now())

	post := domain.NewPost(input.Title, input.Content, slug, caller.UserID)
	post.ImagePath = input.ImagePath
	post.TechnicalSpecs = normalizeOptional(input.TechnicalSpecs)
	post.QuickInfo = normalizeOptional(input.QuickInfo)
	post.EventProgram = normalizeOptional(input.EventProgram)

	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			// The base-36 millisecond suffix makes this practically
			// unreachable; surface it rather than looping on retries.
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		s.logger.Error().Err(err).Int64("user_id", caller.UserID).Msg("failed to create post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	// Re-fetch so the response carries the joined author username.
	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("post_id", post.ID).Msg("failed to fetch created post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("post_id", created.ID).
		Int64("user_id", caller.UserID).
		Str("slug", created.Slug).
		Msg("post created")

	return created, nil
}

// UpdatePostInput contains the fields of a merge-update. A nil pointer
// means "keep the previous value"; for the flexible fields a present
// but whitespace-only value clears the field.
type UpdatePostInput struct {
	Title          *string
	Content        *string
	TechnicalSpecs *string
	QuickInfo      *string
	EventProgram   *string
}

// Update applies a merge-update to a post. Only the owner (or an admin)
// may update; the final write is conditional on the fetched owner, so a
// concurrent delete loses cleanly as not-found.
func (s *PostService) Update(ctx context.Context, caller auth.Identity, id int64, input UpdatePostInput) (*domain.Post, error) {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.CanBeModifiedBy(caller.UserID, caller.IsAdmin) {
		return nil, domain.ErrNotPostOwner
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		post.Title = *input.Title
	}
	if input.Content != nil && strings.TrimSpace(*input.Content) != "" {
		post.Content = *input.Content
	}
	if err := validatePostContent(post.Title, post.Content); err != nil {
		return nil, err
	}

	if input.TechnicalSpecs != nil {
		post.TechnicalSpecs = domain.NormalizeFlexField(*input.TechnicalSpecs)
	}
	if input.QuickInfo != nil {
		post.QuickInfo = domain.NormalizeFlexField(*input.QuickInfo)
	}
	if input.EventProgram != nil {
		post.EventProgram = domain.NormalizeFlexField(*input.EventProgram)
	}

	if err := s.posts.UpdateOwned(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrPostNotFound
		}
		s.logger.Error().Err(err).Int64("post_id", id).Msg("failed to update post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("post_id", id).
		Int64("user_id", caller.UserID).
		Msg("post updated")

	return post, nil
}

// Delete removes a post. Only the owner (or an admin) may delete.
// Whether the associated image file is removed as well is an operator
// policy choice (DeleteFilesOnPostDelete).
func (s *PostService) Delete(ctx context.Context, caller auth.Identity, id int64) error {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !post.CanBeModifiedBy(caller.UserID, caller.IsAdmin) {
		return domain.ErrNotPostOwner
	}

	if err := s.posts.DeleteOwned(ctx, id, post.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrPostNotFound
		}
		s.logger.Error().Err(err).Int64("post_id", id).Msg("failed to delete post")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if s.cfg.DeleteFilesOnPostDelete && post.ImagePath != nil {
		if err := s.files.Remove(ctx, *post.ImagePath); err != nil {
			// The post is gone; a leftover file is only worth a log line.
			s.logger.Warn().Err(err).Str("image", *post.ImagePath).Msg("failed to remove post image")
		}
	}

	s.logger.Info().
		Int64("post_id", id).
		Int64("user_id", caller.UserID).
		Msg("post deleted")

	return nil
}

// discardUpload removes a stored upload after a failed create.
func (s *PostService) discardUpload(ctx context.Context, relPath string) {
	if err := s.files.Remove(ctx, relPath); err != nil {
		s.logger.Error().Err(err).Str("image", relPath).Msg("failed to clean up upload after create failure")
	}
}

// normalizeOptional applies flex-field normalization to an optional
// input; an omitted field stays absent.
func normalizeOptional(raw *string) *domain.FlexField {
	if raw == nil {
		return nil
	}
	return domain.NormalizeFlexField(*raw)
}

// validatePostContent enforces title/content presence and title length.
func validatePostContent(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(content) == "" {
		return ErrMissingContent
	}
	if len(title) > 255 {
		return ErrTitleTooLong
	}
	return nil
}
