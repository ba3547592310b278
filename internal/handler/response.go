// Package handler provides HTTP handlers for the Eventboard REST API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/trelvik/eventboard/internal/domain"
	"github.com/trelvik/eventboard/internal/service"
)

// postResponse is the wire shape of a post. The flexible fields keep
// their original raw-text keys for client compatibility; the sibling
// *_format keys expose the write-time format tag.
type postResponse struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	Content              string    `json:"content"`
	TechnicalSpecs       *string   `json:"technical_specs"`
	TechnicalSpecsFormat *string   `json:"technical_specs_format,omitempty"`
	QuickInfo            *string   `json:"quick_info"`
	QuickInfoFormat      *string   `json:"quick_info_format,omitempty"`
	EventProgram         *string   `json:"event_program"`
	EventProgramFormat   *string   `json:"event_program_format,omitempty"`
	ImagePath            *string   `json:"image_path"`
	Slug                 string    `json:"slug"`
	UserID               int64     `json:"user_id"`
	Username             string    `json:"username"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func newPostResponse(p *domain.Post) postResponse {
	resp := postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ImagePath: p.ImagePath,
		Slug:      p.Slug,
		UserID:    p.UserID,
		Username:  p.AuthorName,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	resp.TechnicalSpecs, resp.TechnicalSpecsFormat = flexPair(p.TechnicalSpecs)
	resp.QuickInfo, resp.QuickInfoFormat = flexPair(p.QuickInfo)
	resp.EventProgram, resp.EventProgramFormat = flexPair(p.EventProgram)
	return resp
}

func newPostListResponse(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostResponse(p))
	}
	return out
}

func flexPair(f *domain.FlexField) (*string, *string) {
	if f == nil {
		return nil, nil
	}
	format := string(f.Format)
	return &f.Value, &format
}

type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service/domain errors onto the HTTP error
// taxonomy. Unexpected errors surface as a generic 500 with no internal
// detail; callers are expected to have logged them already.
func writeServiceError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrMissingTitle),
		errors.Is(err, service.ErrMissingContent),
		errors.Is(err, service.ErrTitleTooLong),
		errors.Is(err, domain.ErrInvalidFileType),
		errors.Is(err, domain.ErrFileTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")

	case errors.Is(err, domain.ErrNotPostOwner):
		writeError(w, http.StatusForbidden, "Forbidden: you can only modify your own posts")

	case errors.Is(err, domain.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "Post not found")

	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")

	default:
		logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
