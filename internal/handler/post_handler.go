package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/trelvik/eventboard/internal/auth"
	"github.com/trelvik/eventboard/internal/domain"
	"github.com/trelvik/eventboard/internal/service"
	"github.com/trelvik/eventboard/internal/storage"
)

// multipartSlack leaves room for the text fields beside the file so
// that the byte limit on the whole body does not reject an upload
// that is itself within the file size limit.
const multipartSlack = 1 << 20

// PostHandler serves the post CRUD surface, including image uploads.
type PostHandler struct {
	posts     *service.PostService
	files     storage.Store
	maxUpload int64
	logger    zerolog.Logger
}

func NewPostHandler(posts *service.PostService, files storage.Store, maxUpload int64, logger zerolog.Logger) *PostHandler {
	return &PostHandler{
		posts:     posts,
		files:     files,
		maxUpload: maxUpload,
		logger:    logger.With().Str("handler", "posts").Logger(),
	}
}

// List handles GET /api/posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostListResponse(posts))
}

// ListMine handles GET /api/posts/my-posts.
func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	posts, err := h.posts.ListByOwner(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostListResponse(posts))
}

// GetBySlug handles GET /api/posts/{slug}.
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.posts.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostResponse(post))
}

// GetByID handles GET /api/posts/id/{id}. A non-numeric id responds
// not-found, same as an absent one.
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		writeServiceError(w, h.logger, domain.ErrPostNotFound)
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPostResponse(post))
}

// Create handles POST /api/posts. The body is multipart form data
// with an optional single file under the "image" field.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartSlack)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		if isBodyTooLarge(err) {
			writeServiceError(w, h.logger, domain.ErrFileTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	imagePath, err := h.saveUpload(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	input := service.CreatePostInput{
		Title:          r.FormValue("title"),
		Content:        r.FormValue("content"),
		TechnicalSpecs: optionalFormValue(r, "technical_specs"),
		QuickInfo:      optionalFormValue(r, "quick_info"),
		EventProgram:   optionalFormValue(r, "event_program"),
		ImagePath:      imagePath,
	}

	post, err := h.posts.Create(r.Context(), identity, input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPostResponse(post))
}

type updatePostRequest struct {
	Title          *string `json:"title"`
	Content        *string `json:"content"`
	TechnicalSpecs *string `json:"technical_specs"`
	QuickInfo      *string `json:"quick_info"`
	EventProgram   *string `json:"event_program"`
}

// Update handles PUT /api/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeServiceError(w, h.logger, domain.ErrPostNotFound)
		return
	}

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err = h.posts.Update(r.Context(), identity, id, service.UpdatePostInput{
		Title:          req.Title,
		Content:        req.Content,
		TechnicalSpecs: req.TechnicalSpecs,
		QuickInfo:      req.QuickInfo,
		EventProgram:   req.EventProgram,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Post updated successfully"})
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeServiceError(w, h.logger, domain.ErrPostNotFound)
		return
	}

	if err := h.posts.Delete(r.Context(), identity, id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}

// saveUpload validates and stores the "image" part of an already
// parsed multipart form. It returns nil when no file was sent. The
// MIME and size checks run before any byte reaches disk.
func (h *PostHandler) saveUpload(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, domain.ErrInvalidFileType
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return nil, domain.ErrInvalidFileType
	}
	if header.Size > h.maxUpload {
		return nil, domain.ErrFileTooLarge
	}

	filename := storage.GenerateFilename(header.Filename, time.Now())
	relPath, err := h.files.Save(r.Context(), filename, file)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", filename).Msg("failed to store upload")
		return nil, err
	}
	return &relPath, nil
}

func parsePostID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func optionalFormValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func isBodyTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes) || errors.Is(err, multipart.ErrMessageTooLarge)
}
