package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/trelvik/eventboard/internal/repository"
)

// Router wires handlers, middleware and static file serving into a
// single http.Handler.
type Router struct {
	authHandler    *AuthHandler
	postHandler    *PostHandler
	authMiddleware func(http.Handler) http.Handler
	db             repository.DatabaseHealth
	uploadsDir     string
	uploadsPrefix  string
	allowedOrigins []string
	logger         zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	AuthHandler    *AuthHandler
	PostHandler    *PostHandler
	AuthMiddleware func(http.Handler) http.Handler
	DB             repository.DatabaseHealth
	UploadsDir     string
	UploadsPrefix  string
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		authHandler:    config.AuthHandler,
		postHandler:    config.PostHandler,
		authMiddleware: config.AuthMiddleware,
		db:             config.DB,
		uploadsDir:     config.UploadsDir,
		uploadsPrefix:  config.UploadsPrefix,
		allowedOrigins: config.AllowedOrigins,
		logger:         config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(rt.logger))
	r.Use(CORS(rt.allowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", rt.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", rt.postHandler.List)
			r.With(rt.authMiddleware).Get("/my-posts", rt.postHandler.ListMine)
			r.Get("/id/{id}", rt.postHandler.GetByID)
			r.Get("/{slug}", rt.postHandler.GetBySlug)

			r.With(rt.authMiddleware).Post("/", rt.postHandler.Create)
			r.With(rt.authMiddleware).Put("/{id}", rt.postHandler.Update)
			r.With(rt.authMiddleware).Delete("/{id}", rt.postHandler.Delete)
		})
	})

	fileServer := http.StripPrefix(rt.uploadsPrefix+"/", http.FileServer(http.Dir(rt.uploadsDir)))
	r.Get(rt.uploadsPrefix+"/*", fileServer.ServeHTTP)

	return r
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// handleHealth reports service and database liveness.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := rt.db.Ping(r.Context()); err != nil {
		rt.logger.Error().Err(err).Msg("health check failed")
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
