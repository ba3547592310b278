// Package main is the entry point for the Eventboard API server.
// Eventboard is the backend for an events community site: accounts,
// event posts with image uploads, and a public read surface.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/trelvik/eventboard/internal/auth"
	"github.com/trelvik/eventboard/internal/config"
	"github.com/trelvik/eventboard/internal/handler"
	"github.com/trelvik/eventboard/internal/repository"
	"github.com/trelvik/eventboard/internal/repository/postgres"
	"github.com/trelvik/eventboard/internal/repository/sqlite"
	"github.com/trelvik/eventboard/internal/service"
	"github.com/trelvik/eventboard/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting Eventboard server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize token service")
	}

	files, err := storage.NewFilesystemStore(cfg.Uploads.Dir, cfg.Uploads.URLPrefix, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.Uploads.Dir).Msg("failed to initialize uploads storage")
	}

	authService := service.NewAuthService(repos.Users, tokens, logger)
	postService := service.NewPostService(repos.Posts, files, service.PostServiceConfig{
		DeleteFilesOnPostDelete: cfg.Uploads.DeleteOnPostDelete,
	}, logger)

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:    handler.NewAuthHandler(authService, logger),
		PostHandler:    handler.NewPostHandler(postService, files, cfg.Uploads.MaxSize, logger),
		AuthMiddleware: auth.RequireAuth(tokens, logger),
		DB:             db,
		UploadsDir:     files.Dir(),
		UploadsPrefix:  cfg.Uploads.URLPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openDatabase connects to the configured backend, applies pending
// migrations and returns the repository set.
func openDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.Repositories, repository.DatabaseHealth, error) {
	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqlite.ConfigFromDatabase(cfg.Database), logger)
		if err != nil {
			return repository.Repositories{}, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return repository.Repositories{}, nil, err
		}
		return repository.Repositories{
			Users: sqlite.NewUserRepository(db),
			Posts: sqlite.NewPostRepository(db),
		}, db, nil
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return repository.Repositories{}, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return repository.Repositories{}, nil, err
	}
	return repository.Repositories{
		Users: postgres.NewUserRepository(db),
		Posts: postgres.NewPostRepository(db),
	}, db, nil
}

// setupLogger configures zerolog according to the logging settings.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = timeFormat

	var out *os.File
	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}).
			Level(level).
			With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
