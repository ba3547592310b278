package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FilesystemStore stores uploads in a flat local directory.
type FilesystemStore struct {
	dir       string
	urlPrefix string
	logger    zerolog.Logger
}

// NewFilesystemStore creates a FilesystemStore rooted at dir, creating
// the directory if needed. urlPrefix is the public prefix files are
// served under (e.g. "/uploads").
func NewFilesystemStore(dir, urlPrefix string, logger zerolog.Logger) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &FilesystemStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger.With().Str("component", "upload_store").Logger(),
	}, nil
}

// Dir returns the root directory of the store.
func (s *FilesystemStore) Dir() string {
	return s.dir
}

// Save writes the content of r under the given filename.
func (s *FilesystemStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := validateName(filename); err != nil {
		return "", err
	}

	dst := filepath.Join(s.dir, filename)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Never leave a truncated file behind.
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	s.logger.Debug().
		Str("file", filename).
		Int64("bytes", written).
		Msg("upload stored")

	return s.urlPrefix + "/" + filename, nil
}

// Remove deletes a stored file by its relative URL. A missing file is
// treated as already removed.
func (s *FilesystemStore) Remove(ctx context.Context, relPath string) error {
	name := path.Base(relPath)
	if err := validateName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}

// validateName rejects anything that could escape the flat uploads
// directory. Generated filenames always pass; client-derived input must
// never reach here unsanitized.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid upload filename %q", name)
	}
	return nil
}

// Ensure FilesystemStore implements Store.
var _ Store = (*FilesystemStore)(nil)
