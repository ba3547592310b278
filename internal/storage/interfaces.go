// Package storage persists uploaded image files on a local directory
// and hands back the relative URLs the API exposes them under.
package storage

import (
	"context"
	"io"
)

// Store is the interface for uploaded-file storage.
// Implementations must never derive on-disk paths from client input.
type Store interface {
	// Save writes the content of r under the given generated filename
	// and returns the relative URL the file is served under
	// (e.g. "/uploads/post-image-123.jpg").
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Remove deletes a previously saved file, addressed by the relative
	// URL returned from Save. Removing a missing file is not an error.
	Remove(ctx context.Context, relPath string) error
}
