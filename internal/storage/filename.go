package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// filenamePrefix is the fixed prefix for uploaded post images.
const filenamePrefix = "post-image"

// maxExtLen caps the preserved client extension, including the dot.
const maxExtLen = 8

// GenerateFilename builds a collision-resistant filename for an upload:
// a fixed prefix, the millisecond timestamp, a random suffix and the
// client file's extension. The client's filename is used only as an
// extension hint; everything else about it is discarded, so it can
// never influence path construction.
func GenerateFilename(originalName string, now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%d-%s%s", filenamePrefix, now.UnixMilli(), suffix, safeExt(originalName))
}

// safeExt extracts a sanitized lowercase extension from a client
// filename. Anything that isn't a short alphanumeric extension is
// dropped entirely.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if ext == "" || ext == "." || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
