package storage

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGenerateFilename(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		name     string
		original string
		pattern  string
	}{
		{
			name:     "jpeg extension kept",
			original: "holiday photo.JPG",
			pattern:  `^post-image-1700000000000-[0-9a-f]{8}\.jpg$`,
		},
		{
			name:     "png extension kept",
			original: "flyer.png",
			pattern:  `^post-image-1700000000000-[0-9a-f]{8}\.png$`,
		},
		{
			name:     "no extension",
			original: "image",
			pattern:  `^post-image-1700000000000-[0-9a-f]{8}$`,
		},
		{
			name:     "path components discarded",
			original: "../../etc/passwd.png",
			pattern:  `^post-image-1700000000000-[0-9a-f]{8}\.png$`,
		},
		{
			name:     "hostile extension dropped",
			original: "x.p;rm -rf",
			pattern:  `^post-image-1700000000000-[0-9a-f]{8}$`,
		},
		{
			name:     "overlong extension dropped",
			original: "x.averylongextension",
			pattern:  `^post-image-1700000000000-[0-9a-f]{8}$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateFilename(tt.original, now)
			if !regexp.MustCompile(tt.pattern).MatchString(got) {
				t.Errorf("GenerateFilename(%q) = %q, want match %q", tt.original, got, tt.pattern)
			}
			if strings.ContainsAny(got, `/\`) {
				t.Errorf("filename contains path separator: %q", got)
			}
		})
	}
}

func TestGenerateFilename_Unique(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	a := GenerateFilename("a.jpg", now)
	b := GenerateFilename("a.jpg", now)
	if a == b {
		t.Errorf("two generated filenames collided: %q", a)
	}
}
