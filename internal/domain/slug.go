package domain

import (
	"strconv"
	"strings"
	"time"
)

// slug generation constants.
const (
	// slugBaseMaxLen caps the title-derived portion of a slug.
	slugBaseMaxLen = 50

	// slugSuffixLen is the length of the base-36 timestamp suffix.
	slugSuffixLen = 6
)

// Slugify derives a URL-safe slug from a post title: the title is
// lowercased, every run of non-alphanumeric characters collapses to a
// single hyphen, leading/trailing hyphens are trimmed and the result is
// truncated to 50 characters. A hyphen plus the last 6 base-36 digits of
// the millisecond timestamp is appended, making collisions practically
// impossible without a uniqueness-retry loop.
//
// The result is at most 57 characters, contains only lowercase
// alphanumerics and hyphens, and never starts or ends with a hyphen.
func Slugify(title string, now time.Time) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}

	base := b.String()
	if len(base) > slugBaseMaxLen {
		base = base[:slugBaseMaxLen]
		base = strings.TrimRight(base, "-")
	}

	suffix := strconv.FormatInt(now.UnixMilli(), 36)
	if len(suffix) > slugSuffixLen {
		suffix = suffix[len(suffix)-slugSuffixLen:]
	}

	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
