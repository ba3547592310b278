package domain

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		name    string
		title   string
		pattern string
	}{
		{
			name:    "simple title",
			title:   "My Event",
			pattern: `^my-event-[0-9a-z]{6}$`,
		},
		{
			name:    "punctuation collapses to single hyphen",
			title:   "My Event!!",
			pattern: `^my-event-[0-9a-z]{6}$`,
		},
		{
			name:    "mixed separators",
			title:   "Rock & Roll  --  Night",
			pattern: `^rock-roll-night-[0-9a-z]{6}$`,
		},
		{
			name:    "leading and trailing junk",
			title:   "  ...Big Show...  ",
			pattern: `^big-show-[0-9a-z]{6}$`,
		},
		{
			name:    "digits kept",
			title:   "Summer Fest 2026",
			pattern: `^summer-fest-2026-[0-9a-z]{6}$`,
		},
		{
			name:    "no alphanumerics at all",
			title:   "!!! ???",
			pattern: `^[0-9a-z]{6}$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug := Slugify(tt.title, now)
			if !regexp.MustCompile(tt.pattern).MatchString(slug) {
				t.Errorf("Slugify(%q) = %q, want match %q", tt.title, slug, tt.pattern)
			}
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	a := Slugify("Same Title", now)
	b := Slugify("Same Title", now)
	if a != b {
		t.Errorf("same title and time produced %q and %q", a, b)
	}
}

func TestSlugify_DifferentTimesDiffer(t *testing.T) {
	a := Slugify("Same Title", time.UnixMilli(1700000000000))
	b := Slugify("Same Title", time.UnixMilli(1700000000001))
	if a == b {
		t.Errorf("different timestamps produced identical slug %q", a)
	}
}

func TestSlugify_LongTitle(t *testing.T) {
	title := strings.Repeat("word ", 30)
	slug := Slugify(title, time.UnixMilli(1700000000000))

	if len(slug) > 57 {
		t.Errorf("slug length %d exceeds 57: %q", len(slug), slug)
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		t.Errorf("slug has edge hyphen: %q", slug)
	}
	if strings.Contains(slug, "--") {
		t.Errorf("slug contains consecutive hyphens: %q", slug)
	}
}

func TestSlugify_TruncationNeverLeavesTrailingHyphen(t *testing.T) {
	// 49 chars of base then a separator right at the truncation point.
	title := strings.Repeat("a", 49) + " bbbb"
	slug := Slugify(title, time.UnixMilli(1700000000000))

	base := slug[:strings.LastIndex(slug, "-")]
	if strings.HasSuffix(base, "-") {
		t.Errorf("truncated base ends with hyphen: %q", slug)
	}
}

func TestSlugify_Charset(t *testing.T) {
	slug := Slugify("Ünïcödé Tîtle — with dashes", time.UnixMilli(1700000000000))
	if !regexp.MustCompile(`^[0-9a-z]+(-[0-9a-z]+)*$`).MatchString(slug) {
		t.Errorf("slug contains invalid characters: %q", slug)
	}
}
