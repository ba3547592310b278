package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *FilesystemStore {
	t.Helper()
	store, err := NewFilesystemStore(t.TempDir(), "/uploads", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}
	return store
}

func TestFilesystemStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	if _, err := NewFilesystemStore(dir, "/uploads", zerolog.Nop()); err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", dir)
	}
}

func TestFilesystemStore_SaveAndRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	relPath, err := store.Save(ctx, "post-image-1-abc.jpg", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if relPath != "/uploads/post-image-1-abc.jpg" {
		t.Errorf("relPath = %q, want /uploads/post-image-1-abc.jpg", relPath)
	}

	content, err := os.ReadFile(filepath.Join(store.Dir(), "post-image-1-abc.jpg"))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(content) != "fake image bytes" {
		t.Errorf("content = %q, want original bytes", content)
	}

	if err := store.Remove(ctx, relPath); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "post-image-1-abc.jpg")); !os.IsNotExist(err) {
		t.Errorf("file still present after Remove (err = %v)", err)
	}
}

func TestFilesystemStore_SaveRejectsDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "dup.jpg", strings.NewReader("first")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, "dup.jpg", strings.NewReader("second")); err == nil {
		t.Error("expected error overwriting an existing file")
	}
}

func TestFilesystemStore_SaveRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../escape.jpg", "a/b.jpg", `a\b.jpg`} {
		if _, err := store.Save(ctx, name, strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) succeeded, want rejection", name)
		}
	}
}

func TestFilesystemStore_RemoveMissingFileIsNoop(t *testing.T) {
	store := newTestStore(t)

	if err := store.Remove(context.Background(), "/uploads/never-existed.jpg"); err != nil {
		t.Errorf("Remove of missing file: %v", err)
	}
}
