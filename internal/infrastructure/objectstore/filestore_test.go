package objectstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chirp/social-api/internal/core/domain"
)

func TestFileStore_PutDelete(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewFileStore(root, "/uploads/")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	url, err := store.Put(ctx, "posts/2024/03/a.png", []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "/uploads/posts/2024/03/a.png" {
		t.Fatalf("unexpected url %q", url)
	}
	got, err := os.ReadFile(filepath.Join(root, "posts", "2024", "03", "a.png"))
	if err != nil || string(got) != "img" {
		t.Fatalf("object not written: %q %v", got, err)
	}

	if err := store.Delete(ctx, url); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, url); !errors.Is(err, domain.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestFileStore_RejectsForeignAndEscapingRefs(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	for _, url := range []string{"https://elsewhere.test/a.png", "/uploads/../secret", "/uploads/"} {
		if err := store.Delete(ctx, url); !errors.Is(err, domain.ErrObjectNotFound) {
			t.Fatalf("%s: expected ErrObjectNotFound, got %v", url, err)
		}
	}
	if _, err := store.Put(ctx, "../escape.png", []byte("x"), "image/png"); err == nil {
		t.Fatalf("expected escaping key to be rejected")
	}
}

func TestNewFileStore_NotDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileStore(file, "/uploads"); !errors.Is(err, ErrNotDir) {
		t.Fatalf("expected ErrNotDir, got %v", err)
	}
}
