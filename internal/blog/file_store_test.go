package blog

import (
	"path/filepath"
	"testing"
)

func TestFileStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	created, err := store.Insert(PostData{Title: "Hello", Slug: "hello", Content: "World"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// a fresh store must see what the first one wrote
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.FindBySlug("hello")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("post not persisted: %#v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt not preserved across reload")
	}
}

func TestFileStoreInsertRejectsDuplicate(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "posts.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Insert(PostData{Title: "A", Slug: "a", Content: "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := store.Insert(PostData{Title: "B", Slug: "a", Content: "y"}); err != ErrDuplicateSlug {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}
