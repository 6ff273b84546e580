package blog

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteInsertAndFind(t *testing.T) {
	store := newTestSQLiteStore(t)

	post, err := store.Insert(PostData{Title: "Hello", Slug: "hello", Content: "World"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if post.ID == "" || post.CreatedAt.IsZero() {
		t.Fatalf("id/timestamps not assigned: %#v", post)
	}

	bySlug, err := store.FindBySlug("hello")
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if bySlug == nil || bySlug.ID != post.ID {
		t.Fatalf("unexpected result %#v", bySlug)
	}

	byID, err := store.FindByID(post.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID == nil || byID.Slug != "hello" {
		t.Fatalf("unexpected result %#v", byID)
	}

	missing, err := store.FindBySlug("missing")
	if err != nil || missing != nil {
		t.Fatalf("absent slug must be (nil, nil), got %#v, %v", missing, err)
	}
}

func TestSQLiteUniqueSlugMapsToConflict(t *testing.T) {
	store := newTestSQLiteStore(t)

	if _, err := store.Insert(PostData{Title: "A", Slug: "dup", Content: "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := store.Insert(PostData{Title: "B", Slug: "dup", Content: "y"})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("UNIQUE violation must map to ErrDuplicateSlug, got %v", err)
	}
}

func TestSQLiteUpdatePreservesIdentity(t *testing.T) {
	store := newTestSQLiteStore(t)

	created, err := store.Insert(PostData{Title: "A", Slug: "a", Content: "x", ImageURL: "https://example.com/a.jpg"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	updated, err := store.Update("a", PostData{Title: "A2", Slug: "a-2", Content: "x2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatal("id changed on update")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatal("updatedAt did not advance")
	}
	if updated.ImageURL != "" {
		t.Fatalf("imageUrl must be overwritten, got %q", updated.ImageURL)
	}

	got, err := store.FindBySlug("a-2")
	if err != nil || got == nil {
		t.Fatalf("renamed post must resolve: %#v, %v", got, err)
	}
}

func TestSQLiteUpdateMissing(t *testing.T) {
	store := newTestSQLiteStore(t)
	_, err := store.Update("missing", PostData{Title: "T", Slug: "t", Content: "c"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDelete(t *testing.T) {
	store := newTestSQLiteStore(t)

	post, err := store.Insert(PostData{Title: "A", Slug: "a", Content: "x"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := store.DeleteByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteByID(post.ID); err != nil {
		t.Fatalf("delete by id: %v", err)
	}
	if err := store.DeleteBySlug("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete must not find the row, got %v", err)
	}
}

func TestSQLiteListOrder(t *testing.T) {
	store := newTestSQLiteStore(t)

	if _, err := store.Insert(PostData{Title: "First", Slug: "first", Content: "a"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Insert(PostData{Title: "Second", Slug: "second", Content: "b"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	posts, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 2 || posts[0].Slug != "second" {
		t.Fatalf("expected newest first, got %#v", posts)
	}
}

func TestSQLiteSubscribers(t *testing.T) {
	store := newTestSQLiteStore(t)

	if err := store.AddSubscriber("a@example.com"); err != nil {
		t.Fatalf("add: %v", err)
	}
	// re-subscribing is an upsert, not an error
	if err := store.AddSubscriber("a@example.com"); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	subs, err := store.ListSubscribers()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 || subs[0].Email != "a@example.com" {
		t.Fatalf("unexpected subscribers %#v", subs)
	}

	if err := store.RemoveSubscriber("a@example.com"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	subs, err = store.ListSubscribers()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected no active subscribers, got %#v", subs)
	}
}
