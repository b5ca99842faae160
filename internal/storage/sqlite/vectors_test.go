// ABOUTME: Tests for the SQLite vector store
// ABOUTME: Verifies collection lifecycle, upsert semantics, ranking, and persistence
package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/harper/docqa/internal/storage"
)

func newTestStore(t *testing.T) *VectorStore {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	store := NewVectorStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(id, source string, vec ...float32) storage.Record {
	return storage.Record{
		ID:       id,
		Text:     "text of " + id,
		Metadata: map[string]any{"source": source, "chunk_id": 0},
		Vector:   vec,
	}
}

func TestVectorStore_CollectionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.CollectionModel(ctx, "docs"); !errors.Is(err, storage.ErrCollectionNotFound) {
		t.Fatalf("CollectionModel() error = %v, want ErrCollectionNotFound", err)
	}

	if err := store.CreateCollection(ctx, "docs", "hash-512"); err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}
	// second create keeps the original tag
	if err := store.CreateCollection(ctx, "docs", "other"); err != nil {
		t.Fatalf("CreateCollection() again error = %v", err)
	}
	model, err := store.CollectionModel(ctx, "docs")
	if err != nil {
		t.Fatalf("CollectionModel() error = %v", err)
	}
	if model != "hash-512" {
		t.Errorf("CollectionModel() = %q, want hash-512", model)
	}

	if err := store.DeleteCollection(ctx, "docs"); err != nil {
		t.Fatalf("DeleteCollection() error = %v", err)
	}
	if err := store.DeleteCollection(ctx, "docs"); err != nil {
		t.Errorf("DeleteCollection() on absent collection error = %v, want nil", err)
	}
	if _, err := store.CollectionModel(ctx, "docs"); !errors.Is(err, storage.ErrCollectionNotFound) {
		t.Errorf("collection still present after delete: %v", err)
	}
}

func TestVectorStore_UntaggedCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.CreateCollection(ctx, "legacy", ""); err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}
	model, err := store.CollectionModel(ctx, "legacy")
	if err != nil || model != "" {
		t.Errorf("CollectionModel() = %q, %v; want empty, nil", model, err)
	}
}

func TestVectorStore_UpsertAndNearest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.CreateCollection(ctx, "docs", "m"); err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}

	err := store.Upsert(ctx, "docs", []storage.Record{
		record("a.txt_0", "a.txt", 1, 0, 0),
		record("a.txt_1", "a.txt", 0, 1, 0),
		record("b.md_0", "b.md", 0.9, 0.1, 0),
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	matches, err := store.Nearest(ctx, "docs", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Nearest() returned %d matches, want 2", len(matches))
	}
	if matches[0].ID != "a.txt_0" || matches[1].ID != "b.md_0" {
		t.Errorf("Nearest() order = %s, %s", matches[0].ID, matches[1].ID)
	}
	if matches[0].Distance > 1e-6 {
		t.Errorf("exact match distance = %v, want 0", matches[0].Distance)
	}
	if matches[0].Text != "text of a.txt_0" {
		t.Errorf("Text = %q", matches[0].Text)
	}
	if matches[0].Metadata["source"] != "a.txt" {
		t.Errorf("Metadata = %v", matches[0].Metadata)
	}
}

func TestVectorStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_ = store.CreateCollection(ctx, "docs", "m")

	_ = store.Upsert(ctx, "docs", []storage.Record{record("a.txt_0", "a.txt", 1, 0)})
	replaced := record("a.txt_0", "a.txt", 0, 1)
	replaced.Text = "new text"
	if err := store.Upsert(ctx, "docs", []storage.Record{replaced}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	matches, err := store.Nearest(ctx, "docs", []float32{0, 1}, 10)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Nearest() returned %d matches, want 1 after overwrite", len(matches))
	}
	if matches[0].Text != "new text" || matches[0].Distance > 1e-6 {
		t.Errorf("overwritten record = %+v", matches[0])
	}
}

func TestVectorStore_MissingCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Upsert(ctx, "nope", []storage.Record{record("x_0", "x", 1)}); !errors.Is(err, storage.ErrCollectionNotFound) {
		t.Errorf("Upsert() error = %v, want ErrCollectionNotFound", err)
	}
	if _, err := store.Nearest(ctx, "nope", []float32{1}, 3); !errors.Is(err, storage.ErrCollectionNotFound) {
		t.Errorf("Nearest() error = %v, want ErrCollectionNotFound", err)
	}
}

func TestVectorStore_CollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_ = store.CreateCollection(ctx, "one", "m")
	_ = store.CreateCollection(ctx, "two", "m")
	_ = store.Upsert(ctx, "one", []storage.Record{record("a_0", "a", 1, 0)})

	matches, err := store.Nearest(ctx, "two", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("collection two sees %d records from collection one", len(matches))
	}

	if err := store.DeleteCollection(ctx, "two"); err != nil {
		t.Fatalf("DeleteCollection() error = %v", err)
	}
	if matches, _ := store.Nearest(ctx, "one", []float32{1, 0}, 5); len(matches) != 1 {
		t.Errorf("deleting two affected one: %d matches", len(matches))
	}
}

func TestVectorStore_Sources(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_ = store.CreateCollection(ctx, "docs", "m")
	_ = store.Upsert(ctx, "docs", []storage.Record{
		record("a.txt_0", "a.txt", 1),
		record("a.txt_1", "a.txt", 1),
		record("b.pdf_0", "b.pdf", 1),
	})

	counts, err := store.Sources(ctx, "docs")
	if err != nil {
		t.Fatalf("Sources() error = %v", err)
	}
	if counts["a.txt"] != 2 || counts["b.pdf"] != 1 || len(counts) != 2 {
		t.Errorf("Sources() = %v", counts)
	}
}

func TestVectorStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	store, err := OpenVectorStore(path)
	if err != nil {
		t.Fatalf("OpenVectorStore() error = %v", err)
	}
	_ = store.CreateCollection(ctx, "docs", "hash-512")
	_ = store.Upsert(ctx, "docs", []storage.Record{record("a.txt_0", "a.txt", 0.5, 0.5)})
	_ = store.Close()

	store, err = OpenVectorStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = store.Close() }()

	matches, err := store.Nearest(ctx, "docs", []float32{0.5, 0.5}, 1)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "a.txt_0" {
		t.Errorf("Nearest() after reopen = %+v", matches)
	}
}
