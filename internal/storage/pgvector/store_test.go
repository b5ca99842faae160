// ABOUTME: Integration tests for the pgvector store
// ABOUTME: Run only when DOCQA_TEST_DATABASE_URL points at a Postgres with pgvector
package pgvector

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/harper/docqa/internal/storage"
)

func openTestStore(t *testing.T) *VectorStore {
	t.Helper()
	url := os.Getenv("DOCQA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("DOCQA_TEST_DATABASE_URL not set")
	}
	store, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestVectorStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	name := "test_" + uuid.NewString()
	t.Cleanup(func() { _ = store.DeleteCollection(ctx, name) })

	if _, err := store.CollectionModel(ctx, name); !errors.Is(err, storage.ErrCollectionNotFound) {
		t.Fatalf("CollectionModel() error = %v, want ErrCollectionNotFound", err)
	}
	if err := store.CreateCollection(ctx, name, "hash-512"); err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}

	err := store.Upsert(ctx, name, []storage.Record{
		{ID: "a.txt_0", Text: "alpha", Metadata: map[string]any{"source": "a.txt", "chunk_id": 0}, Vector: []float32{1, 0, 0}},
		{ID: "a.txt_1", Text: "beta", Metadata: map[string]any{"source": "a.txt", "chunk_id": 1}, Vector: []float32{0, 1, 0}},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	matches, err := store.Nearest(ctx, name, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "a.txt_0" || matches[0].Distance > 1e-6 {
		t.Errorf("Nearest() = %+v", matches)
	}

	counts, err := store.Sources(ctx, name)
	if err != nil || counts["a.txt"] != 2 {
		t.Errorf("Sources() = %v, %v", counts, err)
	}

	if err := store.DeleteCollection(ctx, name); err != nil {
		t.Fatalf("DeleteCollection() error = %v", err)
	}
	if err := store.DeleteCollection(ctx, name); err != nil {
		t.Errorf("DeleteCollection() on absent collection error = %v", err)
	}
}
