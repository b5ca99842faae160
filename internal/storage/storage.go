// ABOUTME: VectorStore interface implemented by every persistence backend
// ABOUTME: Collections of records searched by cosine distance, tagged with an embedding model
package storage

import (
	"context"
	"errors"
)

// MetaSource is the metadata key backends group Sources by
const MetaSource = "source"

// ErrCollectionNotFound is returned when a collection has not been created
var ErrCollectionNotFound = errors.New("collection not found")

// Record is one stored entry. ID is the dedup key within a collection.
type Record struct {
	ID       string
	Text     string
	Metadata map[string]any
	Vector   []float32
}

// Match is a record returned by a nearest-neighbour search
type Match struct {
	ID       string
	Text     string
	Metadata map[string]any
	// Distance is cosine distance: 0 for identical direction, up to 2
	Distance float64
}

// VectorStore persists named collections of embedded records
type VectorStore interface {
	// CreateCollection creates an empty collection tagged with the embedding
	// model. Creating an existing collection is a no-op.
	CreateCollection(ctx context.Context, name, model string) error
	// DeleteCollection removes a collection and its records; absent is not an error
	DeleteCollection(ctx context.Context, name string) error
	// CollectionModel returns the tagged model ("" for an untagged collection)
	// or ErrCollectionNotFound
	CollectionModel(ctx context.Context, name string) (string, error)
	// Upsert inserts records, overwriting any with the same ID
	Upsert(ctx context.Context, name string, records []Record) error
	// Nearest returns up to k records by ascending cosine distance
	Nearest(ctx context.Context, name string, vector []float32, k int) ([]Match, error)
	// Sources counts records per MetaSource value
	Sources(ctx context.Context, name string) (map[string]int, error)
	Close() error
}
