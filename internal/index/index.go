// ABOUTME: Index store: embeds chunks into a named collection and retrieves the nearest ones
// ABOUTME: Owns reset/add/query, the score clamp, and the embedding model tag check
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/harper/docqa/internal/embedding"
	"github.com/harper/docqa/internal/logging"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/storage"
)

// Index is a handle on one collection. The caller owns the store's lifecycle.
type Index struct {
	store      storage.VectorStore
	embedder   embedding.Embedder
	collection string
	logger     *log.Logger
}

// New creates an Index over the named collection
func New(store storage.VectorStore, embedder embedding.Embedder, collection string, logger *log.Logger) *Index {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Index{
		store:      store,
		embedder:   embedder,
		collection: collection,
		logger:     logger.WithPrefix("index"),
	}
}

// Collection returns the collection name
func (ix *Index) Collection() string {
	return ix.collection
}

// Reset deletes the collection (if present) and recreates it empty
func (ix *Index) Reset(ctx context.Context) error {
	if err := ix.store.DeleteCollection(ctx, ix.collection); err != nil {
		return storageErr("reset", err)
	}
	if err := ix.store.CreateCollection(ctx, ix.collection, ix.embedder.Model()); err != nil {
		return storageErr("reset", err)
	}
	ix.logger.Info("reset collection", "collection", ix.collection, "model", ix.embedder.Model())
	return nil
}

// ensureCollection creates the collection on first use and checks its model tag
func (ix *Index) ensureCollection(ctx context.Context, op string) error {
	model, err := ix.store.CollectionModel(ctx, ix.collection)
	if errors.Is(err, storage.ErrCollectionNotFound) {
		if err := ix.store.CreateCollection(ctx, ix.collection, ix.embedder.Model()); err != nil {
			return storageErr(op, err)
		}
		return nil
	}
	if err != nil {
		return storageErr(op, err)
	}
	if model != "" && model != ix.embedder.Model() {
		return fmt.Errorf("%w: collection %q was built with %q but the embedder is %q",
			ErrEmbeddingModelMismatch, ix.collection, model, ix.embedder.Model())
	}
	return nil
}

// Add embeds chunks in one batch and upserts them keyed by Chunk.Key.
// Re-adding a chunk with the same key overwrites it.
func (ix *Index) Add(ctx context.Context, chunks []models.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := ix.ensureCollection(ctx, "add"); err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	records := make([]storage.Record, len(chunks))
	for i, c := range chunks {
		records[i] = storage.Record{
			ID:       c.Key(),
			Text:     c.Text,
			Metadata: chunkMetadata(c),
			Vector:   vectors[i],
		}
	}
	if err := ix.store.Upsert(ctx, ix.collection, records); err != nil {
		return 0, storageErr("add", err)
	}

	ix.logger.Debug("added chunks", "collection", ix.collection, "count", len(records))
	return len(records), nil
}

// Query returns up to topK chunks ordered by descending score
func (ix *Index) Query(ctx context.Context, question string, topK int) ([]models.Hit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}
	if err := ix.ensureCollection(ctx, "query"); err != nil {
		return nil, err
	}

	vectors, err := ix.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for the question", len(vectors))
	}

	matches, err := ix.store.Nearest(ctx, ix.collection, vectors[0], topK)
	if err != nil {
		return nil, storageErr("query", err)
	}

	hits := make([]models.Hit, 0, len(matches))
	for _, m := range matches {
		chunk, err := chunkFromMetadata(m.ID, m.Text, m.Metadata)
		if err != nil {
			return nil, err
		}
		hits = append(hits, models.Hit{Chunk: chunk, Score: models.ScoreFromDistance(m.Distance)})
	}

	ix.logger.Debug("query", "collection", ix.collection, "top_k", topK, "hits", len(hits))
	return hits, nil
}

// Sources lists indexed documents with their chunk counts, sorted by name
func (ix *Index) Sources(ctx context.Context) ([]models.SourceInfo, error) {
	counts, err := ix.store.Sources(ctx, ix.collection)
	if err != nil {
		return nil, storageErr("sources", err)
	}
	infos := make([]models.SourceInfo, 0, len(counts))
	for source, n := range counts {
		infos = append(infos, models.SourceInfo{Source: source, Chunks: n})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Source < infos[j].Source })
	return infos, nil
}
