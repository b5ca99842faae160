// ABOUTME: storage.VectorStore backed by Charm KV
// ABOUTME: One JSON value per entry, ranked by a full cosine scan of the collection
package charmkv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/docqa/internal/charm"
	"github.com/harper/docqa/internal/storage"
)

// KV is the subset of charm.Client the store needs
type KV interface {
	SetBatch(values map[string][]byte) error
	Get(key string) ([]byte, error)
	DeleteBatch(keys []string) error
	ListKeys(prefix string) ([]string, error)
	Close() error
}

var _ KV = (*charm.Client)(nil)

type collectionDoc struct {
	Name           string `json:"name"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
}

type entryDoc struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
	Vector   []float32      `json:"vector"`
}

// VectorStore keeps collections in a Charm KV database
type VectorStore struct {
	kv KV
}

var _ storage.VectorStore = (*VectorStore)(nil)

// New creates a VectorStore over kv
func New(kv KV) *VectorStore {
	return &VectorStore{kv: kv}
}

// Open connects to Charm with cfg and wraps the client
func Open(cfg *charm.Config) (*VectorStore, error) {
	client, err := charm.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return New(client), nil
}

func (s *VectorStore) exists(name string) (bool, error) {
	key := charm.CollectionKey(name)
	keys, err := s.kv.ListKeys(key)
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if k == key {
			return true, nil
		}
	}
	return false, nil
}

// CreateCollection implements storage.VectorStore
func (s *VectorStore) CreateCollection(ctx context.Context, name, model string) error {
	if strings.Contains(name, ":") {
		return fmt.Errorf("collection name %q must not contain ':'", name)
	}
	ok, err := s.exists(name)
	if err != nil || ok {
		return err
	}
	data, err := json.Marshal(collectionDoc{Name: name, EmbeddingModel: model})
	if err != nil {
		return err
	}
	return s.kv.SetBatch(map[string][]byte{charm.CollectionKey(name): data})
}

// DeleteCollection implements storage.VectorStore
func (s *VectorStore) DeleteCollection(ctx context.Context, name string) error {
	keys, err := s.kv.ListKeys(charm.EntryKeyPrefix(name))
	if err != nil {
		return err
	}
	ok, err := s.exists(name)
	if err != nil {
		return err
	}
	if ok {
		keys = append(keys, charm.CollectionKey(name))
	}
	if len(keys) == 0 {
		return nil
	}
	return s.kv.DeleteBatch(keys)
}

// CollectionModel implements storage.VectorStore
func (s *VectorStore) CollectionModel(ctx context.Context, name string) (string, error) {
	ok, err := s.exists(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", storage.ErrCollectionNotFound
	}
	data, err := s.kv.Get(charm.CollectionKey(name))
	if err != nil {
		return "", err
	}
	var doc collectionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("decoding collection %s: %w", name, err)
	}
	return doc.EmbeddingModel, nil
}

// Upsert implements storage.VectorStore
func (s *VectorStore) Upsert(ctx context.Context, name string, records []storage.Record) error {
	if len(records) == 0 {
		return nil
	}
	ok, err := s.exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return storage.ErrCollectionNotFound
	}

	values := make(map[string][]byte, len(records))
	for _, rec := range records {
		data, err := json.Marshal(entryDoc(rec))
		if err != nil {
			return fmt.Errorf("encoding %s: %w", rec.ID, err)
		}
		values[charm.EntryKey(name, rec.ID)] = data
	}
	return s.kv.SetBatch(values)
}

// Nearest implements storage.VectorStore
func (s *VectorStore) Nearest(ctx context.Context, name string, vector []float32, k int) ([]storage.Match, error) {
	ok, err := s.exists(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, storage.ErrCollectionNotFound
	}

	ranker := storage.NewRanker(vector)
	err = s.scan(ctx, name, func(doc entryDoc) {
		ranker.Add(storage.Record(doc))
	})
	if err != nil {
		return nil, err
	}
	return ranker.Top(k), nil
}

// Sources implements storage.VectorStore
func (s *VectorStore) Sources(ctx context.Context, name string) (map[string]int, error) {
	counts := make(map[string]int)
	err := s.scan(ctx, name, func(doc entryDoc) {
		source, _ := doc.Metadata[storage.MetaSource].(string)
		counts[source]++
	})
	return counts, err
}

func (s *VectorStore) scan(ctx context.Context, name string, fn func(entryDoc)) error {
	keys, err := s.kv.ListKeys(charm.EntryKeyPrefix(name))
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := s.kv.Get(key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		var doc entryDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		fn(doc)
	}
	return nil
}

// Close closes the KV client
func (s *VectorStore) Close() error {
	return s.kv.Close()
}
