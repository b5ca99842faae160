// ABOUTME: storage.VectorStore on Postgres with the pgvector extension
// ABOUTME: Uses sqlx over the pgx stdlib driver and the <=> cosine distance operator
package pgvector

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/harper/docqa/internal/storage"
)

// Schema creates the extension and tables if missing
const Schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS docqa_collections (
    name TEXT PRIMARY KEY,
    embedding_model TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS docqa_entries (
    collection TEXT NOT NULL REFERENCES docqa_collections(name) ON DELETE CASCADE,
    id TEXT NOT NULL,
    text TEXT NOT NULL,
    metadata JSONB NOT NULL,
    embedding vector NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, id)
);
`

// VectorStore keeps collections in Postgres
type VectorStore struct {
	db *sqlx.DB
}

var _ storage.VectorStore = (*VectorStore)(nil)

// Open connects to databaseURL and ensures the schema exists
func Open(ctx context.Context, databaseURL string) (*VectorStore, error) {
	db, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	s := New(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open connection
func New(db *sqlx.DB) *VectorStore {
	return &VectorStore{db: db}
}

// EnsureSchema creates the tables used by the store
func (s *VectorStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// CreateCollection implements storage.VectorStore
func (s *VectorStore) CreateCollection(ctx context.Context, name, model string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO docqa_collections (name, embedding_model)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`, name, sql.NullString{String: model, Valid: model != ""})
	return err
}

// DeleteCollection implements storage.VectorStore
func (s *VectorStore) DeleteCollection(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM docqa_collections WHERE name = $1`, name)
	return err
}

// CollectionModel implements storage.VectorStore
func (s *VectorStore) CollectionModel(ctx context.Context, name string) (string, error) {
	var model sql.NullString
	err := s.db.GetContext(ctx, &model, `SELECT embedding_model FROM docqa_collections WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrCollectionNotFound
	}
	if err != nil {
		return "", err
	}
	return model.String, nil
}

// Upsert implements storage.VectorStore
func (s *VectorStore) Upsert(ctx context.Context, name string, records []storage.Record) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := s.CollectionModel(ctx, name); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO docqa_entries (collection, id, text, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, id) DO UPDATE SET
			text = EXCLUDED.text,
			metadata = EXCLUDED.metadata,
			embedding = EXCLUDED.embedding
	`
	for _, rec := range records {
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata for %s: %w", rec.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, name, rec.ID, rec.Text, string(meta), pgv.NewVector(rec.Vector)); err != nil {
			return fmt.Errorf("upserting %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

type matchRow struct {
	ID       string  `db:"id"`
	Text     string  `db:"text"`
	Metadata []byte  `db:"metadata"`
	Distance float64 `db:"distance"`
}

// Nearest implements storage.VectorStore
func (s *VectorStore) Nearest(ctx context.Context, name string, vector []float32, k int) ([]storage.Match, error) {
	if _, err := s.CollectionModel(ctx, name); err != nil {
		return nil, err
	}

	var rows []matchRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, text, metadata, embedding <=> $1 AS distance
		FROM docqa_entries
		WHERE collection = $2
		ORDER BY embedding <=> $1, created_at
		LIMIT $3
	`, pgv.NewVector(vector), name, k)
	if err != nil {
		return nil, err
	}

	matches := make([]storage.Match, 0, len(rows))
	for _, r := range rows {
		m := storage.Match{ID: r.ID, Text: r.Text, Distance: r.Distance}
		if err := json.Unmarshal(r.Metadata, &m.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata for %s: %w", r.ID, err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Sources implements storage.VectorStore
func (s *VectorStore) Sources(ctx context.Context, name string) (map[string]int, error) {
	var rows []struct {
		Source string `db:"source"`
		Count  int    `db:"count"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT COALESCE(metadata->>'source', '') AS source, COUNT(*) AS count
		FROM docqa_entries
		WHERE collection = $1
		GROUP BY 1
	`, name)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Source] = r.Count
	}
	return counts, nil
}

// Close closes the connection pool
func (s *VectorStore) Close() error {
	return s.db.Close()
}
