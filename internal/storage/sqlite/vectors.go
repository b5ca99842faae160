// ABOUTME: SQLite implementation of storage.VectorStore
// ABOUTME: Stores vectors as BLOBs and ranks them with a brute-force cosine scan
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/docqa/internal/storage"
)

// VectorStore persists collections in a SQLite database
type VectorStore struct {
	db *DB
}

var _ storage.VectorStore = (*VectorStore)(nil)

// NewVectorStore creates a VectorStore over an open database
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// OpenVectorStore opens the database file at path and wraps it
func OpenVectorStore(path string) (*VectorStore, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewVectorStore(db), nil
}

// CreateCollection implements storage.VectorStore
func (s *VectorStore) CreateCollection(ctx context.Context, name, model string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, embedding_model, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, nullString(model), time.Now())
	return err
}

// DeleteCollection implements storage.VectorStore
func (s *VectorStore) DeleteCollection(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE collection = ?", name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name); err != nil {
		return err
	}
	return tx.Commit()
}

// CollectionModel implements storage.VectorStore
func (s *VectorStore) CollectionModel(ctx context.Context, name string) (string, error) {
	var model sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT embedding_model FROM collections WHERE name = ?", name).Scan(&model)
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

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (collection, id, source, text, metadata, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			source = excluded.source,
			text = excluded.text,
			metadata = excluded.metadata,
			vector = excluded.vector
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	for _, rec := range records {
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata for %s: %w", rec.ID, err)
		}
		source, _ := rec.Metadata[storage.MetaSource].(string)
		if _, err := stmt.ExecContext(ctx, name, rec.ID, nullString(source), rec.Text, string(meta),
			storage.VectorToBlob(rec.Vector), now); err != nil {
			return fmt.Errorf("upserting %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// Nearest implements storage.VectorStore
func (s *VectorStore) Nearest(ctx context.Context, name string, vector []float32, k int) ([]storage.Match, error) {
	if _, err := s.CollectionModel(ctx, name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, metadata, vector
		FROM entries
		WHERE collection = ?
		ORDER BY rowid
	`, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ranker := storage.NewRanker(vector)
	for rows.Next() {
		var (
			rec  storage.Record
			meta string
			blob []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &meta, &blob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata for %s: %w", rec.ID, err)
		}
		rec.Vector = storage.BlobToVector(blob)
		ranker.Add(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ranker.Top(k), nil
}

// Sources implements storage.VectorStore
func (s *VectorStore) Sources(ctx context.Context, name string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(source, ''), COUNT(*)
		FROM entries
		WHERE collection = ?
		GROUP BY source
	`, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			source string
			n      int
		)
		if err := rows.Scan(&source, &n); err != nil {
			return nil, err
		}
		counts[source] = n
	}
	return counts, rows.Err()
}

// Close closes the underlying database
func (s *VectorStore) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
