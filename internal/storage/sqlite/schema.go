// ABOUTME: SQLite database schema for the vector index
// ABOUTME: Collections tagged with an embedding model, and their entries
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Named collections; embedding_model is NULL for untagged collections
CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    embedding_model TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexed chunks (vector stored as little-endian float32 BLOB)
CREATE TABLE IF NOT EXISTS entries (
    collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
    id TEXT NOT NULL,
    source TEXT,
    text TEXT NOT NULL,
    metadata TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(collection, source);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
