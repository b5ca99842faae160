// ABOUTME: Error types returned by the index
// ABOUTME: Storage failures, malformed stored metadata, and embedding model mismatches
package index

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMetadata means a stored entry's metadata does not match the chunk schema
	ErrMalformedMetadata = errors.New("malformed chunk metadata")
	// ErrEmbeddingModelMismatch means the collection was built with a different embedding model
	ErrEmbeddingModelMismatch = errors.New("embedding model mismatch")
)

// StorageError wraps a vector store failure during an index operation
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("index %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
