// ABOUTME: Embedder interface shared by the index and all embedding backends
// ABOUTME: Backends must return one vector per input text, in input order
package embedding

import (
	"context"
	"fmt"
)

// Embedder converts a batch of texts into vectors
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Model identifies the embedding model; collections are tagged with it
	Model() string
}

// checkCount verifies a backend returned one vector per input
func checkCount(backend string, want int, got [][]float32) error {
	if len(got) != want {
		return fmt.Errorf("%s returned %d embeddings for %d inputs", backend, len(got), want)
	}
	for i, v := range got {
		if len(v) == 0 {
			return fmt.Errorf("%s returned an empty embedding at position %d", backend, i)
		}
	}
	return nil
}
