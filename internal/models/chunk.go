// ABOUTME: Chunk is the provenance-tagged unit of document text used for retrieval
// ABOUTME: Defines Chunk and Hit plus the index key and citation formats
package models

import "fmt"

// Chunk is an immutable piece of a source document.
// Page is set only for paginated formats (PDF) and is 0-based.
type Chunk struct {
	Text    string `json:"text" yaml:"text"`
	Source  string `json:"source" yaml:"source"`
	ChunkID int    `json:"chunk_id" yaml:"chunk_id"`
	Page    *int   `json:"page,omitempty" yaml:"page,omitempty"`
}

// Key returns the index entry identifier "{source}_{chunk_id}".
// Persisted collections depend on this exact format.
func (c Chunk) Key() string {
	return fmt.Sprintf("%s_%d", c.Source, c.ChunkID)
}

// Citation returns the citation string "{source}#chunk{chunk_id}".
func (c Chunk) Citation() string {
	return fmt.Sprintf("%s#chunk%d", c.Source, c.ChunkID)
}

// HasPage reports whether the chunk came from a paginated document
func (c Chunk) HasPage() bool {
	return c.Page != nil
}

// PageNumber returns a pointer to a copy of page, for building Chunks
func PageNumber(page int) *int {
	return &page
}

// Hit is a retrieved chunk with its similarity score in [0, 1]
type Hit struct {
	Chunk Chunk   `json:"chunk" yaml:"chunk"`
	Score float64 `json:"score" yaml:"score"`
}

// ScoreFromDistance maps a cosine distance to a similarity score.
// The result is clamped to [0, 1]; rounding can put an exact match's
// distance just below zero.
func ScoreFromDistance(distance float64) float64 {
	return min(1, max(0, 1.0-distance))
}

// Citations returns one citation per hit, in hit order
func Citations(hits []Hit) []string {
	citations := make([]string, 0, len(hits))
	for _, h := range hits {
		citations = append(citations, h.Chunk.Citation())
	}
	return citations
}

// SourceInfo summarizes one indexed document
type SourceInfo struct {
	Source string `json:"source" yaml:"source"`
	Chunks int    `json:"chunks" yaml:"chunks"`
}
