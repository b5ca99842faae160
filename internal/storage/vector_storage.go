// ABOUTME: Vector math and encoding shared by the storage backends
// ABOUTME: Cosine distance, brute-force top-k ranking, and float32 BLOB encoding
package storage

import (
	"encoding/binary"
	"math"
	"sort"
)

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched lengths or a zero vector give 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotProduct += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance is 1 - CosineSimilarity, in [0, 2]
func CosineDistance(a, b []float32) float64 {
	return 1.0 - CosineSimilarity(a, b)
}

// Ranker keeps matches ordered by ascending distance, for backends that scan
type Ranker struct {
	query   []float32
	matches []Match
}

// NewRanker creates a Ranker for the query vector
func NewRanker(query []float32) *Ranker {
	return &Ranker{query: query}
}

// Add scores a record against the query
func (r *Ranker) Add(rec Record) {
	r.matches = append(r.matches, Match{
		ID:       rec.ID,
		Text:     rec.Text,
		Metadata: rec.Metadata,
		Distance: CosineDistance(r.query, rec.Vector),
	})
}

// Top returns the k closest matches. Ties keep insertion order.
func (r *Ranker) Top(k int) []Match {
	sort.SliceStable(r.matches, func(i, j int) bool {
		return r.matches[i].Distance < r.matches[j].Distance
	})
	if k >= 0 && len(r.matches) > k {
		return r.matches[:k]
	}
	return r.matches
}

// VectorToBlob converts a float32 slice to a little-endian binary blob
func VectorToBlob(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// BlobToVector converts a binary blob back to a float32 slice
func BlobToVector(blob []byte) []float32 {
	count := len(blob) / 4
	vector := make([]float32, count)
	for i := 0; i < count; i++ {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}
