// ABOUTME: Text cleaning and character-window chunking
// ABOUTME: Deterministic sliding window with overlap, measured in characters
package ingest

import (
	"strings"
)

const (
	// DefaultChunkSize is the window length in characters
	DefaultChunkSize = 1600
	// DefaultOverlap is how many characters consecutive windows share
	DefaultOverlap = 120
)

// Clean normalizes line endings, collapses runs of 3+ newlines to exactly 2,
// and trims surrounding whitespace.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

// ChunkText cleans text and splits it into overlapping windows of at most
// size characters. Windows that trim to empty are dropped but still advance
// the window. overlap must be smaller than size.
func ChunkText(text string, size, overlap int) []string {
	runes := []rune(Clean(text))
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < n {
		end := min(start+size, n)
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == n {
			break
		}
		start = max(end-overlap, 0)
	}
	return chunks
}
