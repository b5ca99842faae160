// ABOUTME: Deterministic excerpt answer used whenever the chat model is unavailable
// ABOUTME: Lists the top hits with citation, score, and a short snippet
package answer

import (
	"fmt"
	"strings"

	"github.com/harper/docqa/internal/models"
)

const (
	// fallbackHits bounds the excerpts listed
	fallbackHits = 5
	// snippetChars bounds each excerpt, in characters
	snippetChars = 280
)

// FallbackAnswer returns the excerpt listing for hits, or the don't-know
// sentence when there are none
func FallbackAnswer(hits []models.Hit) string {
	if len(hits) == 0 {
		return DontKnow
	}

	lines := []string{FallbackHeader}
	for _, h := range hits[:min(len(hits), fallbackHits)] {
		lines = append(lines, fmt.Sprintf("- (%s, score=%.3f) %s...", h.Chunk.Citation(), h.Score, Snippet(h.Chunk.Text, snippetChars)))
	}
	return strings.Join(lines, "\n")
}

// Snippet returns the first n characters of text on one line, trimmed
func Snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.TrimSpace(strings.ReplaceAll(string(runes), "\n", " "))
}
