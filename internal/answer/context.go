// ABOUTME: Builds the bounded CONTEXT block handed to the chat model
// ABOUTME: One header per hit carrying source, chunk id, page, and score
package answer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/harper/docqa/internal/models"
)

// BlockHeader formats the provenance header for a hit
func BlockHeader(h models.Hit) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[source=%s chunk_id=%d", h.Chunk.Source, h.Chunk.ChunkID)
	if h.Chunk.Page != nil {
		fmt.Fprintf(&sb, " page=%d", *h.Chunk.Page)
	}
	fmt.Fprintf(&sb, " score=%.3f]", h.Score)
	return sb.String()
}

// BuildContext concatenates hit blocks in order until the next block would
// push the total past maxChars. Hits after the first one that does not fit
// are dropped even if they are shorter.
func BuildContext(hits []models.Hit, maxChars int) string {
	parts := make([]string, 0, len(hits))
	used := 0

	for _, h := range hits {
		block := BlockHeader(h) + "\n" + h.Chunk.Text + "\n"
		n := utf8.RuneCountInString(block)
		if used+n > maxChars {
			break
		}
		parts = append(parts, block)
		used += n
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}
