// ABOUTME: Typed mapping between Chunks and stored entry metadata
// ABOUTME: Validates source, chunk_id, and optional page when results come back
package index

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/harper/docqa/internal/models"
)

const (
	metaSource  = "source"
	metaChunkID = "chunk_id"
	metaPage    = "page"
)

func chunkMetadata(c models.Chunk) map[string]any {
	meta := map[string]any{
		metaSource:  c.Source,
		metaChunkID: c.ChunkID,
	}
	if c.Page != nil {
		meta[metaPage] = *c.Page
	}
	return meta
}

// chunkFromMetadata rebuilds a Chunk, failing on missing or mistyped fields
func chunkFromMetadata(id, text string, meta map[string]any) (models.Chunk, error) {
	source, ok := meta[metaSource].(string)
	if !ok || source == "" {
		return models.Chunk{}, fmt.Errorf("%w: entry %s: source is %v", ErrMalformedMetadata, id, meta[metaSource])
	}

	chunkID, err := nonNegativeInt(meta[metaChunkID])
	if err != nil {
		return models.Chunk{}, fmt.Errorf("%w: entry %s: chunk_id %v", ErrMalformedMetadata, id, err)
	}

	chunk := models.Chunk{Text: text, Source: source, ChunkID: chunkID}
	if raw, ok := meta[metaPage]; ok && raw != nil {
		page, err := nonNegativeInt(raw)
		if err != nil {
			return models.Chunk{}, fmt.Errorf("%w: entry %s: page %v", ErrMalformedMetadata, id, err)
		}
		chunk.Page = models.PageNumber(page)
	}
	return chunk, nil
}

func nonNegativeInt(v any) (int, error) {
	var n int
	switch x := v.(type) {
	case nil:
		return 0, fmt.Errorf("is missing")
	case int:
		n = x
	case int32:
		n = int(x)
	case int64:
		n = int(x)
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		n = int(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		n = int(i)
	default:
		return 0, fmt.Errorf("has type %T", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}
