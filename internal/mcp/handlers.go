// ABOUTME: MCP tool handlers backed by the document QA Assistant
// ABOUTME: Validates tool arguments and returns JSON results or tool errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/models"
)

// Handlers contains the MCP tool handlers
type Handlers struct {
	assistant *core.Assistant
	logger    *log.Logger
}

// IngestFile handles the ingest_file tool
func (h *Handlers) IngestFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil || strings.TrimSpace(path) == "" {
		return mcp.NewToolResultError("path argument is required and must be a string"), nil
	}
	reset := request.GetBool("reset", true)

	report, err := h.assistant.IngestPaths(ctx, []string{path}, reset)
	if err != nil {
		h.logger.Warn("ingest failed", "path", path, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"batch_id":     report.BatchID,
		"reset":        report.Reset,
		"files":        report.Files,
		"total_chunks": report.TotalChunks,
		"elapsed_ms":   report.Elapsed.Milliseconds(),
	})
}

// Ask handles the ask tool
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	res, err := h.assistant.Ask(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"answer":     res.Answer,
		"citations":  res.Citations,
		"latency_ms": res.Latency.Milliseconds(),
	})
}

// Search handles the search tool
func (h *Handlers) Search(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	topK := request.GetInt("top_k", 0)
	if topK < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("top_k must be positive, got %d", topK)), nil
	}

	if topK == 0 {
		topK = h.assistant.TopK()
	}

	hits, err := h.assistant.Search(ctx, query, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	results := make([]map[string]interface{}, 0, len(hits))
	for _, hit := range hits {
		results = append(results, hitResult(hit))
	}

	return jsonResult(map[string]interface{}{
		"top_k":   topK,
		"results": results,
	})
}

// ResetIndex handles the reset_index tool
func (h *Handlers) ResetIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.assistant.Reset(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"success": true,
	})
}

// ListSources handles the list_sources tool
func (h *Handlers) ListSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sources, err := h.assistant.Sources(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sources: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"sources": sources,
	})
}

func hitResult(hit models.Hit) map[string]interface{} {
	r := map[string]interface{}{
		"citation": hit.Chunk.Citation(),
		"source":   hit.Chunk.Source,
		"chunk_id": hit.Chunk.ChunkID,
		"score":    hit.Score,
		"text":     hit.Chunk.Text,
	}
	if hit.Chunk.HasPage() {
		r["page"] = *hit.Chunk.Page
	}
	return r
}

func jsonResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
