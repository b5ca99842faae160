// ABOUTME: MCP tool definitions and registration for the docqa server
// ABOUTME: Defines JSON schemas for the ingest, ask, search, reset and sources tools
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/logging"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, assistant *core.Assistant, logger *log.Logger) *Handlers {
	handlers := NewHandlers(assistant, logger)

	// 1. ingest_file - index a document from disk
	server.AddTool(mcp.Tool{
		Name:        "ingest_file",
		Description: "Index a .pdf, .txt or .md file so its contents can be used to answer questions. Resets the index first unless reset is false.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the document on the server's filesystem",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Clear the index before ingesting (default: true)",
				},
			},
			Required: []string{"path"},
		},
	}, handlers.IngestFile)

	// 2. ask - grounded answer with citations
	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the indexed documents. Returns the answer and the citations it was built from.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language question",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.Ask)

	// 3. search - raw nearest chunks
	server.AddTool(mcp.Tool{
		Name:        "search",
		Description: "Return the indexed chunks most similar to a query, with scores, without generating an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of chunks to return (default: configured TOP_K)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.Search)

	// 4. reset_index
	server.AddTool(mcp.Tool{
		Name:        "reset_index",
		Description: "Remove every indexed document.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ResetIndex)

	// 5. list_sources
	server.AddTool(mcp.Tool{
		Name:        "list_sources",
		Description: "List indexed documents with their chunk counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListSources)

	return handlers
}

// NewHandlers creates tool handlers over an Assistant
func NewHandlers(assistant *core.Assistant, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handlers{
		assistant: assistant,
		logger:    logger.WithPrefix("mcp"),
	}
}
