// ABOUTME: Builds and runs the docqa MCP server over stdio
// ABOUTME: Shared by the docqa mcp subcommand and the standalone server binary
package mcp

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/logging"
)

// ServerName is reported to MCP clients during initialization
const ServerName = "docqa Document QA"

// NewServer creates an MCP server with every docqa tool registered
func NewServer(assistant *core.Assistant, version string, logger *log.Logger) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(ServerName, version)
	RegisterTools(server, assistant, logger)
	return server
}

// ServeStdio serves on stdin/stdout until the server stops or ctx is done
func ServeStdio(ctx context.Context, server *mcpserver.MCPServer, logger *log.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
