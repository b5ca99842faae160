// ABOUTME: Main entry point for the docqa MCP server with stdio transport
// ABOUTME: Loads configuration, assembles the pipeline, and serves the docqa tools
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/harper/docqa/internal/app"
	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/logging"
	"github.com/harper/docqa/internal/mcp"
)

var version = "dev"

func main() {
	// stdout carries the protocol, so logs go to stderr
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", os.Stderr).Fatal("invalid configuration", "err", err)
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcp.NewServer(a.Assistant, version, logger)

	logger.Info("docqa MCP server starting on stdio...", "collection", cfg.Collection, "backend", cfg.VectorBackend)
	return mcp.ServeStdio(ctx, server, logger)
}
