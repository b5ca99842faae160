// ABOUTME: Tests for pipeline wiring from configuration
// ABOUTME: Builds the default sqlite + hash stack in a temp dir and checks backend selection

package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harper/docqa/internal/answer"
	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/llm"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ChatModel:         "gpt-4o-mini",
		LLMTimeout:        4 * time.Second,
		EmbeddingProvider: config.ProviderHash,
		EmbeddingModel:    "hash-512",
		OllamaHost:        "http://localhost:11434",
		EmbedMaxRetries:   0,
		VectorBackend:     config.BackendSQLite,
		DataDir:           t.TempDir(),
		Collection:        "docs",
		TopK:              4,
		MaxContextChars:   12000,
		ChunkSize:         1600,
		ChunkOverlap:      120,
		LogLevel:          "info",
	}
}

func TestBuild_DefaultStack(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := Build(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	defer a.Close()

	if a.Assistant.HasModel() {
		t.Error("HasModel() = true without an API key")
	}
	if a.Embedder.Model() != "hash-512" {
		t.Errorf("Embedder.Model() = %s, want hash-512", a.Embedder.Model())
	}
	if _, err := os.Stat(cfg.SQLitePath()); err != nil {
		t.Errorf("expected sqlite file at %s: %v", cfg.SQLitePath(), err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "guide.txt")
	if err := os.WriteFile(path, []byte("The warranty lasts two years from purchase."), 0644); err != nil {
		t.Fatal(err)
	}
	report, err := a.Assistant.IngestPaths(ctx, []string{path}, true)
	if err != nil {
		t.Fatalf("IngestPaths() failed: %v", err)
	}
	if report.TotalChunks != 1 {
		t.Errorf("TotalChunks = %d, want 1", report.TotalChunks)
	}

	res, err := a.Assistant.Ask(ctx, "How long is the warranty?")
	if err != nil {
		t.Fatalf("Ask() failed: %v", err)
	}
	if !strings.HasPrefix(res.Answer, answer.FallbackHeader) {
		t.Errorf("Answer = %q, want fallback answer", res.Answer)
	}
	if len(res.Citations) != 1 || res.Citations[0] != "guide.txt#chunk0" {
		t.Errorf("Citations = %v, want [guide.txt#chunk0]", res.Citations)
	}
}

func TestBuild_PersistsAcrossRebuild(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, err := Build(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "a.md")
	if err := os.WriteFile(path, []byte("# Notes\nsome indexed text"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := first.Assistant.IngestPaths(ctx, []string{path}, true); err != nil {
		t.Fatalf("IngestPaths() failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	second, err := Build(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("second Build() failed: %v", err)
	}
	defer second.Close()

	sources, err := second.Assistant.Sources(ctx)
	if err != nil {
		t.Fatalf("Sources() failed: %v", err)
	}
	if len(sources) != 1 || sources[0].Source != "a.md" {
		t.Errorf("Sources() = %+v, want a.md", sources)
	}
}

func TestBuild_WithAPIKeyHasModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenAIKey = "sk-test"

	a, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	defer a.Close()

	if !a.Assistant.HasModel() {
		t.Error("HasModel() = false with an API key")
	}
	if a.Embedder.Model() != "hash-512" {
		t.Errorf("hash provider should be kept when a key is set, got %s", a.Embedder.Model())
	}
}

func TestNewEmbedder(t *testing.T) {
	client, err := llm.NewOpenAIClient("sk-test")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		provider  string
		client    *llm.OpenAIClient
		wantModel string
		wantErr   bool
	}{
		{"hash", config.ProviderHash, nil, "hash-512", false},
		{"ollama", config.ProviderOllama, nil, "nomic-embed-text", false},
		{"openai", config.ProviderOpenAI, client, llm.DefaultEmbeddingModel, false},
		{"openai without client", config.ProviderOpenAI, nil, "", true},
		{"unknown", "fastembed", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.EmbeddingProvider = tt.provider
			cfg.EmbeddingModel = "nomic-embed-text"

			e, err := NewEmbedder(cfg, tt.client)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewEmbedder() = nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEmbedder() failed: %v", err)
			}
			if e.Model() != tt.wantModel {
				t.Errorf("Model() = %s, want %s", e.Model(), tt.wantModel)
			}
		})
	}
}

func TestNewStore_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.VectorBackend = "chroma"

	if _, err := NewStore(context.Background(), cfg); err == nil {
		t.Fatal("NewStore() = nil error for unknown backend")
	}
}
