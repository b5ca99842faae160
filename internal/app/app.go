// ABOUTME: Wires configuration into a ready Assistant
// ABOUTME: Picks the vector backend, embedder and chat completer shared by the CLI, server and benchmark
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/harper/docqa/internal/answer"
	"github.com/harper/docqa/internal/charm"
	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/embedding"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/ingest"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/logging"
	"github.com/harper/docqa/internal/storage"
	"github.com/harper/docqa/internal/storage/charmkv"
	"github.com/harper/docqa/internal/storage/pgvector"
	"github.com/harper/docqa/internal/storage/sqlite"
)

// App owns the assembled pipeline and the resources behind it
type App struct {
	Config    *config.Config
	Assistant *core.Assistant
	Store     storage.VectorStore
	Embedder  embedding.Embedder
	logger    *log.Logger
}

// Build opens the configured store and assembles the Assistant.
// The caller must Close the App.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	var client *llm.OpenAIClient
	if cfg.HasChatModel() {
		clientCfg := &llm.ClientConfig{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			ChatModel:  cfg.ChatModel,
			MaxRetries: cfg.EmbedMaxRetries,
			RetryDelay: cfg.EmbedRetryDelay,
			Logger:     logger,
		}
		if cfg.EmbeddingProvider == config.ProviderOpenAI {
			clientCfg.EmbeddingModel = cfg.EmbeddingModel
		}
		c, err := llm.NewOpenAIClientWithConfig(clientCfg)
		if err != nil {
			return nil, fmt.Errorf("initializing OpenAI client: %w", err)
		}
		client = c
	} else {
		logger.Warn("OPENAI_API_KEY not set, answers will be excerpt-based")
	}

	embedder, err := NewEmbedder(cfg, client)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ingestor, err := ingest.NewIngestor(ingest.Options{
		ChunkSize: cfg.ChunkSize,
		Overlap:   cfg.ChunkOverlap,
		PDF:       ingest.NewPDFExtractor(),
		Logger:    logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	engineOpts := answer.Options{
		MaxContextChars: cfg.MaxContextChars,
		Timeout:         cfg.LLMTimeout,
		Logger:          logger,
	}
	if client != nil {
		engineOpts.Completer = client
	}

	ix := index.New(store, embedder, cfg.Collection, logger)
	assistant := core.NewAssistant(ingestor, ix, answer.NewEngine(engineOpts), core.Options{
		TopK:   cfg.TopK,
		Logger: logger,
	})

	chatModel := "none"
	if client != nil {
		chatModel = client.ChatModel()
	}
	logger.Debug("pipeline ready",
		"backend", cfg.VectorBackend,
		"embedder", embedder.Model(),
		"collection", ix.Collection(),
		"chat_model", chatModel)

	return &App{
		Config:    cfg,
		Assistant: assistant,
		Store:     store,
		Embedder:  embedder,
		logger:    logger,
	}, nil
}

// Close releases the vector store
func (a *App) Close() error {
	return a.Store.Close()
}

// NewEmbedder returns the embedder named by EMBEDDING_PROVIDER.
// The openai provider reuses client, which must be non-nil.
func NewEmbedder(cfg *config.Config, client *llm.OpenAIClient) (embedding.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderHash:
		return embedding.NewHashEmbedder(embedding.DefaultHashDimensions), nil
	case config.ProviderOllama:
		e, err := embedding.NewOllamaEmbedder(cfg.OllamaHost, cfg.EmbeddingModel)
		if err != nil {
			return nil, fmt.Errorf("initializing ollama embedder: %w", err)
		}
		return e, nil
	case config.ProviderOpenAI:
		if client == nil {
			return nil, fmt.Errorf("openai embeddings require OPENAI_API_KEY")
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

// NewStore opens the vector store named by VECTOR_BACKEND
func NewStore(ctx context.Context, cfg *config.Config) (storage.VectorStore, error) {
	switch cfg.VectorBackend {
	case config.BackendSQLite:
		s, err := sqlite.OpenVectorStore(cfg.SQLitePath())
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	case config.BackendCharm:
		s, err := charmkv.Open(&charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, fmt.Errorf("opening charm store: %w", err)
		}
		return s, nil
	case config.BackendPgvector:
		s, err := pgvector.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening pgvector store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}
