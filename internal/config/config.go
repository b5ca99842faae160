// ABOUTME: Centralized configuration for docqa
// ABOUTME: Loads from environment variables (and .env) with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/harper/docqa/internal/logging"
)

// Embedding providers
const (
	ProviderHash   = "hash"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Vector store backends
const (
	BackendSQLite   = "sqlite"
	BackendCharm    = "charm"
	BackendPgvector = "pgvector"
)

// Config holds all configuration for docqa
type Config struct {
	// Chat model settings
	OpenAIKey     string
	OpenAIBaseURL string
	ChatModel     string
	LLMTimeout    time.Duration

	// Embedding settings
	EmbeddingProvider string
	EmbeddingModel    string
	OllamaHost        string
	EmbedMaxRetries   int
	EmbedRetryDelay   time.Duration

	// Vector store settings
	VectorBackend string
	DataDir       string
	Collection    string
	CharmHost     string
	CharmDBName   string
	AutoSync      bool
	DatabaseURL   string

	// Retrieval settings
	TopK            int
	MaxContextChars int
	ChunkSize       int
	ChunkOverlap    int

	LogLevel string
}

// Load reads .env (if present) and then configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the current environment only
func FromEnv() (*Config, error) {
	provider := strings.ToLower(getEnv("EMBEDDING_PROVIDER", ProviderHash))

	cfg := &Config{
		OpenAIKey:         strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		ChatModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 4)) * time.Second,
		EmbeddingProvider: provider,
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", DefaultEmbeddingModel(provider)),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		EmbedMaxRetries:   getEnvInt("EMBED_MAX_RETRIES", 3),
		EmbedRetryDelay:   getEnvDuration("EMBED_RETRY_DELAY", 2*time.Second),
		VectorBackend:     strings.ToLower(getEnv("VECTOR_BACKEND", BackendSQLite)),
		DataDir:           getEnv("DOCQA_DATA_DIR", getEnv("CHROMA_PERSIST_DIR", DefaultDataDir())),
		Collection:        getEnv("DOCQA_COLLECTION", getEnv("CHROMA_COLLECTION", "docs")),
		CharmHost:         getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:       getEnv("CHARM_DB", "docqa"),
		AutoSync:          getEnvBool("CHARM_AUTO_SYNC", true),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TopK:              getEnvInt("TOP_K", 4),
		MaxContextChars:   getEnvInt("MAX_CONTEXT_CHARS", 12000),
		ChunkSize:         getEnvInt("CHUNK_SIZE", 1600),
		ChunkOverlap:      getEnvInt("CHUNK_OVERLAP", 120),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxContextChars <= 0 {
		return fmt.Errorf("MAX_CONTEXT_CHARS must be positive, got %d", c.MaxContextChars)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must be positive, got %v", c.LLMTimeout)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.EmbedMaxRetries < 0 || c.EmbedMaxRetries > 10 {
		return fmt.Errorf("EMBED_MAX_RETRIES must be 0-10, got %d", c.EmbedMaxRetries)
	}
	switch c.EmbeddingProvider {
	case ProviderHash, ProviderOllama:
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("EMBEDDING_PROVIDER=openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown EMBEDDING_PROVIDER %q", c.EmbeddingProvider)
	}
	switch c.VectorBackend {
	case BackendSQLite, BackendCharm:
	case BackendPgvector:
		if c.DatabaseURL == "" {
			return fmt.Errorf("VECTOR_BACKEND=pgvector requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown VECTOR_BACKEND %q", c.VectorBackend)
	}
	if c.Collection == "" {
		return fmt.Errorf("collection name must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// HasChatModel reports whether a chat-model credential is configured
func (c *Config) HasChatModel() bool {
	return c.OpenAIKey != ""
}

// SQLitePath returns the database file used by the sqlite backend
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "index.db")
}

// DefaultEmbeddingModel returns the model identifier used when EMBEDDING_MODEL is unset
func DefaultEmbeddingModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "text-embedding-3-small"
	case ProviderOllama:
		return "nomic-embed-text"
	default:
		return "hash-512"
	}
}

// DefaultDataDir returns the XDG data directory for docqa
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "docqa")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
