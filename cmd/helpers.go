package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kwhalen/escalation-helper/internal/answer"
	"github.com/kwhalen/escalation-helper/internal/config"
	"github.com/kwhalen/escalation-helper/internal/db"
	"github.com/kwhalen/escalation-helper/internal/embeddings"
	"github.com/kwhalen/escalation-helper/internal/engine"
	"github.com/kwhalen/escalation-helper/internal/llm"
	"github.com/kwhalen/escalation-helper/internal/rerank"
	"github.com/kwhalen/escalation-helper/internal/retrieval"
	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `eschelp init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// Shared by the ingest, ask, chat, serve, and mcp commands.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, 768, ""), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings, rate limited when requests_per_minute is set.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
	}
	return provider, nil
}

// openIndex creates the vector index and loads it from disk.
func openIndex(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (*vectordb.Index, error) {
	index, err := vectordb.NewIndex(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	if err := index.Load(ctx, cfg.IndexDir); err != nil {
		return nil, fmt.Errorf("loading index from %s: %w\nRun `eschelp ingest` first to build the index", cfg.IndexDir, err)
	}
	return index, nil
}

// buildEngine wires the full answering stack from config. When withStore is
// set, transcripts and feedback are persisted to the SQLite database under
// the data directory; the returned DB is nil otherwise.
func buildEngine(ctx context.Context, cfg *config.Config, withStore bool) (*engine.Engine, *retrieval.Pipeline, *db.DB, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	index, err := openIndex(ctx, cfg, embedder)
	if err != nil {
		return nil, nil, nil, err
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	var reranker rerank.Reranker
	if cfg.Search.RerankEnabled {
		reranker = rerank.NewLLMReranker(provider, cfg.Model)
	}

	pipeline := retrieval.NewPipeline(embedder, index, reranker, cfg.Search)
	generator := answer.NewGenerator(provider, cfg.Model)

	var database *db.DB
	if withStore {
		database, err = db.Open(filepath.Join(cfg.IndexDir, "eschelp.db"))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening database: %w", err)
		}
	}

	eng := engine.New(pipeline, generator, database, cfg.Search, cfg.Dialog)
	return eng, pipeline, database, nil
}
