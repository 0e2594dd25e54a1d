package config

// DefaultExcludes are glob patterns skipped during ingestion by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"**/*.draft.md",
}

// DefaultConfig returns a Config with sensible defaults. The retrieval knobs
// mirror the tuned production values: 0.40 cosine distance (~60% similarity
// floor), 20 candidates over-fetched, 3 returned.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		RequestsPerMinute: 60,
		DataDir:           "data",
		IndexDir:          "index",
		Search: SearchConfig{
			DistanceThreshold:     0.40,
			RetrieveK:             20,
			ReturnK:               3,
			RerankEnabled:         true,
			RequestTimeoutSeconds: 30,
		},
		Dialog: DialogConfig{
			MaxClarificationTurns: 2,
			MaxContextChars:       6000,
		},
		Ingest: IngestConfig{
			ChunkSize:    2000,
			ChunkOverlap: 200,
			Include:      []string{"**/*.md"},
			Exclude:      DefaultExcludes,
		},
		Server: ServerConfig{
			Port: 8750,
		},
	}
}
