package config

// ProviderType identifies an embedding/LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level escalation-helper configuration, corresponding to .eschelp.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	// RequestsPerMinute throttles completion calls to the provider. Zero
	// disables throttling.
	RequestsPerMinute int `yaml:"requests_per_minute" koanf:"requests_per_minute"`

	DataDir  string `yaml:"data_dir" koanf:"data_dir"`
	IndexDir string `yaml:"index_dir" koanf:"index_dir"`

	Search SearchConfig `yaml:"search" koanf:"search"`
	Dialog DialogConfig `yaml:"dialog" koanf:"dialog"`
	Ingest IngestConfig `yaml:"ingest" koanf:"ingest"`
	Server ServerConfig `yaml:"server" koanf:"server"`
}

// SearchConfig tunes the two-stage retrieval pipeline.
type SearchConfig struct {
	// DistanceThreshold is the cosine distance above which the top result is
	// considered too weak to answer from (0 = identical).
	DistanceThreshold float64 `yaml:"distance_threshold" koanf:"distance_threshold"`
	// RetrieveK is how many candidates to over-fetch for reranking headroom.
	RetrieveK int `yaml:"retrieve_k" koanf:"retrieve_k"`
	// ReturnK is how many results survive to the final context.
	ReturnK int `yaml:"return_k" koanf:"return_k"`
	// RerankEnabled toggles the cross-encoder style second stage.
	RerankEnabled bool `yaml:"rerank_enabled" koanf:"rerank_enabled"`
	// RequestTimeoutSeconds bounds every external model call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
}

// DialogConfig tunes the clarification loop.
type DialogConfig struct {
	MaxClarificationTurns int `yaml:"max_clarification_turns" koanf:"max_clarification_turns"`
	MaxContextChars       int `yaml:"max_context_chars" koanf:"max_context_chars"`
}

// IngestConfig tunes document chunking.
type IngestConfig struct {
	ChunkSize    int      `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	Include      []string `yaml:"include" koanf:"include"`
	Exclude      []string `yaml:"exclude" koanf:"exclude"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
