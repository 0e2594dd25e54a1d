package llm

import (
	"fmt"
	"os"
)

// NewProvider builds the configured completion backend. Supported types are
// "openai" (hosted, needs OPENAI_API_KEY) and "ollama" (local, honors
// OLLAMA_HOST).
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
