package cmd

import (
	"testing"

	"github.com/kwhalen/escalation-helper/internal/config"
	"github.com/kwhalen/escalation-helper/internal/llm"
)

func TestCreateLLMProviderAppliesRateLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider = config.ProviderOllama
	cfg.RequestsPerMinute = 30

	p, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("createLLMProviderFromConfig failed: %v", err)
	}
	if _, ok := p.(*llm.RateLimitedProvider); !ok {
		t.Errorf("provider type = %T, want *llm.RateLimitedProvider", p)
	}
}

func TestCreateLLMProviderUnthrottledWhenDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider = config.ProviderOllama
	cfg.RequestsPerMinute = 0

	p, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("createLLMProviderFromConfig failed: %v", err)
	}
	if _, ok := p.(*llm.RateLimitedProvider); ok {
		t.Error("rate limiter applied with requests_per_minute disabled")
	}
}
