package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .eschelp.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to eschelp! Let's configure your knowledge base.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.EmbeddingProvider = cfg.Provider

	// 2. Model.
	defaultModel := "gpt-4o-mini"
	if cfg.Provider == ProviderOllama {
		defaultModel = "llama3.2"
		cfg.EmbeddingModel = "nomic-embed-text"
	}
	modelPrompt := promptui.Prompt{
		Label:   "Answer model",
		Default: defaultModel,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model

	// 3. Knowledge base location.
	docsPrompt := promptui.Prompt{
		Label:   "Knowledge base directory (markdown articles)",
		Default: "kb",
	}
	docsDir, err := docsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}
	cfg.DataDir = docsDir

	// 4. Include patterns.
	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs)",
		Default: "**/*.md",
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	cfg.Ingest.Include = splitAndTrim(includeStr)

	// Check for API key.
	envVar := APIKeyEnvVar(cfg.Provider)
	if envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running eschelp ingest.\n", envVar)
	}

	configPath := ".eschelp.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
