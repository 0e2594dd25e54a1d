// Package answer produces the final response from assembled context.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/kwhalen/escalation-helper/internal/llm"
)

const (
	defaultMaxTokens   = 1500
	defaultTemperature = 0.3
)

// Generator turns a question plus assembled knowledge-base context into a
// grounded answer.
type Generator struct {
	provider llm.Provider
	model    string
}

// NewGenerator creates a Generator using the given provider and model.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Generate answers the question from the given context block. An empty
// context short-circuits to a canned insufficient-information answer without
// calling the model. When lowConfidence is set, the answer carries a
// disclaimer so weak matches are never presented as authoritative.
func (g *Generator) Generate(ctx context.Context, question, contextBlock string, lowConfidence bool) (string, error) {
	if strings.TrimSpace(contextBlock) == "" {
		return insufficientAnswer, nil
	}

	user := fmt.Sprintf("Knowledge base context:\n\n%s\n\nQuestion: %s", contextBlock, question)

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return insufficientAnswer, nil
	}
	if lowConfidence {
		answer = lowConfidenceNote + answer
	}
	return answer, nil
}
