// Package rerank re-scores retrieved passages against the query with an LLM,
// sharpening the ordering the embedding distance alone produces.
package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kwhalen/escalation-helper/internal/llm"
)

// ErrUnavailable indicates the reranker could not score the candidates.
// Callers are expected to fall back to distance ordering.
var ErrUnavailable = errors.New("reranker unavailable")

// Reranker scores candidate passages for relevance to a query. Scores are
// relative; only their ordering matters.
type Reranker interface {
	Score(ctx context.Context, query string, candidates []string) ([]float64, error)
	Name() string
}

const scoreSystemPrompt = `You are a relevance judge for a POS troubleshooting knowledge base.
Given a support question and a numbered list of passages, rate how useful each
passage is for answering the question on a 0-10 scale. Respond with JSON only:
{"scores": [s1, s2, ...]} with exactly one score per passage, in order.`

// LLMReranker implements Reranker by asking an LLM to judge each passage.
type LLMReranker struct {
	provider llm.Provider
	model    string
}

// NewLLMReranker creates a reranker backed by the given provider.
func NewLLMReranker(provider llm.Provider, model string) *LLMReranker {
	return &LLMReranker{provider: provider, model: model}
}

func (r *LLMReranker) Name() string {
	return "llm:" + r.provider.Name()
}

func (r *LLMReranker) Score(ctx context.Context, query string, candidates []string) ([]float64, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\nPassages:\n", query)
	for i, c := range candidates {
		fmt.Fprintf(&sb, "[%d] %s\n\n", i+1, c)
	}

	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Model: r.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: scoreSystemPrompt},
			{Role: llm.RoleUser, Content: sb.String()},
		},
		MaxTokens:   256,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var parsed struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed score response: %v", ErrUnavailable, err)
	}
	if len(parsed.Scores) != len(candidates) {
		return nil, fmt.Errorf("%w: got %d scores for %d candidates", ErrUnavailable, len(parsed.Scores), len(candidates))
	}

	return parsed.Scores, nil
}
