package rerank

import (
	"context"
	"errors"
	"testing"

	"github.com/kwhalen/escalation-helper/internal/llm"
)

type mockProvider struct {
	response *llm.CompletionResponse
	err      error
	lastReq  llm.CompletionRequest
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestScore(t *testing.T) {
	mock := &mockProvider{
		response: &llm.CompletionResponse{Content: `{"scores": [7.5, 2.0, 9.0]}`},
	}
	r := NewLLMReranker(mock, "gpt-4o-mini")

	scores, err := r.Score(context.Background(), "printer not printing", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(scores))
	}
	if scores[0] != 7.5 || scores[1] != 2.0 || scores[2] != 9.0 {
		t.Errorf("scores = %v", scores)
	}
	if !mock.lastReq.JSONMode {
		t.Error("score request should use JSON mode")
	}
	if mock.lastReq.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0 for deterministic judging", mock.lastReq.Temperature)
	}
}

func TestScoreEmptyCandidates(t *testing.T) {
	r := NewLLMReranker(&mockProvider{}, "gpt-4o-mini")

	scores, err := r.Score(context.Background(), "query", nil)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if scores != nil {
		t.Errorf("scores = %v, want nil", scores)
	}
}

func TestScoreProviderError(t *testing.T) {
	r := NewLLMReranker(&mockProvider{err: errors.New("timeout")}, "gpt-4o-mini")

	_, err := r.Score(context.Background(), "query", []string{"a"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestScoreMalformedResponse(t *testing.T) {
	mock := &mockProvider{response: &llm.CompletionResponse{Content: "not json"}}
	r := NewLLMReranker(mock, "gpt-4o-mini")

	_, err := r.Score(context.Background(), "query", []string{"a"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestScoreCountMismatch(t *testing.T) {
	mock := &mockProvider{response: &llm.CompletionResponse{Content: `{"scores": [1.0]}`}}
	r := NewLLMReranker(mock, "gpt-4o-mini")

	_, err := r.Score(context.Background(), "query", []string{"a", "b"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on count mismatch, got %v", err)
	}
}
