package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kwhalen/escalation-helper/internal/llm"
)

type mockProvider struct {
	response *llm.CompletionResponse
	err      error
	calls    int
	lastReq  llm.CompletionRequest
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestGenerate(t *testing.T) {
	mock := &mockProvider{response: &llm.CompletionResponse{Content: "Restart the print spooler."}}
	g := NewGenerator(mock, "gpt-4o-mini")

	got, err := g.Generate(context.Background(), "printer not printing", "--- Source 1 (kb/printers.md) ---\nRestart the spooler.", false)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "Restart the print spooler." {
		t.Errorf("answer = %q", got)
	}
	if mock.lastReq.Temperature != defaultTemperature {
		t.Errorf("Temperature = %v, want %v", mock.lastReq.Temperature, defaultTemperature)
	}
	if !strings.Contains(mock.lastReq.Messages[1].Content, "kb/printers.md") {
		t.Error("context block not passed to the model")
	}
}

func TestGenerateEmptyContextSkipsModel(t *testing.T) {
	mock := &mockProvider{response: &llm.CompletionResponse{Content: "should not be used"}}
	g := NewGenerator(mock, "gpt-4o-mini")

	got, err := g.Generate(context.Background(), "question", "   ", false)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != insufficientAnswer {
		t.Errorf("answer = %q, want canned insufficient answer", got)
	}
	if mock.calls != 0 {
		t.Errorf("model called %d times with empty context, want 0", mock.calls)
	}
}

func TestGenerateLowConfidenceDisclaimer(t *testing.T) {
	mock := &mockProvider{response: &llm.CompletionResponse{Content: "Maybe check the drawer settings."}}
	g := NewGenerator(mock, "gpt-4o-mini")

	got, err := g.Generate(context.Background(), "question", "some context", true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.HasPrefix(got, "Note:") {
		t.Errorf("low-confidence answer missing disclaimer: %q", got)
	}
	if !strings.Contains(got, "Maybe check the drawer settings.") {
		t.Errorf("answer content dropped: %q", got)
	}
}

func TestGenerateProviderError(t *testing.T) {
	g := NewGenerator(&mockProvider{err: errors.New("rate limited")}, "gpt-4o-mini")

	if _, err := g.Generate(context.Background(), "q", "ctx", false); err == nil {
		t.Error("expected error from provider failure")
	}
}

func TestGenerateBlankCompletion(t *testing.T) {
	mock := &mockProvider{response: &llm.CompletionResponse{Content: "  \n"}}
	g := NewGenerator(mock, "gpt-4o-mini")

	got, err := g.Generate(context.Background(), "q", "ctx", false)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != insufficientAnswer {
		t.Errorf("blank completion should fall back, got %q", got)
	}
}
