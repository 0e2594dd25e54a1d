package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kwhalen/escalation-helper/internal/answer"
	"github.com/kwhalen/escalation-helper/internal/config"
	"github.com/kwhalen/escalation-helper/internal/engine"
	"github.com/kwhalen/escalation-helper/internal/llm"
	"github.com/kwhalen/escalation-helper/internal/retrieval"
	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

// mockEmbedder returns a fixed unit vector for every input.
type mockEmbedder struct{}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{1, 0, 0}
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }
func (m *mockEmbedder) Name() string    { return "mock" }

type mockProvider struct{}

func (mockProvider) Name() string { return "mock" }

func (mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: "Restart the spooler."}, nil
}

func newTestServer(t *testing.T, seed bool) *Server {
	t.Helper()

	embedder := &mockEmbedder{}
	index, err := vectordb.NewIndex(embedder)
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	if seed {
		err = index.Upsert(context.Background(), []vectordb.Chunk{{
			ID:        "kb/printers.md#0",
			Text:      "Restart the print spooler service.",
			Source:    "kb/printers.md",
			Embedding: []float32{1, 0, 0},
		}})
		if err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	search := config.SearchConfig{DistanceThreshold: 0.40, RetrieveK: 20, ReturnK: 3}
	pipeline := retrieval.NewPipeline(embedder, index, nil, search)
	generator := answer.NewGenerator(mockProvider{}, "gpt-4o-mini")
	eng := engine.New(pipeline, generator, nil, search, config.DialogConfig{MaxClarificationTurns: 2, MaxContextChars: 6000})

	return NewServer(pipeline, eng)
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_knowledge_base", searchKnowledgeBaseTool, "search_knowledge_base"},
		{"ask_question", askQuestionTool, "ask_question"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, false)
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleSearchKnowledgeBase(t *testing.T) {
	srv := newTestServer(t, true)
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query": "printer not printing",
		}

		result, err := srv.handleSearchKnowledgeBase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchKnowledgeBase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("empty index", func(t *testing.T) {
		emptySrv := newTestServer(t, false)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query": "anything",
		}

		result, err := emptySrv.handleSearchKnowledgeBase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})
}

func TestHandleAskQuestion(t *testing.T) {
	srv := newTestServer(t, true)
	ctx := context.Background()

	t.Run("answers with sources", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question": "printer not printing",
		}

		result, err := srv.handleAskQuestion(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		text := resultText(t, result)
		if !strings.Contains(text, "Restart the spooler.") {
			t.Errorf("answer missing: %q", text)
		}
		if !strings.Contains(text, "kb/printers.md") {
			t.Errorf("sources missing: %q", text)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskQuestion(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content in result")
	return ""
}
