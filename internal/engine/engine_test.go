package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/kwhalen/escalation-helper/internal/answer"
	"github.com/kwhalen/escalation-helper/internal/config"
	"github.com/kwhalen/escalation-helper/internal/db"
	"github.com/kwhalen/escalation-helper/internal/llm"
	"github.com/kwhalen/escalation-helper/internal/retrieval"
	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

// queryEmbedder maps known texts to fixed vectors so tests can steer
// retrieval distance per query.
type queryEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
}

func (q *queryEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := q.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = q.fallback
		}
	}
	return out, nil
}

func (q *queryEmbedder) Dimensions() int { return 3 }
func (q *queryEmbedder) Name() string    { return "query-stub" }

type mockProvider struct {
	content string
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: m.content}, nil
}

func newEngine(t *testing.T, embedder *queryEmbedder, seed []vectordb.Chunk, store *db.DB) *Engine {
	t.Helper()

	index, err := vectordb.NewIndex(embedder)
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	if len(seed) > 0 {
		if err := index.Upsert(context.Background(), seed); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	search := config.SearchConfig{DistanceThreshold: 0.40, RetrieveK: 20, ReturnK: 3}
	pipeline := retrieval.NewPipeline(embedder, index, nil, search)
	generator := answer.NewGenerator(&mockProvider{content: "Restart the spooler."}, "gpt-4o-mini")
	dialog := config.DialogConfig{MaxClarificationTurns: 2, MaxContextChars: 6000}

	return New(pipeline, generator, store, search, dialog)
}

func spoolerChunk() []vectordb.Chunk {
	return []vectordb.Chunk{{
		ID:        "kb/printers.md#0",
		Text:      "Restart the print spooler service.",
		Source:    "kb/printers.md",
		Embedding: []float32{1, 0, 0},
	}}
}

func TestHandleConfidentQuery(t *testing.T) {
	embedder := &queryEmbedder{
		vectors:  map[string][]float32{"receipt printer not printing": {1, 0, 0}},
		fallback: []float32{0, 1, 0},
	}
	e := newEngine(t, embedder, spoolerChunk(), nil)

	res, err := e.Handle(context.Background(), e.NewSessionID(), "receipt printer not printing")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if res.NeedsClarification {
		t.Fatal("confident query should not trigger clarification")
	}
	if res.Answer != "Restart the spooler." {
		t.Errorf("Answer = %q", res.Answer)
	}
	if len(res.Sources) != 1 || res.Sources[0] != "kb/printers.md" {
		t.Errorf("Sources = %v", res.Sources)
	}
	if res.LowConfidence {
		t.Error("LowConfidence should be false")
	}
}

func TestHandleClarificationResolves(t *testing.T) {
	embedder := &queryEmbedder{
		vectors: map[string][]float32{
			"printer issue":                 {0, 1, 0},
			"printer issue receipt printer": {1, 0, 0},
		},
		fallback: []float32{0, 1, 0},
	}
	e := newEngine(t, embedder, spoolerChunk(), nil)
	sid := e.NewSessionID()
	ctx := context.Background()

	res, err := e.Handle(ctx, sid, "printer issue")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !res.NeedsClarification || res.Question == "" {
		t.Fatalf("expected a clarifying question, got %+v", res)
	}

	res, err = e.Handle(ctx, sid, "receipt printer")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if res.NeedsClarification {
		t.Fatalf("merged query should have resolved, got question %q", res.Question)
	}
	if res.Answer != "Restart the spooler." {
		t.Errorf("Answer = %q", res.Answer)
	}
	if res.LowConfidence {
		t.Error("resolved via gate, LowConfidence should be false")
	}

	// Session is reset; the next message starts a fresh query.
	res, err = e.Handle(ctx, sid, "receipt printer not printing")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if res.NeedsClarification {
		t.Error("session should have reset after resolution")
	}
}

func TestHandleTurnBudgetExhausted(t *testing.T) {
	embedder := &queryEmbedder{fallback: []float32{0, 1, 0}}
	e := newEngine(t, embedder, spoolerChunk(), nil)
	sid := e.NewSessionID()
	ctx := context.Background()

	res, _ := e.Handle(ctx, sid, "something vague")
	if !res.NeedsClarification {
		t.Fatal("expected clarification for vague query")
	}

	res, err := e.Handle(ctx, sid, "still vague")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !res.NeedsClarification {
		t.Fatalf("expected a second clarifying question, got %+v", res)
	}

	res, err = e.Handle(ctx, sid, "no idea")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if res.NeedsClarification {
		t.Fatal("turn budget exhausted, dialog must terminate")
	}
	if !res.LowConfidence {
		t.Error("forced resolution must be flagged low-confidence")
	}
	if res.Answer == "" {
		t.Error("expected a best-effort answer")
	}
}

func TestHandleEmptyReplyReAsks(t *testing.T) {
	embedder := &queryEmbedder{fallback: []float32{0, 1, 0}}
	e := newEngine(t, embedder, spoolerChunk(), nil)
	sid := e.NewSessionID()
	ctx := context.Background()

	first, _ := e.Handle(ctx, sid, "something vague")
	again, err := e.Handle(ctx, sid, "   ")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !again.NeedsClarification {
		t.Fatal("empty reply must not resolve the dialog")
	}
	if again.Question != first.Question {
		t.Errorf("empty reply should re-ask %q, got %q", first.Question, again.Question)
	}
}

func TestHandleEmptyIndex(t *testing.T) {
	embedder := &queryEmbedder{fallback: []float32{0, 1, 0}}
	e := newEngine(t, embedder, nil, nil)
	sid := e.NewSessionID()
	ctx := context.Background()

	// An empty knowledge base behaves like a low-confidence retrieval.
	res, err := e.Handle(ctx, sid, "printer issue")
	if err != nil {
		t.Fatalf("empty index must not be an error: %v", err)
	}
	if !res.NeedsClarification {
		t.Errorf("expected clarification against empty index, got %+v", res)
	}
}

func TestAskOnceLowConfidence(t *testing.T) {
	embedder := &queryEmbedder{fallback: []float32{0, 1, 0}}
	e := newEngine(t, embedder, spoolerChunk(), nil)

	res, err := e.AskOnce(context.Background(), "something vague")
	if err != nil {
		t.Fatalf("AskOnce failed: %v", err)
	}
	if !res.LowConfidence {
		t.Error("weak retrieval should be flagged low-confidence")
	}
	if res.Answer == "" {
		t.Error("AskOnce should still answer")
	}
}

func TestHandleRecordsTranscript(t *testing.T) {
	store, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer store.Close()

	embedder := &queryEmbedder{
		vectors:  map[string][]float32{"receipt printer not printing": {1, 0, 0}},
		fallback: []float32{0, 1, 0},
	}
	e := newEngine(t, embedder, spoolerChunk(), store)
	sid := e.NewSessionID()
	ctx := context.Background()

	if _, err := e.Handle(ctx, sid, "receipt printer not printing"); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	msgs, err := store.Messages(ctx, sid)
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d transcript messages, want 2", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("transcript roles wrong: %+v", msgs)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	embedder := &queryEmbedder{
		vectors:  map[string][]float32{"receipt printer not printing": {1, 0, 0}},
		fallback: []float32{0, 1, 0},
	}
	e := newEngine(t, embedder, spoolerChunk(), nil)
	ctx := context.Background()

	vague, _ := e.Handle(ctx, e.NewSessionID(), "something vague")
	if !vague.NeedsClarification {
		t.Fatal("expected clarification in first session")
	}

	// A different session is unaffected by the pending clarification.
	other, err := e.Handle(ctx, e.NewSessionID(), "receipt printer not printing")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if other.NeedsClarification {
		t.Error("second session should answer directly")
	}
}

func TestWeakMatchesNeverReachTheAnswer(t *testing.T) {
	// Cosine distance to the seeded chunk is 0.5, past the 0.40 threshold, so
	// retrieval must filter it out rather than hand it to the generator.
	embedder := &queryEmbedder{fallback: []float32{0.5, 0.8660254, 0}}
	e := newEngine(t, embedder, spoolerChunk(), nil)

	res, err := e.AskOnce(context.Background(), "drawer question")
	if err != nil {
		t.Fatalf("AskOnce failed: %v", err)
	}
	if !res.LowConfidence {
		t.Fatal("distance 0.5 must classify insufficient")
	}
	if res.Answer == "Restart the spooler." {
		t.Error("sub-threshold chunk must not be answered from")
	}
	if len(res.Sources) != 0 {
		t.Errorf("Sources = %v, want none for a filtered-out retrieval", res.Sources)
	}
	if !strings.Contains(res.Answer, "escalate") {
		t.Errorf("expected the insufficient-information fallback, got %q", res.Answer)
	}
}
