package assemble

import (
	"strings"
	"testing"

	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

func chunk(text, source string) vectordb.ScoredChunk {
	return vectordb.ScoredChunk{Chunk: vectordb.Chunk{ID: source + ":" + text, Text: text, Source: source}}
}

func TestAssembleOrderAndTags(t *testing.T) {
	got := Assemble([]vectordb.ScoredChunk{
		chunk("first answer", "kb/printers.md"),
		chunk("second answer", "kb/payments.md"),
	}, 0)

	wantFirst := "--- Source 1 (kb/printers.md) ---\nfirst answer"
	wantSecond := "--- Source 2 (kb/payments.md) ---\nsecond answer"
	if !strings.Contains(got, wantFirst) {
		t.Errorf("missing first section:\n%s", got)
	}
	if !strings.Contains(got, wantSecond) {
		t.Errorf("missing second section:\n%s", got)
	}
	if strings.Index(got, wantFirst) > strings.Index(got, wantSecond) {
		t.Error("sections out of rank order")
	}
}

func TestAssembleEmpty(t *testing.T) {
	if got := Assemble(nil, 1000); got != "" {
		t.Errorf("Assemble(nil) = %q, want empty", got)
	}
}

func TestAssembleWholeChunksOnly(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := Assemble([]vectordb.ScoredChunk{
		chunk("short", "kb/a.md"),
		chunk(long, "kb/b.md"),
	}, 100)

	if !strings.Contains(got, "short") {
		t.Errorf("first chunk should fit:\n%s", got)
	}
	if strings.Contains(got, "xxx") {
		t.Error("overflowing chunk must be skipped entirely, not truncated")
	}
}

func TestAssembleDedupeKeepsHighestRank(t *testing.T) {
	got := Assemble([]vectordb.ScoredChunk{
		chunk("same text", "kb/a.md"),
		chunk("same text", "kb/b.md"),
		chunk("other", "kb/c.md"),
	}, 0)

	if strings.Count(got, "same text") != 1 {
		t.Errorf("duplicate text included more than once:\n%s", got)
	}
	if !strings.Contains(got, "kb/a.md") {
		t.Error("dedupe should keep the higher-ranked copy")
	}
	if strings.Contains(got, "kb/b.md") {
		t.Error("lower-ranked duplicate should be dropped")
	}
	// Numbering stays contiguous after the dedupe.
	if !strings.Contains(got, "--- Source 2 (kb/c.md) ---") {
		t.Errorf("source numbering not contiguous:\n%s", got)
	}
}

func TestSources(t *testing.T) {
	got := Sources([]vectordb.ScoredChunk{
		chunk("a", "kb/a.md"),
		chunk("b", "kb/a.md"),
		chunk("c", "kb/b.md"),
	})
	if len(got) != 2 || got[0] != "kb/a.md" || got[1] != "kb/b.md" {
		t.Errorf("Sources = %v", got)
	}
}
