// Package assemble turns retrieved chunks into the context block handed to
// the answer generator.
package assemble

import (
	"fmt"
	"strings"

	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

// Assemble concatenates chunk texts in rank order, each prefixed with a
// numbered source tag, staying within maxChars. Chunks are included whole or
// not at all; a chunk that would overflow the budget is skipped along with
// everything after it. Chunks with identical text are deduplicated, keeping
// the highest-ranked copy. maxChars <= 0 means no limit.
func Assemble(chunks []vectordb.ScoredChunk, maxChars int) string {
	if len(chunks) == 0 {
		return ""
	}

	var sb strings.Builder
	seen := make(map[string]bool, len(chunks))
	n := 0
	for _, c := range chunks {
		if seen[c.Chunk.Text] {
			continue
		}

		section := fmt.Sprintf("--- Source %d (%s) ---\n%s", n+1, c.Chunk.Source, c.Chunk.Text)
		if sb.Len() > 0 {
			section = "\n\n" + section
		}
		if maxChars > 0 && sb.Len()+len(section) > maxChars {
			break
		}

		seen[c.Chunk.Text] = true
		sb.WriteString(section)
		n++
	}
	return sb.String()
}

// Sources lists the distinct source paths of the given chunks in rank order,
// for display under an answer.
func Sources(chunks []vectordb.ScoredChunk) []string {
	var out []string
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		if seen[c.Chunk.Source] {
			continue
		}
		seen[c.Chunk.Source] = true
		out = append(out, c.Chunk.Source)
	}
	return out
}
