// Package ingest builds the vector index from a directory of markdown
// knowledge-base articles.
package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/kwhalen/escalation-helper/internal/config"
	"github.com/kwhalen/escalation-helper/internal/embeddings"
	"github.com/kwhalen/escalation-helper/internal/progress"
	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Documents int
	Chunks    int
}

// Ingester walks a document tree, splits each document into chunks, embeds
// them, and upserts them into the index.
type Ingester struct {
	embedder embeddings.Embedder
	index    *vectordb.Index
	cfg      config.IngestConfig
	reporter progress.Reporter
}

// NewIngester creates an Ingester. A nil reporter disables progress output.
func NewIngester(embedder embeddings.Embedder, index *vectordb.Index, cfg config.IngestConfig, reporter progress.Reporter) *Ingester {
	if reporter == nil {
		reporter = progress.NullReporter{}
	}
	return &Ingester{
		embedder: embedder,
		index:    index,
		cfg:      cfg,
		reporter: reporter,
	}
}

// Run ingests every matching document under root. Chunk IDs derive from the
// document's relative path, so re-running over the same tree replaces chunks
// in place instead of accumulating duplicates.
func (g *Ingester) Run(ctx context.Context, root string) (Stats, error) {
	var stats Stats

	docs, err := WalkDocs(root, g.cfg.Include, g.cfg.Exclude)
	if err != nil {
		return stats, fmt.Errorf("walk %s: %w", root, err)
	}
	if len(docs) == 0 {
		return stats, fmt.Errorf("no documents matched under %s", root)
	}

	g.reporter.Start(len(docs))
	defer g.reporter.Finish()

	for i, doc := range docs {
		g.reporter.Update(i+1, doc.RelPath)

		n, err := g.ingestDoc(ctx, doc)
		if err != nil {
			return stats, fmt.Errorf("ingest %s: %w", doc.RelPath, err)
		}
		stats.Documents++
		stats.Chunks += n
	}
	return stats, nil
}

func (g *Ingester) ingestDoc(ctx context.Context, doc Document) (int, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}

	var texts []string
	for _, section := range SplitSections(data) {
		texts = append(texts, ChunkText(section.Text, g.cfg.ChunkSize, g.cfg.ChunkOverlap)...)
	}
	if len(texts) == 0 {
		return 0, nil
	}

	vectors, err := g.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(texts))
	}

	chunks := make([]vectordb.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = vectordb.Chunk{
			ID:        fmt.Sprintf("%s#%d", doc.RelPath, i),
			Text:      text,
			Source:    doc.RelPath,
			Embedding: vectors[i],
		}
	}
	if err := g.index.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("upsert: %w", err)
	}
	return len(chunks), nil
}
