package vectordb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/kwhalen/escalation-helper/internal/embeddings"
)

const collectionName = "escalation_docs"

// ErrIndexEmpty is returned by Query when no chunks have been loaded.
var ErrIndexEmpty = errors.New("vectordb: index is empty, run `eschelp ingest` first")

// Index stores (chunk, vector) pairs and answers k-nearest-neighbor queries
// by cosine distance. Reads are safe to interleave; Upsert takes an exclusive
// lock so concurrent queries observe either the old or the new state, never a
// partially applied batch.
type Index struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
	nextSeq    int
}

// NewIndex creates a new in-memory Index. The embedder is used only for
// chunks upserted without a precomputed embedding.
func NewIndex(embedder embeddings.Embedder) (*Index, error) {
	db := chromem.NewDB()
	ef := embeddings.ChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

// Upsert adds chunks to the index, replacing any existing entry with the same
// ID. Replaced chunks keep their original insertion sequence so that tie-break
// ordering stays reproducible across re-ingests.
func (ix *Index) Upsert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		seq := ix.nextSeq
		if existing, err := ix.collection.GetByID(ctx, c.ID); err == nil {
			if prev, perr := strconv.Atoi(existing.Metadata["seq"]); perr == nil {
				seq = prev
			}
		} else {
			ix.nextSeq++
		}

		docs[i] = chromem.Document{
			ID:        c.ID,
			Content:   c.Text,
			Embedding: c.Embedding,
			Metadata: map[string]string{
				"source": c.Source,
				"seq":    strconv.Itoa(seq),
			},
		}
	}

	return ix.collection.AddDocuments(ctx, docs, 1)
}

// Query returns up to k chunks ordered by ascending cosine distance to the
// query vector. Ties are broken by insertion order. Returns ErrIndexEmpty
// when no chunks are loaded.
func (ix *Index) Query(ctx context.Context, vector []float32, k int) ([]ScoredChunk, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	count := ix.collection.Count()
	if count == 0 {
		return nil, ErrIndexEmpty
	}
	if k <= 0 {
		k = 10
	}
	if k > count {
		k = count
	}

	results, err := ix.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	scored := make([]ScoredChunk, len(results))
	seqs := make([]int, len(results))
	for i, r := range results {
		scored[i] = ScoredChunk{
			Chunk: Chunk{
				ID:        r.ID,
				Text:      r.Content,
				Source:    r.Metadata["source"],
				Embedding: r.Embedding,
			},
			Distance: 1 - float64(r.Similarity),
		}
		seqs[i], _ = strconv.Atoi(r.Metadata["seq"])
	}

	// chromem orders by similarity but makes no promise about equal scores.
	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Distance != scored[b].Distance {
			return scored[a].Distance < scored[b].Distance
		}
		return seqs[a] < seqs[b]
	})

	return scored, nil
}

// Count returns the number of chunks in the index.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.collection.Count()
}

// Reset drops every chunk so a full re-ingest starts from a clean collection.
func (ix *Index) Reset(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	col, err := ix.db.GetOrCreateCollection(collectionName, nil, ix.embedFunc)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	ix.collection = col
	ix.nextSeq = 0
	return nil
}

// Persist saves the index to the given directory.
func (ix *Index) Persist(ctx context.Context, dir string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	return ix.db.ExportToFile(dir+"/chromem.gob.gz", true, "")
}

// Load restores the index from the given directory.
func (ix *Index) Load(ctx context.Context, dir string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	err := ix.db.ImportFromFile(dir+"/chromem.gob.gz", "")
	if err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := ix.db.GetCollection(collectionName, ix.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	ix.collection = col

	// Continue sequence numbering after the highest imported seq.
	ix.nextSeq = ix.collection.Count()
	return nil
}
