// Package retrieval runs the query-time pipeline: embed the query, over-fetch
// nearest chunks, optionally rerank them, and return the top results.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/kwhalen/escalation-helper/internal/config"
	"github.com/kwhalen/escalation-helper/internal/embeddings"
	"github.com/kwhalen/escalation-helper/internal/rerank"
	"github.com/kwhalen/escalation-helper/internal/vectordb"
)

// preFilterMargin widens the distance threshold for the candidate stage so
// the ranking step sees near-miss candidates, capped so plainly unrelated
// chunks never survive it.
const (
	preFilterMargin = 0.10
	preFilterCap    = 0.60
)

// Pipeline retrieves the chunks most relevant to a query. The reranker is
// optional; without one results are ordered by embedding distance alone.
type Pipeline struct {
	embedder embeddings.Embedder
	index    *vectordb.Index
	reranker rerank.Reranker
	cfg      config.SearchConfig
}

// NewPipeline creates a retrieval pipeline. Pass a nil reranker to disable
// reranking regardless of configuration.
func NewPipeline(embedder embeddings.Embedder, index *vectordb.Index, reranker rerank.Reranker, cfg config.SearchConfig) *Pipeline {
	return &Pipeline{
		embedder: embedder,
		index:    index,
		reranker: reranker,
		cfg:      cfg,
	}
}

// Retrieve returns up to ReturnK chunks for the query, best first. Candidates
// beyond the relaxed pre-filter cutoff are dropped before ranking, and the
// final slice keeps only chunks within DistanceThreshold. The result is empty
// (not an error) when the index has no chunks or every candidate was filtered,
// so callers can treat both as a low-confidence retrieval rather than a fault.
func (p *Pipeline) Retrieve(ctx context.Context, query string) ([]vectordb.ScoredChunk, error) {
	if p.cfg.RequestTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.cfg.RequestTimeoutSeconds)*time.Second)
		defer cancel()
	}

	vector, err := embeddings.EmbedQuery(ctx, p.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	candidates, err := p.index.Query(ctx, vector, p.cfg.RetrieveK)
	if err != nil {
		if errors.Is(err, vectordb.ErrIndexEmpty) {
			return nil, nil
		}
		return nil, fmt.Errorf("index query failed: %w", err)
	}

	candidates = p.preFilter(candidates)
	if len(candidates) == 0 {
		return nil, nil
	}

	if p.cfg.RerankEnabled && p.reranker != nil {
		candidates = p.rerankCandidates(ctx, query, candidates)
	}

	if len(candidates) > p.cfg.ReturnK {
		candidates = candidates[:p.cfg.ReturnK]
	}

	// Strict cut after ranking: only chunks within the confidence threshold
	// make it into the answer context.
	final := candidates[:0]
	for _, c := range candidates {
		if c.Distance <= p.cfg.DistanceThreshold {
			final = append(final, c)
		}
	}
	return final, nil
}

// preFilter drops candidates beyond the relaxed distance cutoff. The margin
// leaves near-misses for the reranker to judge; the cap keeps unrelated chunks
// out no matter how loose the threshold is tuned.
func (p *Pipeline) preFilter(candidates []vectordb.ScoredChunk) []vectordb.ScoredChunk {
	cutoff := p.cfg.DistanceThreshold + preFilterMargin
	if cutoff > preFilterCap {
		cutoff = preFilterCap
	}

	kept := candidates[:0]
	for _, c := range candidates {
		if c.Distance <= cutoff {
			kept = append(kept, c)
		}
	}
	return kept
}

// rerankCandidates scores the candidates and reorders by score. Any reranker
// failure degrades to the distance ordering.
func (p *Pipeline) rerankCandidates(ctx context.Context, query string, candidates []vectordb.ScoredChunk) []vectordb.ScoredChunk {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Chunk.Text
	}

	scores, err := p.reranker.Score(ctx, query, texts)
	if err != nil {
		log.Printf("reranker %s failed, falling back to distance order: %v", p.reranker.Name(), err)
		return candidates
	}

	for i := range candidates {
		candidates[i].RerankScore = scores[i]
		candidates[i].Reranked = true
	}

	// Highest score first; embedding distance breaks ties deterministically.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].RerankScore != candidates[j].RerankScore {
			return candidates[i].RerankScore > candidates[j].RerankScore
		}
		return candidates[i].Distance < candidates[j].Distance
	})
	return candidates
}
