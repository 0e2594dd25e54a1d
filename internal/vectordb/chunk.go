package vectordb

// Chunk is an immutable unit of retrievable knowledge-base text. Chunks are
// created during ingestion and replaced only by a full re-ingest.
type Chunk struct {
	ID        string
	Text      string
	Source    string // originating document path
	Embedding []float32
}

// ScoredChunk pairs a Chunk with per-query measurements. It lives only for
// the duration of one query.
type ScoredChunk struct {
	Chunk Chunk

	// Distance is the cosine distance between the query and chunk embeddings,
	// in [0, 2] where 0 means identical.
	Distance float64

	// RerankScore is the cross-encoder relevance score; higher is more
	// relevant. Only meaningful when Reranked is true.
	RerankScore float64
	Reranked    bool
}

// SimilarityPct converts the cosine distance to a human-readable similarity
// percentage.
func (s ScoredChunk) SimilarityPct() float64 {
	return (1 - s.Distance) * 100
}

// RelevanceLabel bands a cosine distance into a coarse relevance category
// for display next to sources.
func (s ScoredChunk) RelevanceLabel() string {
	switch {
	case s.Distance < 0.20:
		return "Excellent"
	case s.Distance < 0.35:
		return "Good"
	case s.Distance < 0.50:
		return "Fair"
	default:
		return "Weak"
	}
}
