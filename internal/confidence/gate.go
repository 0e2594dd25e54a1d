// Package confidence decides whether retrieval results are strong enough to
// answer from directly, or whether the dialog layer should ask the user to
// clarify first.
package confidence

import "github.com/kwhalen/escalation-helper/internal/vectordb"

// Level classifies the pipeline's certainty about a result set.
type Level string

const (
	Sufficient   Level = "sufficient"
	Insufficient Level = "insufficient"
)

// DefaultDistanceThreshold is the cosine distance cutoff, tuned empirically
// against a 60% similarity floor.
const DefaultDistanceThreshold = 0.40

// Classify compares the strongest cosine distance in the result set against
// the threshold. Reranked results arrive ordered by score rather than
// distance, so the whole set is scanned instead of trusting rank 0. An empty
// result set is always Insufficient. Pure function, no side effects.
func Classify(chunks []vectordb.ScoredChunk, threshold float64) Level {
	if len(chunks) == 0 {
		return Insufficient
	}
	best := chunks[0].Distance
	for _, c := range chunks[1:] {
		if c.Distance < best {
			best = c.Distance
		}
	}
	if best < threshold {
		return Sufficient
	}
	return Insufficient
}
