package embeddings

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemFunc adapts an Embedder to chromem-go's per-text embedding callback.
// Ingest attaches precomputed vectors to every document, so chromem falls
// back to this only for chunks added without one.
func ChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vectors, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, fmt.Errorf("chromem embedding callback: %w", err)
		}
		if len(vectors) == 0 || len(vectors[0]) == 0 {
			return nil, fmt.Errorf("embedder %s produced no vector", e.Name())
		}
		return vectors[0], nil
	}
}
