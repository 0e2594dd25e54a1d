package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// MaxQueryChars bounds the length of a single query text. Queries beyond this
// are almost certainly pasted documents, not questions.
const MaxQueryChars = 8000

var (
	// ErrEmptyText is returned when the text to embed is empty or whitespace.
	ErrEmptyText = errors.New("embeddings: text is empty")

	// ErrTextTooLong is returned when the text exceeds MaxQueryChars.
	ErrTextTooLong = errors.New("embeddings: text exceeds length limit")
)

// EmbedQuery validates and embeds a single query text. Callers must supply
// non-empty text; validation failures and upstream failures both surface as
// errors so the conversation layer can show a generic "could not process"
// message.
func EmbedQuery(ctx context.Context, e Embedder, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if len(text) > MaxQueryChars {
		return nil, fmt.Errorf("%w: %d chars (max %d)", ErrTextTooLong, len(text), MaxQueryChars)
	}

	results, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(results) == 0 || len(results[0]) == 0 {
		return nil, fmt.Errorf("embedder %s returned no vector", e.Name())
	}
	return results[0], nil
}
