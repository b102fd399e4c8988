package providers

import (
	"context"
	"errors"
)

// ErrEmbeddingUnavailable signals that the embedding backend cannot serve
// requests right now (network failure, open circuit, missing credentials).
// The intent classifier degrades to an unknown intent when it sees this.
var ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

// EmbeddingProvider produces a fixed-dimension multilingual sentence embedding
// for a piece of text. Implementations must be deterministic for a given input
// and safe for concurrent use.
type EmbeddingProvider interface {
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the length of the vectors Embed produces.
	Dimensions() int
}
