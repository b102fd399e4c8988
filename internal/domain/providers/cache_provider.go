// Package providers declares the external capabilities the NLU pipeline
// consumes: embeddings, caching, and the reference clock.
package providers

import "context"

// CacheProvider is the byte-level cache used to memoize embedding vectors
// across pipeline instances.
type CacheProvider interface {
	// Get retrieves a value from cache.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration.
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache.
	Exists(ctx context.Context, key string) (bool, error)
}
