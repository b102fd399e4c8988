package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
	"github.com/villamare/concierge-nlu/internal/domain/providers"
	"github.com/villamare/concierge-nlu/internal/infrastructure/observability"
	apperrors "github.com/villamare/concierge-nlu/pkg/errors"
	"github.com/villamare/concierge-nlu/pkg/retry"
)

// ClassifierOptions tunes the intent classifier.
type ClassifierOptions struct {
	// Threshold is the minimum best similarity for a known intent; below it
	// the classifier reports unknown while keeping the raw score. Zero means
	// the default of 0.5.
	Threshold float64

	// EmbedTimeout bounds the embedding call per classification. Zero means
	// the default of 5s.
	EmbedTimeout time.Duration

	// Cache, when set, memoizes embedding vectors across classifier
	// instances. Exemplar vectors benefit the most: they are re-embedded on
	// every process start otherwise.
	Cache           providers.CacheProvider
	CacheTTLSeconds int
}

type intentExemplars struct {
	intent  entities.Intent
	vectors [][]float32
}

// IntentClassifier scores a message against precomputed per-intent exemplar
// embeddings using cosine similarity. Exemplar vectors are computed once at
// construction and are read-only afterwards, so concurrent Classify calls
// need no locking.
type IntentClassifier struct {
	embedder     providers.EmbeddingProvider
	exemplars    []intentExemplars
	threshold    float64
	embedTimeout time.Duration
	cache        providers.CacheProvider
	cacheTTL     int
}

// NewIntentClassifier embeds every exemplar phrase up front and returns a
// ready classifier. Construction fails if the exemplar set is empty or the
// embedding backend cannot serve the precomputation.
func NewIntentClassifier(ctx context.Context, embedder providers.EmbeddingProvider, set ExemplarSet, opts ClassifierOptions) (*IntentClassifier, error) {
	if embedder == nil {
		return nil, apperrors.NewValidationError("embedding provider is required")
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("exemplar set is empty")
	}

	c := &IntentClassifier{
		embedder:     embedder,
		threshold:    opts.Threshold,
		embedTimeout: opts.EmbedTimeout,
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTLSeconds,
	}
	if c.threshold == 0 {
		c.threshold = 0.5
	}
	if c.embedTimeout == 0 {
		c.embedTimeout = 5 * time.Second
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = 86400
	}

	// Fixed intent order keeps classification deterministic when scores tie.
	for _, intent := range entities.ValidIntents() {
		phrases, ok := set[intent]
		if !ok {
			continue
		}
		vectors := make([][]float32, 0, len(phrases))
		for _, phrase := range phrases {
			var vec []float32
			err := retry.Do(ctx, retry.DefaultConfig(), func() error {
				var embedErr error
				vec, embedErr = c.cachedEmbed(ctx, phrase)
				return embedErr
			})
			if err != nil {
				return nil, apperrors.NewUnavailableError(
					fmt.Sprintf("embedding exemplar %q for intent %s", phrase, intent), err)
			}
			vectors = append(vectors, vec)
		}
		c.exemplars = append(c.exemplars, intentExemplars{intent: intent, vectors: vectors})
	}

	return c, nil
}

// Classify returns the best-matching intent and its raw similarity score.
// It never returns an error: an unavailable or timed-out embedding backend
// degrades to (unknown, 0.0).
func (c *IntentClassifier) Classify(ctx context.Context, text string) (entities.Intent, float64) {
	if strings.TrimSpace(text) == "" {
		return entities.IntentUnknown, 0.0
	}

	embedCtx, cancel := context.WithTimeout(ctx, c.embedTimeout)
	defer cancel()

	textVector, err := c.cachedEmbed(embedCtx, text)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("embedding unavailable, degrading to unknown intent")
		return entities.IntentUnknown, 0.0
	}

	bestIntent := entities.IntentUnknown
	bestScore := 0.0
	for _, ie := range c.exemplars {
		for _, vec := range ie.vectors {
			score := cosineSimilarity(vec, textVector)
			if score > bestScore {
				bestScore = score
				bestIntent = ie.intent
			}
		}
	}

	if bestScore < c.threshold {
		bestIntent = entities.IntentUnknown
	}

	return bestIntent, bestScore
}

// cachedEmbed consults the byte cache before hitting the embedding backend.
// Keys include the vector dimensionality so switching models invalidates
// stale entries.
func (c *IntentClassifier) cachedEmbed(ctx context.Context, text string) ([]float32, error) {
	if c.cache == nil {
		return c.embedder.Embed(ctx, text)
	}

	key := fmt.Sprintf("nlu:embed:%d:%x", c.embedder.Dimensions(), sha256.Sum256([]byte(text)))
	if data, err := c.cache.Get(ctx, key); err == nil {
		var vec []float32
		if json.Unmarshal(data, &vec) == nil && len(vec) > 0 {
			recordEmbedCache(ctx, true)
			return vec, nil
		}
	}
	recordEmbedCache(ctx, false)

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(vec); err == nil {
		if setErr := c.cache.Set(ctx, key, data, c.cacheTTL); setErr != nil {
			log.Debug().Err(setErr).Msg("failed to cache embedding vector")
		}
	}
	return vec, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var (
	embedCacheOnce sync.Once
	cacheHitCount  metric.Int64Counter
	cacheMissCount metric.Int64Counter
)

func initEmbedCacheCounters() {
	meter := otel.Meter("github.com/villamare/concierge-nlu/intent_classifier")
	if hit, err := meter.Int64Counter(
		"nlu.embed.cache.hit.count",
		metric.WithDescription("Embedding vector cache hits"),
	); err == nil {
		cacheHitCount = hit
	}
	if miss, err := meter.Int64Counter(
		"nlu.embed.cache.miss.count",
		metric.WithDescription("Embedding vector cache misses"),
	); err == nil {
		cacheMissCount = miss
	}
}

func recordEmbedCache(ctx context.Context, hit bool) {
	embedCacheOnce.Do(initEmbedCacheCounters)
	if hit && cacheHitCount != nil {
		cacheHitCount.Add(ctx, 1)
	}
	if !hit && cacheMissCount != nil {
		cacheMissCount.Add(ctx, 1)
	}
}
