package services

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
	"github.com/villamare/concierge-nlu/internal/domain/providers"
	"github.com/villamare/concierge-nlu/internal/infrastructure/observability"
)

const dateConfidence = 0.9

// Service is the NLU pipeline orchestrator: it sequences normalization,
// language detection, intent classification, entity extraction, and sentiment
// analysis into a single Result per message. It holds no mutable state, so
// one instance serves concurrent callers.
type Service struct {
	classifier *IntentClassifier
	language   *LanguageDetector
	dates      *DateExtractor
	numbers    *NumericEntityExtractor
	categories *CategoricalExtractor
	sentiment  *SentimentAnalyzer
}

// NewService wires the pipeline stages around an already-constructed
// classifier and a reference clock.
func NewService(classifier *IntentClassifier, clock providers.Clock) *Service {
	if clock == nil {
		clock = providers.SystemClock{}
	}
	return &Service{
		classifier: classifier,
		language:   NewLanguageDetector(),
		dates:      NewDateExtractor(clock),
		numbers:    NewNumericEntityExtractor(),
		categories: NewCategoricalExtractor(),
		sentiment:  NewSentimentAnalyzer(),
	}
}

// Process interprets one guest message. It never fails: malformed fragments
// are dropped and an unavailable embedding backend degrades the intent to
// unknown. Messages are independent; no conversation history is consulted.
func (s *Service) Process(ctx context.Context, text string) *entities.Result {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "nlu.process")
	defer span.End()

	normalized, offset := NormalizeText(text)

	language := s.language.Detect(normalized)
	intent, confidence := s.classifier.Classify(ctx, normalized)

	extracted := make([]entities.Entity, 0)
	for _, m := range s.dates.ExtractDates(normalized) {
		extracted = append(extracted, entities.Entity{
			Type:       entities.EntityDate,
			Value:      m.Date.Format("2006-01-02"),
			Confidence: dateConfidence,
			Start:      m.Start + offset,
			End:        m.End + offset,
		})
	}
	for _, ent := range s.numbers.Extract(normalized) {
		ent.Start += offset
		ent.End += offset
		extracted = append(extracted, ent)
	}
	for _, ent := range s.categories.Extract(normalized) {
		ent.Start += offset
		ent.End += offset
		extracted = append(extracted, ent)
	}

	sentiment := s.sentiment.Analyze(normalized)

	result := &entities.Result{
		Intent:     intent,
		Confidence: confidence,
		Entities:   extracted,
		Sentiment:  sentiment,
		Language:   language,
	}

	span.SetAttributes(
		attribute.String("nlu.intent", string(result.Intent)),
		attribute.Float64("nlu.confidence", result.Confidence),
		attribute.Int("nlu.entities", len(result.Entities)),
	)
	recordProcessMetrics(ctx, result, time.Since(start))
	observability.LoggerFromContext(ctx).Debug().
		Str("intent", string(result.Intent)).
		Float64("confidence", result.Confidence).
		Int("entities", len(result.Entities)).
		Str("sentiment", string(result.Sentiment)).
		Str("language", string(result.Language)).
		Msg("message processed")

	return result
}

var (
	processMetricsOnce sync.Once
	intentCount        metric.Int64Counter
	processDuration    metric.Float64Histogram
)

func initProcessMetrics() {
	meter := otel.Meter("github.com/villamare/concierge-nlu/nlu_service")
	if counter, err := meter.Int64Counter(
		"nlu.intent.count",
		metric.WithDescription("Messages processed, by detected intent"),
	); err == nil {
		intentCount = counter
	}
	if hist, err := meter.Float64Histogram(
		"nlu.process.duration",
		metric.WithDescription("End-to-end pipeline duration in milliseconds"),
		metric.WithUnit("ms"),
	); err == nil {
		processDuration = hist
	}
}

func recordProcessMetrics(ctx context.Context, result *entities.Result, duration time.Duration) {
	processMetricsOnce.Do(initProcessMetrics)
	attrs := metric.WithAttributes(
		attribute.String("nlu.intent", string(result.Intent)),
		attribute.String("nlu.language", string(result.Language)),
	)
	if intentCount != nil {
		intentCount.Add(ctx, 1, attrs)
	}
	if processDuration != nil {
		processDuration.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	}
}
