package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
	"github.com/villamare/concierge-nlu/internal/domain/providers"
)

// newTestService wires a full pipeline around the axis stub embedder and a
// fixed Monday clock. messages maps extra non-exemplar texts (already
// normalized) to the intent they should embed onto.
func newTestService(t *testing.T, messages map[string]entities.Intent) *Service {
	t.Helper()
	embedder, axes := newAxisEmbedder(DefaultExemplars())
	for text, intent := range messages {
		vec := make([]float32, embedder.dim)
		vec[axes[intent]] = 1
		embedder.vectors[text] = vec
	}
	classifier := newTestClassifier(t, embedder, ClassifierOptions{})
	return NewService(classifier, providers.FixedClock{Date: testToday})
}

func entitiesOfType(result *entities.Result, etype entities.EntityType) []entities.Entity {
	var out []entities.Entity
	for _, ent := range result.Entities {
		if ent.Type == etype {
			out = append(out, ent)
		}
	}
	return out
}

func TestProcess_ReservationMessage(t *testing.T) {
	raw := "  Preciso de um quarto com café da manhã para 2 adultos chegando amanhã  "
	svc := newTestService(t, map[string]entities.Intent{
		"preciso de um quarto com café da manhã para 2 adultos chegando amanhã": entities.IntentReservationInquiry,
	})

	result := svc.Process(context.Background(), raw)

	assert.Equal(t, entities.IntentReservationInquiry, result.Intent)
	assert.InDelta(t, 1.0, result.Confidence, 0.001)
	assert.Equal(t, entities.LanguagePortuguese, result.Language)
	assert.Equal(t, entities.SentimentNeutral, result.Sentiment)

	dates := entitiesOfType(result, entities.EntityDate)
	require.Len(t, dates, 1)
	assert.Equal(t, "2025-03-11", dates[0].Value)
	assert.Equal(t, "amanhã", raw[dates[0].Start:dates[0].End])

	adults := entitiesOfType(result, entities.EntityAdults)
	require.Len(t, adults, 1)
	assert.Equal(t, "2", adults[0].Value)
	assert.Equal(t, "2", raw[adults[0].Start:adults[0].End])

	meals := entitiesOfType(result, entities.EntityMealPlan)
	require.Len(t, meals, 1)
	assert.Equal(t, "CAFE_DA_MANHA", meals[0].Value)
	assert.Equal(t, "café da manhã", raw[meals[0].Start:meals[0].End])
}

func TestProcess_EnglishPricingMessage(t *testing.T) {
	raw := "How much is a room for 2 adults with half board"
	svc := newTestService(t, map[string]entities.Intent{
		"how much is a room for 2 adults with half board": entities.IntentPricingRequest,
	})

	result := svc.Process(context.Background(), raw)

	assert.Equal(t, entities.IntentPricingRequest, result.Intent)
	assert.Equal(t, entities.LanguageEnglish, result.Language)

	// Party-size keywords are Portuguese only, so the bare integer stays a
	// generic number.
	numbers := entitiesOfType(result, entities.EntityNumber)
	require.Len(t, numbers, 1)
	assert.Equal(t, "2", numbers[0].Value)

	meals := entitiesOfType(result, entities.EntityMealPlan)
	require.Len(t, meals, 1)
	assert.Equal(t, "MEIA_PENSAO", meals[0].Value)
}

func TestProcess_ComplaintIsNegative(t *testing.T) {
	raw := "O quarto estava péssimo, quero reclamar do problema"
	svc := newTestService(t, map[string]entities.Intent{
		"o quarto estava péssimo, quero reclamar do problema": entities.IntentComplaint,
	})

	result := svc.Process(context.Background(), raw)

	assert.Equal(t, entities.IntentComplaint, result.Intent)
	assert.Equal(t, entities.SentimentNegative, result.Sentiment)
	assert.NotNil(t, result.Entities)
	assert.Empty(t, result.Entities)
}

func TestProcess_BlankInput(t *testing.T) {
	svc := newTestService(t, nil)

	result := svc.Process(context.Background(), "   ")

	assert.Equal(t, entities.IntentUnknown, result.Intent)
	assert.Equal(t, 0.0, result.Confidence)
	assert.NotNil(t, result.Entities)
	assert.Empty(t, result.Entities)
	assert.Equal(t, entities.SentimentNeutral, result.Sentiment)
	assert.Equal(t, entities.LanguagePortuguese, result.Language)
}

// Same message, same clock, same pipeline: the two results must be identical,
// entity order included.
func TestProcess_Deterministic(t *testing.T) {
	raw := "  Preciso de um quarto com café da manhã para 2 adultos chegando amanhã  "
	svc := newTestService(t, map[string]entities.Intent{
		"preciso de um quarto com café da manhã para 2 adultos chegando amanhã": entities.IntentReservationInquiry,
	})

	first := svc.Process(context.Background(), raw)
	second := svc.Process(context.Background(), raw)
	assert.Equal(t, first, second)
}

// Extraction is rule-based and keeps working when the embedding backend is
// down; only the intent degrades.
func TestProcess_EmbedderDownStillExtracts(t *testing.T) {
	embedder, _ := newAxisEmbedder(DefaultExemplars())
	classifier := newTestClassifier(t, embedder, ClassifierOptions{})
	svc := NewService(classifier, providers.FixedClock{Date: testToday})
	embedder.setErr(assert.AnError)

	result := svc.Process(context.Background(), "quarto térreo para 3 noites a partir de sexta")

	assert.Equal(t, entities.IntentUnknown, result.Intent)
	assert.Equal(t, 0.0, result.Confidence)
	require.Len(t, entitiesOfType(result, entities.EntityDate), 1)
	require.Len(t, entitiesOfType(result, entities.EntityNights), 1)
	require.Len(t, entitiesOfType(result, entities.EntityRoomType), 1)
}

// The per-message debug line goes through the context-aware logger, so it
// carries the IDs of the span Process opened.
func TestProcess_LogLineCarriesTraceCorrelation(t *testing.T) {
	var buf bytes.Buffer
	prevLogger := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prevLogger })

	tp := sdktrace.NewTracerProvider()
	prevProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		_ = tp.Shutdown(context.Background())
	})

	svc := newTestService(t, nil)
	svc.Process(context.Background(), "olá")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "greeting", line["intent"])
	assert.NotEmpty(t, line["trace_id"])
	assert.NotEmpty(t, line["span_id"])
}

func TestNewService_NilClockDefaultsToSystemClock(t *testing.T) {
	embedder, _ := newAxisEmbedder(DefaultExemplars())
	classifier := newTestClassifier(t, embedder, ClassifierOptions{})
	svc := NewService(classifier, nil)
	require.NotNil(t, svc)

	result := svc.Process(context.Background(), "olá")
	assert.Equal(t, entities.IntentGreeting, result.Intent)
}
