// Package evaluation measures pipeline quality against a labeled set of
// guest messages.
package evaluation

import (
	"time"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
)

// ExpectedEntity is an entity the pipeline must surface for a golden
// utterance, matched on type and value (spans are not part of the label).
type ExpectedEntity struct {
	Type  entities.EntityType `json:"type"`
	Value string              `json:"value"`
}

// GoldenUtterance is a labeled guest message with expected pipeline output.
type GoldenUtterance struct {
	ID         string             `json:"id"`
	Text       string             `json:"text"`
	Intent     entities.Intent    `json:"intent"`
	Entities   []ExpectedEntity   `json:"entities,omitempty"`
	Sentiment  entities.Sentiment `json:"sentiment,omitempty"`
	Language   entities.Language  `json:"language,omitempty"`
	Difficulty string             `json:"difficulty"` // easy, medium, hard
}

// UtteranceResult holds the evaluation outcome for a single utterance.
type UtteranceResult struct {
	UtteranceID      string
	Text             string
	ExpectedIntent   entities.Intent
	DetectedIntent   entities.Intent
	IntentCorrect    bool
	Confidence       float64
	EntityPrecision  float64
	EntityRecall     float64
	SentimentCorrect bool
	LanguageCorrect  bool
	Latency          time.Duration
}

// Summary holds aggregate metrics across all golden utterances.
// AvgEntityPrecision is averaged only over utterances that declare entity
// labels; sentiment and language accuracy likewise cover only labeled
// utterances.
type Summary struct {
	RunID              string
	TotalUtterances    int
	IntentAccuracy     float64
	AvgEntityPrecision float64
	AvgEntityRecall    float64
	SentimentAccuracy  float64
	LanguageAccuracy   float64
	AvgLatency         time.Duration
	ByIntent           map[entities.Intent]*IntentSummary
}

// IntentSummary holds metrics grouped by expected intent.
type IntentSummary struct {
	Count          int
	IntentAccuracy float64
	AvgConfidence  float64
}
