package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
)

// Processor is the pipeline surface the runner drives.
type Processor interface {
	Process(ctx context.Context, text string) *entities.Result
}

// Runner runs evaluation across a set of golden utterances.
type Runner struct {
	processor Processor
}

// NewRunner creates a runner over the given pipeline.
func NewRunner(p Processor) *Runner {
	return &Runner{processor: p}
}

// Run processes every golden utterance and aggregates the outcome. Sentiment,
// language, and entity labels are optional; each average is computed only over
// utterances that carry the label. Entity precision in particular would score
// an unlabeled utterance 0 whenever the pipeline extracts something that can
// not be labeled statically (clock-dependent dates), so unlabeled utterances
// stay out of that average. Recall treats an empty expectation as perfect.
func (r *Runner) Run(ctx context.Context, utterances []GoldenUtterance) *Summary {
	summary := &Summary{
		RunID:           uuid.NewString(),
		TotalUtterances: len(utterances),
		ByIntent:        make(map[entities.Intent]*IntentSummary),
	}

	var entityLabeled, sentimentLabeled, languageLabeled int

	for _, gu := range utterances {
		start := time.Now()
		result := r.processor.Process(ctx, gu.Text)
		latency := time.Since(start)

		ur := UtteranceResult{
			UtteranceID:     gu.ID,
			Text:            gu.Text,
			ExpectedIntent:  gu.Intent,
			DetectedIntent:  result.Intent,
			IntentCorrect:   result.Intent == gu.Intent,
			Confidence:      result.Confidence,
			EntityPrecision: EntityPrecision(gu.Entities, result.Entities),
			EntityRecall:    EntityRecall(gu.Entities, result.Entities),
			Latency:         latency,
		}

		if len(gu.Entities) > 0 {
			entityLabeled++
			summary.AvgEntityPrecision += ur.EntityPrecision
		}
		if gu.Sentiment != "" {
			sentimentLabeled++
			if result.Sentiment == gu.Sentiment {
				ur.SentimentCorrect = true
				summary.SentimentAccuracy++
			}
		}
		if gu.Language != "" {
			languageLabeled++
			if result.Language == gu.Language {
				ur.LanguageCorrect = true
				summary.LanguageAccuracy++
			}
		}

		r.updateSummary(summary, ur)
	}

	r.finalizeSummary(summary, entityLabeled, sentimentLabeled, languageLabeled)
	return summary
}

func (r *Runner) updateSummary(s *Summary, res UtteranceResult) {
	if res.IntentCorrect {
		s.IntentAccuracy++
	}
	s.AvgEntityRecall += res.EntityRecall
	s.AvgLatency += res.Latency

	bucket, ok := s.ByIntent[res.ExpectedIntent]
	if !ok {
		bucket = &IntentSummary{}
		s.ByIntent[res.ExpectedIntent] = bucket
	}
	bucket.Count++
	bucket.AvgConfidence += res.Confidence
	if res.IntentCorrect {
		bucket.IntentAccuracy++
	}
}

func (r *Runner) finalizeSummary(s *Summary, entityLabeled, sentimentLabeled, languageLabeled int) {
	if s.TotalUtterances > 0 {
		n := float64(s.TotalUtterances)
		s.IntentAccuracy /= n
		s.AvgEntityRecall /= n
		s.AvgLatency /= time.Duration(s.TotalUtterances)
	}
	if entityLabeled > 0 {
		s.AvgEntityPrecision /= float64(entityLabeled)
	}
	if sentimentLabeled > 0 {
		s.SentimentAccuracy /= float64(sentimentLabeled)
	}
	if languageLabeled > 0 {
		s.LanguageAccuracy /= float64(languageLabeled)
	}
	for _, bucket := range s.ByIntent {
		if bucket.Count > 0 {
			bucket.IntentAccuracy /= float64(bucket.Count)
			bucket.AvgConfidence /= float64(bucket.Count)
		}
	}
}
