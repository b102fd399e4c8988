package evaluation

import "fmt"

// GuardrailConfig sets the minimum quality bar a pipeline build must clear.
type GuardrailConfig struct {
	MinIntentAccuracy    float64
	MinEntityRecall      float64
	MinSentimentAccuracy float64
}

// DefaultGuardrailConfig returns the release-gating thresholds.
func DefaultGuardrailConfig() GuardrailConfig {
	return GuardrailConfig{
		MinIntentAccuracy:    0.8,
		MinEntityRecall:      0.8,
		MinSentimentAccuracy: 0.9,
	}
}

// Guardrails checks an evaluation summary against configured thresholds.
type Guardrails struct {
	config GuardrailConfig
}

// NewGuardrails creates guardrails with the given thresholds.
func NewGuardrails(config GuardrailConfig) *Guardrails {
	return &Guardrails{config: config}
}

// Check returns the list of violated thresholds; an empty slice means the
// summary passes.
func (g *Guardrails) Check(summary *Summary) []string {
	var violations []string

	if summary.IntentAccuracy < g.config.MinIntentAccuracy {
		violations = append(violations, fmt.Sprintf(
			"intent accuracy %.3f below minimum %.3f",
			summary.IntentAccuracy, g.config.MinIntentAccuracy))
	}
	if summary.AvgEntityRecall < g.config.MinEntityRecall {
		violations = append(violations, fmt.Sprintf(
			"entity recall %.3f below minimum %.3f",
			summary.AvgEntityRecall, g.config.MinEntityRecall))
	}
	if summary.SentimentAccuracy < g.config.MinSentimentAccuracy {
		violations = append(violations, fmt.Sprintf(
			"sentiment accuracy %.3f below minimum %.3f",
			summary.SentimentAccuracy, g.config.MinSentimentAccuracy))
	}

	return violations
}
