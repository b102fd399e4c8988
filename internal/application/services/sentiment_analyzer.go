package services

import (
	"strings"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
)

// SentimentAnalyzer scores message tone by counting occurrences of fixed
// positive and negative word lists in the normalized text.
type SentimentAnalyzer struct{}

// NewSentimentAnalyzer creates a new sentiment analyzer.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{}
}

var positiveWords = []string{
	"ótimo", "excelente", "maravilhoso", "perfeito", "adorei",
	"fantástico", "incrível", "bom", "legal", "obrigado",
}

var negativeWords = []string{
	"péssimo", "ruim", "terrível", "horrível", "problema",
	"reclamar", "insatisfeito", "decepcionado", "não gostei",
}

// Analyze returns the sentiment of normalized text. Ties, including the
// no-match case, are neutral.
func (a *SentimentAnalyzer) Analyze(normalized string) entities.Sentiment {
	var positive, negative int
	for _, word := range positiveWords {
		if strings.Contains(normalized, word) {
			positive++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(normalized, word) {
			negative++
		}
	}

	switch {
	case negative > positive:
		return entities.SentimentNegative
	case positive > negative:
		return entities.SentimentPositive
	default:
		return entities.SentimentNeutral
	}
}
