package services

import (
	"strings"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
)

// LanguageDetector guesses the message language by counting connector words.
// It never fails; Portuguese is the default for empty or ambiguous input.
type LanguageDetector struct{}

// NewLanguageDetector creates a new language detector.
func NewLanguageDetector() *LanguageDetector {
	return &LanguageDetector{}
}

var (
	ptConnectors = wordSet("de", "para", "com", "em", "por", "que", "não")
	enConnectors = wordSet("the", "is", "at", "for", "with", "and", "not")
	esConnectors = wordSet("el", "la", "para", "con", "por", "que", "no")
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Detect returns the language of normalized text. English must beat both
// Portuguese and Spanish to win; Spanish only has to beat Portuguese. The
// asymmetry is intentional and matches the production tie-break policy.
func (d *LanguageDetector) Detect(normalized string) entities.Language {
	var ptCount, enCount, esCount int
	for _, word := range strings.Fields(normalized) {
		if _, ok := ptConnectors[word]; ok {
			ptCount++
		}
		if _, ok := enConnectors[word]; ok {
			enCount++
		}
		if _, ok := esConnectors[word]; ok {
			esCount++
		}
	}

	switch {
	case enCount > ptCount && enCount > esCount:
		return entities.LanguageEnglish
	case esCount > ptCount:
		return entities.LanguageSpanish
	default:
		return entities.LanguagePortuguese
	}
}
