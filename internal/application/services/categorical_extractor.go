package services

import (
	"regexp"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
)

// CategoricalExtractor matches room type and meal plan phrases against fixed
// pt/en synonym tables. Multiple matches may occur; picking a winner among
// them is left to the caller.
type CategoricalExtractor struct{}

// NewCategoricalExtractor creates a new categorical extractor.
func NewCategoricalExtractor() *CategoricalExtractor {
	return &CategoricalExtractor{}
}

type categoryPattern struct {
	re    *regexp.Regexp
	etype entities.EntityType
	code  string
}

// Phrases ending in an accented letter omit the trailing \b (ASCII-only word
// boundaries in RE2).
var categoryPatterns = []categoryPattern{
	{regexp.MustCompile(`\b(?:térreo|terreo)\b`), entities.EntityRoomType, "TERREO"},
	{regexp.MustCompile(`\bsuperior\b`), entities.EntityRoomType, "SUPERIOR"},
	{regexp.MustCompile(`\b(?:suíte|suite)\b`), entities.EntityRoomType, "SUITE"},

	{regexp.MustCompile(`\b(?:café da manhã|apenas café|only breakfast\b)`), entities.EntityMealPlan, "CAFE_DA_MANHA"},
	{regexp.MustCompile(`\b(?:meia pensão|half board\b)`), entities.EntityMealPlan, "MEIA_PENSAO"},
	{regexp.MustCompile(`\b(?:pensão completa|full board|all inclusive)\b`), entities.EntityMealPlan, "PENSAO_COMPLETA"},
}

const categoricalConfidence = 0.9

// Extract returns room type and meal plan entities found in normalized text.
// Offsets are relative to the text passed in.
func (e *CategoricalExtractor) Extract(normalized string) []entities.Entity {
	var found []entities.Entity

	for _, p := range categoryPatterns {
		for _, idx := range p.re.FindAllStringIndex(normalized, -1) {
			found = append(found, entities.Entity{
				Type:       p.etype,
				Value:      p.code,
				Confidence: categoricalConfidence,
				Start:      idx[0],
				End:        idx[1],
			})
		}
	}

	return found
}
