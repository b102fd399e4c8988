package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
)

// NumericEntityExtractor classifies every integer in the message by sniffing
// the surrounding context window for party-size and stay-length keywords.
type NumericEntityExtractor struct{}

// NewNumericEntityExtractor creates a new numeric entity extractor.
func NewNumericEntityExtractor() *NumericEntityExtractor {
	return &NumericEntityExtractor{}
}

var integerPattern = regexp.MustCompile(`\b(\d+)\b`)

// contextWindow is how many characters around an integer are inspected for
// classification keywords. Counted in runes: accented Portuguese keywords
// ("hóspede", "diária", "criança") must not shrink the effective window.
const contextWindow = 20

var (
	adultKeywords = []string{"adulto", "pessoa", "pax", "hóspede"}
	childKeywords = []string{"criança", "filho", "kid"}
	nightKeywords = []string{"noite", "diária", "night"}
)

const numericConfidence = 0.8

// Extract returns one entity per integer occurrence in normalized text,
// repeats included. Classification precedence is adults, children, nights,
// then generic number. Offsets are relative to the text passed in.
func (e *NumericEntityExtractor) Extract(normalized string) []entities.Entity {
	var found []entities.Entity

	for _, idx := range integerPattern.FindAllStringIndex(normalized, -1) {
		start, end := idx[0], idx[1]

		windowStart := start
		for i := 0; i < contextWindow && windowStart > 0; i++ {
			_, size := utf8.DecodeLastRuneInString(normalized[:windowStart])
			windowStart -= size
		}
		windowEnd := end
		for i := 0; i < contextWindow && windowEnd < len(normalized); i++ {
			_, size := utf8.DecodeRuneInString(normalized[windowEnd:])
			windowEnd += size
		}
		context := normalized[windowStart:windowEnd]

		entityType := entities.EntityNumber
		switch {
		case containsAny(context, adultKeywords):
			entityType = entities.EntityAdults
		case containsAny(context, childKeywords):
			entityType = entities.EntityChildren
		case containsAny(context, nightKeywords):
			entityType = entities.EntityNights
		}

		value, err := strconv.Atoi(normalized[start:end])
		if err != nil {
			continue
		}

		found = append(found, entities.Entity{
			Type:       entityType,
			Value:      strconv.Itoa(value),
			Confidence: numericConfidence,
			Start:      start,
			End:        end,
		})
	}

	return found
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
