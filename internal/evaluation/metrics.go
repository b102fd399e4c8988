package evaluation

import "github.com/villamare/concierge-nlu/internal/domain/entities"

// EntityPrecision computes the fraction of extracted entities that appear in
// the expected set, matched on type and value. Returns 1.0 when nothing was
// extracted and nothing was expected, 0.0 when entities were extracted
// against an empty expectation.
func EntityPrecision(expected []ExpectedEntity, extracted []entities.Entity) float64 {
	if len(extracted) == 0 {
		if len(expected) == 0 {
			return 1.0
		}
		return 0.0
	}

	expectedSet := expectedKeySet(expected)
	found := 0
	for _, e := range extracted {
		if _, ok := expectedSet[entityKey(string(e.Type), e.Value)]; ok {
			found++
		}
	}
	return float64(found) / float64(len(extracted))
}

// EntityRecall computes the fraction of expected entities found among the
// extracted ones, matched on type and value. Returns 1.0 when nothing was
// expected.
func EntityRecall(expected []ExpectedEntity, extracted []entities.Entity) float64 {
	if len(expected) == 0 {
		return 1.0
	}

	extractedSet := make(map[string]struct{}, len(extracted))
	for _, e := range extracted {
		extractedSet[entityKey(string(e.Type), e.Value)] = struct{}{}
	}

	found := 0
	for _, e := range expected {
		if _, ok := extractedSet[entityKey(string(e.Type), e.Value)]; ok {
			found++
		}
	}
	return float64(found) / float64(len(expected))
}

func expectedKeySet(expected []ExpectedEntity) map[string]struct{} {
	set := make(map[string]struct{}, len(expected))
	for _, e := range expected {
		set[entityKey(string(e.Type), e.Value)] = struct{}{}
	}
	return set
}

func entityKey(entityType, value string) string {
	return entityType + "\x00" + value
}
