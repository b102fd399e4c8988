package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villamare/concierge-nlu/internal/domain/entities"
)

func TestNumericExtract_Adults(t *testing.T) {
	e := NewNumericEntityExtractor()
	found := e.Extract("quarto para 2 adultos")
	require.Len(t, found, 1)
	assert.Equal(t, entities.EntityAdults, found[0].Type)
	assert.Equal(t, "2", found[0].Value)
	assert.Equal(t, 12, found[0].Start)
	assert.Equal(t, 13, found[0].End)
	assert.Equal(t, 0.8, found[0].Confidence)
}

// "crianças" contains "criança", so the plural classifies too.
func TestNumericExtract_Children(t *testing.T) {
	e := NewNumericEntityExtractor()
	found := e.Extract("com 3 crianças")
	require.Len(t, found, 1)
	assert.Equal(t, entities.EntityChildren, found[0].Type)
	assert.Equal(t, "3", found[0].Value)
}

func TestNumericExtract_Nights(t *testing.T) {
	e := NewNumericEntityExtractor()
	found := e.Extract("ficar 5 noites")
	require.Len(t, found, 1)
	assert.Equal(t, entities.EntityNights, found[0].Type)
	assert.Equal(t, "5", found[0].Value)
}

func TestNumericExtract_GenericNumber(t *testing.T) {
	e := NewNumericEntityExtractor()
	found := e.Extract("o valor era 450")
	require.Len(t, found, 1)
	assert.Equal(t, entities.EntityNumber, found[0].Type)
	assert.Equal(t, "450", found[0].Value)
}

// Classification precedence: adult keywords win over child and night keywords
// when both land in the same window.
func TestNumericExtract_AdultsWinPrecedence(t *testing.T) {
	e := NewNumericEntityExtractor()
	found := e.Extract("2 adultos e criança")
	require.Len(t, found, 1)
	assert.Equal(t, entities.EntityAdults, found[0].Type)
}

func TestNumericExtract_KeywordOutsideWindowIgnored(t *testing.T) {
	e := NewNumericEntityExtractor()
	// "noites" sits more than 20 bytes after the integer.
	found := e.Extract("2 xxxxxxxxxxxxxxxxxxxxxxxxxxxxxx noites")
	require.Len(t, found, 1)
	assert.Equal(t, entities.EntityNumber, found[0].Type)
}

func TestNumericExtract_RepeatsKept(t *testing.T) {
	e := NewNumericEntityExtractor()
	found := e.Extract("2 adultos e 2 crianças")
	require.Len(t, found, 2)
	assert.Equal(t, entities.EntityAdults, found[0].Type)
	assert.Equal(t, entities.EntityChildren, found[1].Type)
	assert.Equal(t, "2", found[0].Value)
	assert.Equal(t, "2", found[1].Value)
	assert.NotEqual(t, found[0].Start, found[1].Start)
}

func TestNumericExtract_LeadingZerosNormalized(t *testing.T) {
	e := NewNumericEntityExtractor()
	found := e.Extract("03 adultos")
	require.Len(t, found, 1)
	assert.Equal(t, "3", found[0].Value)

	found = e.Extract("quantidade 0")
	require.Len(t, found, 1)
	assert.Equal(t, "0", found[0].Value)
}

// The window is 20 characters, not bytes: accented filler must not push a
// keyword sitting at the character boundary out of reach.
func TestNumericExtract_WindowCountsRunesNotBytes(t *testing.T) {
	e := NewNumericEntityExtractor()

	// "noites" starts 14 runes after the integer but 26 bytes in.
	found := e.Extract("3 áéíóúáéíóúáé noites")
	require.Len(t, found, 1)
	assert.Equal(t, entities.EntityNights, found[0].Type)

	// Same on the leading side: "adultos" ends 13 runes before the integer
	// but 23 bytes back.
	found = e.Extract("adultos áéíóúáéíóúá 2")
	require.Len(t, found, 1)
	assert.Equal(t, entities.EntityAdults, found[0].Type)
}

func TestNumericExtract_NoIntegers(t *testing.T) {
	e := NewNumericEntityExtractor()
	assert.Empty(t, e.Extract("sem números por aqui"))
}
