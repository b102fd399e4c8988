package services

import "testing"

func TestNormalizeText_LowercasesAndTrims(t *testing.T) {
	normalized, offset := NormalizeText("  Olá, Bom Dia!  ")
	if normalized != "olá, bom dia!" {
		t.Errorf("expected 'olá, bom dia!', got %q", normalized)
	}
	if offset != 2 {
		t.Errorf("expected offset 2, got %d", offset)
	}
}

func TestNormalizeText_NoLeadingWhitespace(t *testing.T) {
	normalized, offset := NormalizeText("Hello")
	if normalized != "hello" {
		t.Errorf("expected 'hello', got %q", normalized)
	}
	if offset != 0 {
		t.Errorf("expected offset 0, got %d", offset)
	}
}

func TestNormalizeText_Empty(t *testing.T) {
	normalized, offset := NormalizeText("   ")
	if normalized != "" || offset != 0 {
		t.Errorf("expected empty result, got %q offset %d", normalized, offset)
	}
}

func TestNormalizeText_OffsetMapsSpansToOriginal(t *testing.T) {
	original := "   Quarto 12"
	normalized, offset := NormalizeText(original)
	if normalized != "quarto 12" {
		t.Fatalf("unexpected normalized text %q", normalized)
	}
	// "12" sits at bytes 7..9 of the normalized text
	if original[7+offset:9+offset] != "12" {
		t.Errorf("offset does not map back to original: got %q", original[7+offset:9+offset])
	}
}
