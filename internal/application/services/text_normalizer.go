package services

import "strings"

// NormalizeText lowercases and trims a raw message. The returned offset is the
// byte index in the original text where the normalized text begins, so spans
// found in the normalized text can be mapped back to the original.
//
// Lowercasing is byte-length preserving for the pt/en/es alphabets this
// pipeline handles, so only the trimmed prefix shifts offsets.
func NormalizeText(text string) (normalized string, offset int) {
	trimmed := strings.TrimSpace(text)
	offset = strings.Index(text, trimmed)
	if trimmed == "" {
		return "", 0
	}
	return strings.ToLower(trimmed), offset
}
