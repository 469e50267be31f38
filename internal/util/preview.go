package util

import (
	"strings"
	"unicode"
)

// Preview returns a sanitized, rune-bounded excerpt of s suitable for storing
// or returning in API payloads.
func Preview(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = 420
	}
	s = SanitizeText(s)
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			continue
		}
		out = append(out, r)
	}
	trimmed := strings.TrimSpace(string(out))
	runes := []rune(trimmed)
	if len(runes) > maxRunes {
		return strings.TrimSpace(string(runes[:maxRunes])) + "..."
	}
	return trimmed
}
