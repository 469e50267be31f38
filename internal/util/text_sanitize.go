package util

import "strings"

// SanitizeText strips characters that break chunk persistence. PDF text layers
// and OCR output occasionally carry NUL bytes and stray control characters,
// and Postgres rejects NUL in text columns outright.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")

	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		// Keep line and tab structure; the cleaner depends on it.
		if ch == '\n' || ch == '\r' || ch == '\t' {
			b.WriteRune(ch)
			continue
		}
		if ch < 0x20 {
			continue
		}
		b.WriteRune(ch)
	}
	return strings.TrimSpace(b.String())
}
