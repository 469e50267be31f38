package util

import "testing"

func TestSanitizeTextRemovesNulAndControls(t *testing.T) {
	in := "ab\x00cd\x01\x02\n\txy"
	out := SanitizeText(in)
	if out != "abcd\n\txy" {
		t.Fatalf("unexpected sanitized output: %q", out)
	}
}

func TestPreviewTruncatesAtRuneBoundary(t *testing.T) {
	in := "héllo wörld this is a long line"
	out := Preview(in, 11)
	if out != "héllo wörld..." {
		t.Fatalf("unexpected preview: %q", out)
	}
}
