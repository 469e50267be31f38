package extract

import (
	"strings"
	"testing"
)

func TestCleanWatermarks(t *testing.T) {
	in := "Useful content here CONFIDENTIAL do not distribute\nMore useful content stays."
	got := Clean(in)
	if strings.Contains(got, "CONFIDENTIAL") || strings.Contains(got, "do not distribute") {
		t.Fatalf("watermark survived: %q", got)
	}
	if !strings.Contains(got, "Useful content here") {
		t.Fatalf("content before the marker must survive: %q", got)
	}
	if !strings.Contains(got, "More useful content stays.") {
		t.Fatalf("unrelated line lost: %q", got)
	}
}

func TestCleanPageNumberLines(t *testing.T) {
	in := "Real paragraph with substance.\n12\nPage 3 of 10\n- 4 -\nAnother real paragraph."
	got := Clean(in)
	for _, gone := range []string{"12", "Page 3 of 10", "- 4 -"} {
		for _, line := range strings.Split(got, "\n") {
			if strings.TrimSpace(line) == gone {
				t.Fatalf("page line %q survived: %q", gone, got)
			}
		}
	}
	if !strings.Contains(got, "Real paragraph with substance.") || !strings.Contains(got, "Another real paragraph.") {
		t.Fatalf("real content lost: %q", got)
	}
}

func TestCleanRepeatedHeaderFooter(t *testing.T) {
	header := "ACME Corp Annual Report"
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString(header + "\n")
		b.WriteString("Body paragraph number with distinct content " + strings.Repeat("x", i+1) + ".\n")
	}
	got := Clean(b.String())
	if strings.Contains(got, header) {
		t.Fatalf("repeated header survived: %q", got)
	}
	if !strings.Contains(got, "Body paragraph number") {
		t.Fatalf("body lost: %q", got)
	}
}

func TestCleanShortLinesAndBlankCollapse(t *testing.T) {
	in := "A meaningful paragraph of text.\nab\n\n\n\n\nAnother meaningful paragraph."
	got := Clean(in)
	if strings.Contains(got, "ab") {
		t.Fatalf("short line survived: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("blank lines not collapsed: %q", got)
	}
}

func TestCleanCollapsesSpacing(t *testing.T) {
	got := Clean("Words   spaced    far  apart in this line.")
	if got != "Words spaced far apart in this line." {
		t.Fatalf("got %q", got)
	}
}

func TestCleanEmpty(t *testing.T) {
	if got := Clean(""); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := Clean("   \n \n  "); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"Useful content CONFIDENTIAL\nPage 1 of 2\nab\nReal paragraph   with  spaces.",
		"Header line repeated\nHeader line repeated\nHeader line repeated\nHeader line repeated\nBody text that matters here.",
		"Plain paragraph one.\n\n\nPlain paragraph two.",
		"a  b\nsomething longer that stays put.",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Fatalf("not idempotent:\n in: %q\nonce: %q\ntwice: %q", in, once, twice)
		}
	}
}
