package extract

import (
	"regexp"
	"strings"
)

var watermarkMarkers = []string{
	"CONFIDENTIAL",
	"DRAFT",
	"PROPRIETARY",
	"COPYRIGHT",
	"©",
	"WATERMARK",
}

var (
	pageOfRe     = regexp.MustCompile(`(?i)^(page\s+)?\d+(\s+of\s+\d+)?$`)
	dashedPageRe = regexp.MustCompile(`^[-\s]*\d+[-\s]*$`)
	multiSpaceRe = regexp.MustCompile(` +`)
	multiBlankRe = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// repeatedLineThreshold: lines of header/footer length appearing more often
// than this across the document are treated as boilerplate.
const repeatedLineThreshold = 3

// Clean strips watermarks, repeated headers/footers, page-number lines and
// degenerate short lines, then normalizes whitespace. It is idempotent:
// Clean(Clean(t)) == Clean(t).
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = removeWatermarks(text)
	text = collapseLineSpace(text)
	text = removeRepeatedLines(text)
	text = removePageNumberLines(text)
	text = removeShortLines(text)
	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// removeWatermarks cuts each line from the first watermark marker onward.
func removeWatermarks(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		upper := strings.ToUpper(line)
		cut := -1
		for _, marker := range watermarkMarkers {
			if idx := strings.Index(upper, marker); idx >= 0 && (cut < 0 || idx < cut) {
				cut = idx
			}
		}
		if cut >= 0 {
			lines[i] = line[:cut]
		}
	}
	return strings.Join(lines, "\n")
}

// removeRepeatedLines drops lines of plausible header/footer length that
// recur across the document.
func removeRepeatedLines(text string) string {
	lines := strings.Split(text, "\n")
	counts := make(map[string]int, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 5 && len(trimmed) < 100 {
			counts[trimmed]++
		}
	}
	out := lines[:0]
	for _, line := range lines {
		if counts[strings.TrimSpace(line)] > repeatedLineThreshold {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func removePageNumberLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isBareNumber(trimmed) || pageOfRe.MatchString(trimmed) || (trimmed != "" && dashedPageRe.MatchString(trimmed)) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isBareNumber(s string) bool {
	if s == "" || len(s) > 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func collapseLineSpace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(multiSpaceRe.ReplaceAllString(line, " "), " \t")
	}
	return strings.Join(lines, "\n")
}

// removeShortLines drops non-empty lines of three characters or fewer, which
// are almost always extraction artifacts.
func removeShortLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && len(trimmed) <= 3 {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
