package chunker

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200

	minSentenceLen = 10
)

// Section header keywords recognized at line starts (case-insensitive).
var headerKeywords = []string{
	"Business Scope", "Product & Service", "Product and Service", "Lingkup Usaha",
	"Bidang Usaha", "Services", "Service", "Scope", "Produk", "Layanan", "Jasa",
}

var (
	headerLineRe = buildHeaderRe()
	blankSplitRe = regexp.MustCompile(`\n\s*\n`)
	pageMarkerRe = regexp.MustCompile(`\[Page (\d+)(?: - OCR)?\]`)
)

func buildHeaderRe() *regexp.Regexp {
	quoted := make([]string, 0, len(headerKeywords))
	for _, kw := range headerKeywords {
		quoted = append(quoted, regexp.QuoteMeta(kw))
	}
	return regexp.MustCompile(`(?im)^[ \t]*(` + strings.Join(quoted, "|") + `)[ \t]*:?[ \t]*$`)
}

// Chunker splits cleaned text into token-bounded, softly overlapping chunks
// along section and sentence boundaries.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
	tokens       *TokenCounter
}

func New(chunkSize, chunkOverlap int, tokens *TokenCounter) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	if tokens == nil {
		tokens = NewTokenCounter()
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap, tokens: tokens}
}

// ChunkText produces the final overlapped chunk list. Empty or
// whitespace-only input yields an empty list.
func (c *Chunker) ChunkText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	sections := splitSections(text)
	chunks := make([]string, 0, len(sections))
	for _, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}
		if c.tokens.Count(section) <= c.chunkSize {
			chunks = append(chunks, strings.TrimSpace(section))
			continue
		}
		chunks = append(chunks, c.packSentences(section)...)
	}
	return c.applyOverlap(chunks)
}

// splitSections cuts the text at recognized section-header lines, prefixing
// each header onto its section for context. Without headers it falls back to
// blank-line boundaries.
func splitSections(text string) []string {
	matches := headerLineRe.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		parts := blankSplitRe.Split(text, -1)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	sections := make([]string, 0, len(matches)+1)
	if lead := strings.TrimSpace(text[:matches[0][0]]); lead != "" {
		sections = append(sections, lead)
	}
	for i, m := range matches {
		header := strings.TrimSpace(text[m[0]:m[1]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := strings.TrimSpace(text[m[1]:end])
		if content != "" {
			sections = append(sections, header+"\n"+content)
		}
	}
	return sections
}

// packSentences splits an oversized section into sentences and greedily packs
// them into chunks of at most chunkSize tokens.
func (c *Chunker) packSentences(section string) []string {
	sentences := SplitSentences(section)
	chunks := make([]string, 0, 4)
	current := make([]string, 0, 16)
	currentTokens := 0
	for _, sentence := range sentences {
		tokens := c.tokens.Count(sentence)
		if currentTokens+tokens > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			currentTokens = 0
		}
		current = append(current, sentence)
		currentTokens += tokens
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// SplitSentences breaks text on .!? boundaries, keeping the punctuation with
// its sentence and discarding fragments of minSentenceLen characters or fewer.
func SplitSentences(text string) []string {
	out := make([]string, 0, 16)
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if len(s) > minSentenceLen {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return out
}

// applyOverlap prepends the previous chunk's trailing sentences (bounded by
// chunkOverlap tokens) to every chunk after the first. The previous chunk's
// original text is used, so overlap never compounds.
func (c *Chunker) applyOverlap(chunks []string) []string {
	if len(chunks) <= 1 {
		return chunks
	}
	out := make([]string, 0, len(chunks))
	out = append(out, chunks[0])
	for i := 1; i < len(chunks); i++ {
		overlap := c.trailingSentences(chunks[i-1])
		if overlap == "" {
			out = append(out, chunks[i])
			continue
		}
		out = append(out, overlap+" "+chunks[i])
	}
	return out
}

// trailingSentences walks backward from the end of text, collecting sentences
// until adding one more would exceed the overlap token budget.
func (c *Chunker) trailingSentences(text string) string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	kept := make([]string, 0, 4)
	total := 0
	for i := len(sentences) - 1; i >= 0; i-- {
		tokens := c.tokens.Count(sentences[i])
		if total+tokens > c.chunkOverlap {
			break
		}
		kept = append([]string{sentences[i]}, kept...)
		total += tokens
	}
	return strings.Join(kept, " ")
}

// PageNumber reports the first page marker embedded in chunk text, or 0.
func PageNumber(text string) int {
	m := pageMarkerRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// SectionHeader reports the section-header keyword line a chunk opens with,
// or "".
func SectionHeader(text string) string {
	loc := headerLineRe.FindStringIndex(text)
	if loc == nil || loc[0] > 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text[loc[0]:loc[1]]), ":"))
}
