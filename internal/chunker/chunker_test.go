package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func approxChunker(size, overlap int) *Chunker {
	return New(size, overlap, NewApproxTokenCounter())
}

func manySentences(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Sentence number %d has exactly eight words total. ", i)
	}
	return b.String()
}

func TestChunkTextEmpty(t *testing.T) {
	c := approxChunker(100, 10)
	got := c.ChunkText("   \n\t ")
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no chunks, got %d", len(got))
	}
}

func TestChunkTextShortInputSingleChunk(t *testing.T) {
	c := approxChunker(100, 10)
	got := c.ChunkText("A short paragraph that fits in one chunk.")
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != "A short paragraph that fits in one chunk." {
		t.Fatalf("unexpected chunk: %q", got[0])
	}
}

func TestChunkSizeBoundWithoutOverlap(t *testing.T) {
	c := approxChunker(30, 0)
	chunks := c.ChunkText(manySentences(40))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := ApproxTokens(chunk); n > 30 {
			t.Fatalf("chunk %d has %d tokens, want <= 30", i, n)
		}
	}
}

func TestOverlapPrependsPreviousTail(t *testing.T) {
	text := manySentences(40)
	plain := approxChunker(30, 0).ChunkText(text)
	overlapped := approxChunker(30, 15).ChunkText(text)

	if len(plain) != len(overlapped) {
		t.Fatalf("chunk counts differ: %d vs %d", len(plain), len(overlapped))
	}
	if overlapped[0] != plain[0] {
		t.Fatalf("first chunk must carry no overlap")
	}
	for i := 1; i < len(plain); i++ {
		if !strings.HasSuffix(overlapped[i], plain[i]) {
			t.Fatalf("chunk %d lost its own content", i)
		}
		prefix := strings.TrimSuffix(overlapped[i], plain[i])
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			t.Fatalf("chunk %d carries no overlap", i)
		}
		if !strings.HasSuffix(strings.TrimSpace(plain[i-1]), prefix) {
			t.Fatalf("chunk %d overlap %q is not the tail of the previous chunk", i, prefix)
		}
		if n := ApproxTokens(prefix); n > 15 {
			t.Fatalf("chunk %d overlap has %d tokens, want <= 15", i, n)
		}
	}
}

func TestSectionHeaderSplit(t *testing.T) {
	text := "Intro line about the company.\n\nServices\nWe repair widgets. We also sell widget parts.\n\nProduk:\nKami menjual widget."
	c := approxChunker(1000, 0)
	chunks := c.ChunkText(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	if !strings.HasPrefix(chunks[1], "Services\n") {
		t.Fatalf("section chunk must start with its header, got %q", chunks[1])
	}
	if !strings.HasPrefix(chunks[2], "Produk:\n") {
		t.Fatalf("section chunk must start with its header, got %q", chunks[2])
	}
}

func TestBlankLineFallback(t *testing.T) {
	text := "First paragraph here.\n\nSecond paragraph here.\n\n\nThird paragraph here."
	chunks := approxChunker(1000, 0).ChunkText(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("This is the first sentence. Too short. Is this a question? Yes indeed it is! a.b")
	want := []string{
		"This is the first sentence.",
		"Is this a question?",
		"Yes indeed it is!",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPageNumber(t *testing.T) {
	if n := PageNumber("[Page 3] body text"); n != 3 {
		t.Fatalf("got %d, want 3", n)
	}
	if n := PageNumber("prefix [Page 12 - OCR] scanned text"); n != 12 {
		t.Fatalf("got %d, want 12", n)
	}
	if n := PageNumber("no marker here"); n != 0 {
		t.Fatalf("got %d, want 0", n)
	}
}

func TestSectionHeaderDetection(t *testing.T) {
	if h := SectionHeader("Services\nWe repair widgets."); h != "Services" {
		t.Fatalf("got %q, want Services", h)
	}
	if h := SectionHeader("Produk:\nKami menjual widget."); h != "Produk" {
		t.Fatalf("got %q, want Produk", h)
	}
	if h := SectionHeader("intro text\nServices\nmore"); h != "" {
		t.Fatalf("mid-text header must not count, got %q", h)
	}
}

func TestApproxTokens(t *testing.T) {
	if n := ApproxTokens("one two three"); n != 4 {
		t.Fatalf("got %d, want 4", n)
	}
	if n := ApproxTokens(""); n != 0 {
		t.Fatalf("got %d, want 0", n)
	}
}
