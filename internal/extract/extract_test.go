package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type scriptedOCR struct {
	imageText string
	pageText  map[int]string
	err       error
}

func (s *scriptedOCR) RecognizeImage(ctx context.Context, path string, languages string) (string, error) {
	return s.imageText, s.err
}

func (s *scriptedOCR) RecognizePDFPage(ctx context.Context, path string, page int, languages string) (string, error) {
	return s.pageText[page], s.err
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractPlainText(t *testing.T) {
	path := writeTemp(t, "notes.txt", []byte("plain utf-8 content\nsecond line"))
	e := NewExtractor(nil, "eng")
	got, err := e.ExtractText(context.Background(), path, "text/plain")
	if err != nil {
		t.Fatal(err)
	}
	if got != "plain utf-8 content\nsecond line" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractPlainTextLatin1(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid as standalone UTF-8.
	path := writeTemp(t, "legacy.txt", []byte{'c', 'a', 'f', 0xE9})
	e := NewExtractor(nil, "eng")
	got, err := e.ExtractText(context.Background(), path, "text/plain")
	if err != nil {
		t.Fatal(err)
	}
	if got != "café" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractImageDelegatesToOCR(t *testing.T) {
	path := writeTemp(t, "scan.png", []byte{0x89, 'P', 'N', 'G'})
	ocr := &scriptedOCR{imageText: "recognized text"}
	e := NewExtractor(ocr, "eng+ind")
	got, err := e.ExtractText(context.Background(), path, "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if got != "recognized text" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractImageOCRError(t *testing.T) {
	path := writeTemp(t, "scan.png", []byte{0x89, 'P', 'N', 'G'})
	ocr := &scriptedOCR{err: errors.New("ocr backend down")}
	e := NewExtractor(ocr, "eng")
	if _, err := e.ExtractText(context.Background(), path, "image/png"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDisabledOCRReturnsEmpty(t *testing.T) {
	var d DisabledOCR
	text, err := d.RecognizeImage(context.Background(), "x", "eng")
	if err != nil || text != "" {
		t.Fatalf("got %q, %v", text, err)
	}
	text, err = d.RecognizePDFPage(context.Background(), "x", 1, "eng")
	if err != nil || text != "" {
		t.Fatalf("got %q, %v", text, err)
	}
}

func TestResolveMimeTypeKeepsDeclared(t *testing.T) {
	if got := resolveMimeType("whatever", "application/pdf"); got != "application/pdf" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveMimeTypeSniffsGeneric(t *testing.T) {
	path := writeTemp(t, "unknown.bin", []byte("%PDF-1.4\nsome pdf-ish bytes"))
	got := resolveMimeType(path, "application/octet-stream")
	if got != "application/pdf" {
		t.Fatalf("sniff got %q, want application/pdf", got)
	}
}

func TestDecodeLatin1(t *testing.T) {
	if got := decodeLatin1([]byte{0x41, 0xFC, 0x42}); got != "AüB" {
		t.Fatalf("got %q", got)
	}
}
