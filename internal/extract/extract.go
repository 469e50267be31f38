package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"knowbase/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDoc  = "application/msword"
)

// Extractor pulls best-effort plain text out of uploaded artifacts. The OCR
// engine is an external collaborator reached through OCRClient.
type Extractor struct {
	ocr       OCRClient
	languages string
}

func NewExtractor(ocr OCRClient, languages string) *Extractor {
	if ocr == nil {
		ocr = DisabledOCR{}
	}
	return &Extractor{ocr: ocr, languages: languages}
}

// ExtractText dispatches on the declared media type, sniffing the file when
// the declaration is missing or generic. Returns the raw extracted text;
// callers decide whether an empty result is fatal.
func (e *Extractor) ExtractText(ctx context.Context, path, mimeType string) (string, error) {
	mimeType = resolveMimeType(path, mimeType)
	switch {
	case mimeType == mimePDF:
		return e.extractPDF(ctx, path)
	case mimeType == mimeDocx || mimeType == mimeDoc:
		return extractDocx(path)
	case strings.HasPrefix(mimeType, "image/"):
		return e.ocr.RecognizeImage(ctx, path, e.languages)
	default:
		return extractPlainText(path)
	}
}

// extractPDF reads the text layer page by page, prefixing page markers. Pages
// with no usable text layer fall back to OCR.
func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, fmt.Sprintf("[Page %d]\n%s", i, text))
			continue
		}
		ocrText, ocrErr := e.ocr.RecognizePDFPage(ctx, path, i, e.languages)
		if ocrErr != nil {
			// Page-level OCR failures are non-fatal; the page is skipped.
			continue
		}
		if ocrText = strings.TrimSpace(ocrText); ocrText != "" {
			pages = append(pages, fmt.Sprintf("[Page %d - OCR]\n%s", i, ocrText))
		}
	}
	if len(pages) == 0 {
		return "", util.ErrNoExtractableText
	}
	return strings.Join(pages, "\n\n"), nil
}

// extractPlainText reads the file as UTF-8, decoding as Latin-1 when the bytes
// are not valid UTF-8.
func extractPlainText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open text file: %w", err)
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return decodeLatin1(raw), nil
}

func decodeLatin1(b []byte) string {
	runes := make([]rune, 0, len(b))
	for _, c := range b {
		runes = append(runes, rune(c))
	}
	return string(runes)
}

func resolveMimeType(path, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	sniffed, err := mimetype.DetectFile(path)
	if err != nil {
		return declared
	}
	return sniffed.String()
}
