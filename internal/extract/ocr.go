package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// OCRClient is the contract to the external OCR/text-layout engine. Rendering
// a PDF page to an image happens on the engine side; this process only ships
// the file across.
type OCRClient interface {
	RecognizeImage(ctx context.Context, path string, languages string) (string, error)
	RecognizePDFPage(ctx context.Context, path string, page int, languages string) (string, error)
}

// HTTPOCRClient talks to a tesseract-server style endpoint.
type HTTPOCRClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPOCRClient(baseURL string) *HTTPOCRClient {
	return &HTTPOCRClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *HTTPOCRClient) RecognizeImage(ctx context.Context, path string, languages string) (string, error) {
	return c.recognize(ctx, path, map[string]string{"languages": languages})
}

func (c *HTTPOCRClient) RecognizePDFPage(ctx context.Context, path string, page int, languages string) (string, error) {
	return c.recognize(ctx, path, map[string]string{
		"languages": languages,
		"page":      strconv.Itoa(page),
	})
}

func (c *HTTPOCRClient) recognize(ctx context.Context, path string, fields map[string]string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for ocr: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", f.Name())
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy file into ocr request: %w", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", fmt.Errorf("build ocr request: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", &buf)
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ocr error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	return parsed.Text, nil
}

// DisabledOCR is used when no OCR engine is configured. It recognizes nothing,
// so image-only inputs fail extraction upstream.
type DisabledOCR struct{}

func (DisabledOCR) RecognizeImage(ctx context.Context, path string, languages string) (string, error) {
	return "", nil
}

func (DisabledOCR) RecognizePDFPage(ctx context.Context, path string, page int, languages string) (string, error) {
	return "", nil
}
