package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// CohereProvider generates embeddings through Cohere's embed API. The native
// embed-english-v3.0 dimension is 1024; the embedding adapter pads stored
// vectors to the configured store dimension.
type CohereProvider struct {
	alias  string
	apiKey string
	model  string
	client *http.Client
}

func NewCohereProvider(alias string) *CohereProvider {
	model := strings.TrimSpace(os.Getenv("KNOWBASE_COHERE_EMBED_MODEL"))
	if model == "" {
		model = "embed-english-v3.0"
	}
	return &CohereProvider{
		alias:  alias,
		apiKey: resolveKey("KNOWBASE_COHERE_API_KEY", alias),
		model:  model,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *CohereProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	info := ProviderInfo{Name: "cohere", Model: c.model}
	if c.apiKey == "" {
		return nil, info, fmt.Errorf("cohere key missing for alias %q", c.alias)
	}
	if len(req.Inputs) == 0 {
		return nil, info, fmt.Errorf("no embedding inputs")
	}
	inputType := req.Mode
	if inputType == "" {
		inputType = ModeDocument
	}
	payload, _ := json.Marshal(map[string]any{
		"texts":      req.Inputs,
		"model":      c.model,
		"input_type": inputType,
	})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.cohere.ai/v1/embed", bytes.NewReader(payload))
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, info, fmt.Errorf("cohere embed request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, info, fmt.Errorf("cohere embed error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, info, fmt.Errorf("decode cohere embed response: %w", err)
	}
	if len(parsed.Embeddings) != len(req.Inputs) {
		return nil, info, fmt.Errorf("cohere returned %d embeddings for %d inputs", len(parsed.Embeddings), len(req.Inputs))
	}
	return parsed.Embeddings, info, nil
}

func resolveKey(envKey, alias string) string {
	if alias != "" {
		aliased := envKey + "_" + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_", "/", "_").Replace(alias))
		if v := strings.TrimSpace(os.Getenv(aliased)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(os.Getenv(envKey))
}
