package providers

import "context"

const (
	ModeDocument = "search_document"
	ModeQuery    = "search_query"
)

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

type EmbedRequest struct {
	// Mode is the provider indexing hint: ModeDocument for stored chunks,
	// ModeQuery for retrieval queries.
	Mode      string   `json:"mode"`
	Inputs    []string `json:"inputs"`
	Dimension int      `json:"dimension"`
}

type GenerateRequest struct {
	Query   string `json:"query"`
	Context string `json:"context"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error)
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}
