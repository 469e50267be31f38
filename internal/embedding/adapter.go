package embedding

import (
	"context"
	"log"
	"strings"

	"knowbase/internal/providers"
)

// Adapter normalizes an external embedding provider to the storage contract:
// every vector it returns has exactly Dim components, and failures surface as
// nil rather than errors so a single bad input never poisons a batch.
type Adapter struct {
	provider providers.EmbeddingProvider
	dim      int
}

func NewAdapter(provider providers.EmbeddingProvider, dim int) *Adapter {
	if dim <= 0 {
		dim = 1536
	}
	return &Adapter{provider: provider, dim: dim}
}

func (a *Adapter) Dim() int {
	return a.dim
}

// Embed returns a vector of exactly Dim components, or nil on empty input or
// provider failure.
func (a *Adapter) Embed(ctx context.Context, text, mode string) []float32 {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	vectors, info, err := a.provider.Embed(ctx, providers.EmbedRequest{
		Mode:      mode,
		Inputs:    []string{text},
		Dimension: a.dim,
	})
	if err != nil {
		log.Printf("[embedding] %s embed failed: %v", info.Name, err)
		return nil
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		log.Printf("[embedding] %s returned empty vector", info.Name)
		return nil
	}
	return matchDimension(vectors[0], a.dim)
}

// EmbedBatch embeds texts sequentially, returning one entry per input with
// nil marking individual failures.
func (a *Adapter) EmbedBatch(ctx context.Context, texts []string, mode string) [][]float32 {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = a.Embed(ctx, text, mode)
	}
	return out
}

// matchDimension pads with trailing zeros or truncates so the stored vector
// dimension is uniform regardless of the provider-native dimension.
func matchDimension(v []float32, target int) []float32 {
	if len(v) == target {
		return v
	}
	if len(v) > target {
		return v[:target]
	}
	out := make([]float32, target)
	copy(out, v)
	return out
}
