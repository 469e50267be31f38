package embedding

import (
	"context"
	"errors"
	"testing"

	"knowbase/internal/providers"

	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	dim int
	err error
}

func (s *stubProvider) Embed(ctx context.Context, req providers.EmbedRequest) ([][]float32, providers.ProviderInfo, error) {
	info := providers.ProviderInfo{Name: "stub", Model: "stub-v1"}
	if s.err != nil {
		return nil, info, s.err
	}
	out := make([][]float32, 0, len(req.Inputs))
	for range req.Inputs {
		v := make([]float32, s.dim)
		for i := range v {
			v[i] = 1
		}
		out = append(out, v)
	}
	return out, info, nil
}

func TestEmbedPadsToStoreDimension(t *testing.T) {
	a := NewAdapter(&stubProvider{dim: 1024}, 1536)
	vec := a.Embed(context.Background(), "some text", providers.ModeDocument)
	require.Len(t, vec, 1536)
	require.Equal(t, float32(1), vec[1023])
	require.Equal(t, float32(0), vec[1024])
	require.Equal(t, float32(0), vec[1535])
}

func TestEmbedTruncatesToStoreDimension(t *testing.T) {
	a := NewAdapter(&stubProvider{dim: 4096}, 1536)
	vec := a.Embed(context.Background(), "some text", providers.ModeDocument)
	require.Len(t, vec, 1536)
	require.Equal(t, float32(1), vec[1535])
}

func TestEmbedExactDimensionUnchanged(t *testing.T) {
	a := NewAdapter(&stubProvider{dim: 1536}, 1536)
	vec := a.Embed(context.Background(), "some text", providers.ModeQuery)
	require.Len(t, vec, 1536)
}

func TestEmbedBlankInputIsNil(t *testing.T) {
	a := NewAdapter(&stubProvider{dim: 8}, 8)
	require.Nil(t, a.Embed(context.Background(), "   \n\t", providers.ModeDocument))
}

func TestEmbedProviderFailureIsNil(t *testing.T) {
	a := NewAdapter(&stubProvider{err: errors.New("quota exceeded")}, 8)
	require.Nil(t, a.Embed(context.Background(), "text", providers.ModeDocument))
}

func TestEmbedBatchIsolatesFailures(t *testing.T) {
	a := NewAdapter(&stubProvider{dim: 8}, 8)
	out := a.EmbedBatch(context.Background(), []string{"first", "", "third"}, providers.ModeDocument)
	require.Len(t, out, 3)
	require.NotNil(t, out[0])
	require.Nil(t, out[1])
	require.NotNil(t, out[2])
}
