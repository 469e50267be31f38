package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestManagerDefaultsToMock(t *testing.T) {
	m, err := NewManager("", "", 32)
	if err != nil {
		t.Fatal(err)
	}
	if m.EmbedProvider() == nil || m.LLMProvider() == nil {
		t.Fatal("expected mock providers")
	}
	vecs, info, err := m.EmbedProvider().Embed(context.Background(), EmbedRequest{Inputs: []string{"x"}, Dimension: 32})
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "mock" || len(vecs[0]) != 32 {
		t.Fatalf("unexpected embed result: %s %d", info.Name, len(vecs[0]))
	}
}

func TestManagerRejectsUnknownProvider(t *testing.T) {
	if _, err := NewManager("quantum", "mock", 32); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestManagerRejectsNonLLMProvider(t *testing.T) {
	if _, err := NewManager("mock", "cohere", 32); err == nil {
		t.Fatal("cohere does not generate; expected error")
	}
}

func TestOllamaEmbedAgainstStub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embedding":[0.25,0.5,0.75]}`))
	}))
	defer srv.Close()
	t.Setenv("KNOWBASE_OLLAMA_BASE_URL", srv.URL)

	p := NewOllamaEmbeddingProvider("")
	vecs, info, err := p.Embed(context.Background(), EmbedRequest{Mode: ModeQuery, Inputs: []string{"hello"}})
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "ollama" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if len(vecs) != 1 || len(vecs[0]) != 3 || vecs[0][1] != 0.5 {
		t.Fatalf("unexpected vectors: %+v", vecs)
	}
}

func TestResolveKeyAlias(t *testing.T) {
	t.Setenv("KNOWBASE_COHERE_API_KEY", "base-key")
	t.Setenv("KNOWBASE_COHERE_API_KEY_TEAM_A", "alias-key")
	if got := resolveKey("KNOWBASE_COHERE_API_KEY", "team-a"); got != "alias-key" {
		t.Fatalf("got %q", got)
	}
	if got := resolveKey("KNOWBASE_COHERE_API_KEY", "missing"); got != "base-key" {
		t.Fatalf("got %q", got)
	}
}
