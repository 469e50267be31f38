package providers

import "testing"

func TestParseProviderList(t *testing.T) {
	refs := ParseProviderList("cohere:primary | groq | ollama:nomic-embed-text")
	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}
	if refs[0].Name != "cohere" || refs[0].KeyAlias != "primary" {
		t.Fatalf("unexpected first ref: %+v", refs[0])
	}
	if refs[1].Name != "groq" || refs[1].KeyAlias != "" {
		t.Fatalf("unexpected second ref: %+v", refs[1])
	}
	if refs[2].Name != "ollama" || refs[2].KeyAlias != "nomic-embed-text" {
		t.Fatalf("unexpected third ref: %+v", refs[2])
	}
}

func TestParseProviderListEmptyFallsBackToMock(t *testing.T) {
	refs := ParseProviderList("  | ")
	if len(refs) != 1 || refs[0].Name != "mock" {
		t.Fatalf("expected mock fallback, got %+v", refs)
	}
}
