package providers

import (
	"context"
	"testing"
)

func TestMockEmbedDeterministic(t *testing.T) {
	m := NewMockProvider(64)
	a, _, err := m.Embed(context.Background(), EmbedRequest{Mode: ModeDocument, Inputs: []string{"hello"}})
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := m.Embed(context.Background(), EmbedRequest{Mode: ModeDocument, Inputs: []string{"hello"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 1 || len(a[0]) != 64 {
		t.Fatalf("unexpected shape: %d x %d", len(a), len(a[0]))
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("vector not deterministic at %d", i)
		}
	}
}

func TestMockEmbedModeSalted(t *testing.T) {
	m := NewMockProvider(64)
	doc, _, _ := m.Embed(context.Background(), EmbedRequest{Mode: ModeDocument, Inputs: []string{"hello"}})
	query, _, _ := m.Embed(context.Background(), EmbedRequest{Mode: ModeQuery, Inputs: []string{"hello"}})
	same := true
	for i := range doc[0] {
		if doc[0][i] != query[0][i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("document and query vectors must differ for the same input")
	}
}

func TestMockGenerate(t *testing.T) {
	m := NewMockProvider(0)
	resp, info, err := m.Generate(context.Background(), GenerateRequest{Query: "q", Context: "some context"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text == "" {
		t.Fatal("expected non-empty answer")
	}
	if info.Name != "mock" {
		t.Fatalf("unexpected provider info: %+v", info)
	}
}
