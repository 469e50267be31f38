package providers

import (
	"fmt"
	"strings"
)

// Manager builds and holds the configured providers. The first entry of each
// list is the active one; later entries are configured fallbacks.
type Manager struct {
	embedProviders []EmbeddingProvider
	llmProviders   []LLMProvider
}

func NewManager(embedList, llmList string, embedDim int) (*Manager, error) {
	m := &Manager{}
	for _, ref := range ParseProviderList(embedList) {
		p, err := buildProvider(ref, embedDim)
		if err != nil {
			return nil, err
		}
		embed, ok := p.(EmbeddingProvider)
		if !ok {
			return nil, fmt.Errorf("provider %s does not support embeddings", ref.Raw)
		}
		m.embedProviders = append(m.embedProviders, embed)
	}
	for _, ref := range ParseProviderList(llmList) {
		p, err := buildProvider(ref, embedDim)
		if err != nil {
			return nil, err
		}
		llm, ok := p.(LLMProvider)
		if !ok {
			return nil, fmt.Errorf("provider %s does not support llm generation", ref.Raw)
		}
		m.llmProviders = append(m.llmProviders, llm)
	}
	if len(m.embedProviders) == 0 {
		m.embedProviders = []EmbeddingProvider{NewMockProvider(embedDim)}
	}
	if len(m.llmProviders) == 0 {
		m.llmProviders = []LLMProvider{NewMockProvider(embedDim)}
	}
	return m, nil
}

func (m *Manager) EmbedProvider() EmbeddingProvider {
	return m.embedProviders[0]
}

func (m *Manager) LLMProvider() LLMProvider {
	return m.llmProviders[0]
}

func buildProvider(ref ProviderRef, dim int) (any, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(dim), nil
	case "cohere":
		return NewCohereProvider(ref.KeyAlias), nil
	case "ollama":
		return NewOllamaEmbeddingProvider(ref.KeyAlias), nil
	case "groq":
		return NewGroqProvider(ref.KeyAlias), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
