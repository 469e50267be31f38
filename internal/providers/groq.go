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

const ragSystemPreamble = `You are a helpful, multilingual assistant for a knowledge-base system.
Always base responses on the provided context. If the answer is not found in
the context, state this clearly and politely; do not guess or invent
information. Cite the source of any answer you provide, including the document
name and section when available. Respond in the same language as the question.`

// GroqProvider answers queries via Groq's OpenAI-compatible chat API.
type GroqProvider struct {
	alias  string
	apiKey string
	model  string
	client *http.Client
}

func NewGroqProvider(alias string) *GroqProvider {
	model := strings.TrimSpace(os.Getenv("KNOWBASE_GROQ_MODEL"))
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	return &GroqProvider{
		alias:  alias,
		apiKey: resolveKey("KNOWBASE_GROQ_API_KEY", alias),
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GroqProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "groq", Model: g.model}
	if g.apiKey == "" {
		return GenerateResponse{}, info, fmt.Errorf("groq key missing for alias %q", g.alias)
	}
	payload, _ := json.Marshal(map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": ragSystemPreamble},
			{"role": "user", "content": buildRAGPrompt(req.Query, req.Context)},
		},
		"temperature": 0.1,
		"max_tokens":  1024,
	})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.groq.com/openai/v1/chat/completions", bytes.NewReader(payload))
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("groq generate request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return GenerateResponse{}, info, fmt.Errorf("groq generate error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return GenerateResponse{}, info, fmt.Errorf("decode groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("groq returned empty choices")
	}
	return GenerateResponse{Text: parsed.Choices[0].Message.Content}, info, nil
}

func buildRAGPrompt(query, context string) string {
	return fmt.Sprintf(`Based on the following context from the knowledge base, please answer the user's question.

Context:
%s

User Question: %s

Provide a comprehensive answer based on the context provided. If the context
does not contain enough information to fully answer the question, indicate
what information is missing. Always cite the sources when providing
information.`, context, query)
}
