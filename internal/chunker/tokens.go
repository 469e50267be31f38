package chunker

import (
	"math"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens with the cl100k_base encoding, falling back to a
// word-count approximation when the encoding is unavailable (e.g. offline).
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTokenCounter() *TokenCounter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &TokenCounter{}
	}
	return &TokenCounter{enc: enc}
}

// NewApproxTokenCounter always uses the fallback arithmetic. Exposed so tests
// cover both counting paths.
func NewApproxTokenCounter() *TokenCounter {
	return &TokenCounter{}
}

func (c *TokenCounter) Count(text string) int {
	if c != nil && c.enc != nil {
		return len(c.enc.Encode(text, nil, nil))
	}
	return ApproxTokens(text)
}

// ApproxTokens estimates word_count x 1.3, rounded up.
func ApproxTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) * 1.3))
}
