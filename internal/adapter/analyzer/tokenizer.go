package analyzer

import (
	"math"
	"strings"
)

// DefaultTokenFactor approximates subword tokens per whitespace word.
const DefaultTokenFactor = 1.3

// Tokenizer estimates LLM token counts without a real vocabulary.
type Tokenizer struct {
	factor float64
}

// NewTokenizer creates a Tokenizer using DefaultTokenFactor.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{factor: DefaultTokenFactor}
}

// Words splits text on runs of whitespace.
func (t *Tokenizer) Words(text string) []string {
	return strings.Fields(text)
}

// CountTokens returns ceil(words * factor).
func (t *Tokenizer) CountTokens(text string) int {
	words := len(t.Words(text))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) * t.factor))
}
