package analyzer

import (
	"testing"
)

func TestTokenizer_CountTokens(t *testing.T) {
	tok := NewTokenizer()

	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"hello", 2},
		{"hello world", 3},
		{"one two three four five six seven eight nine ten", 13},
		{"  leading and trailing  ", 4},
		{"tabs\tand\nnewlines", 4},
	}

	for _, tt := range tests {
		got := tok.CountTokens(tt.input)
		if got != tt.expected {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestTokenizer_Words(t *testing.T) {
	tok := NewTokenizer()

	words := tok.Words("func(x, y)  returns\tint")
	if len(words) != 4 {
		t.Errorf("expected 4 words, got %d: %v", len(words), words)
	}
}
