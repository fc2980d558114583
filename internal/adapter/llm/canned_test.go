package llm

import (
	"testing"

	"ragtour/internal/adapter/fixture"
)

func TestCannedLLM_Generate(t *testing.T) {
	f, err := fixture.Default()
	if err != nil {
		t.Fatal(err)
	}
	m := NewCannedLLM(f)

	tests := []struct {
		query string
		key   string
	}{
		{"Tell me about generics and enums", "generics"},
		{"A generic function", "generics"},
		{"ENUM values", "enums"},
		{"interface vs enum", "enums"},
		{"What are interfaces?", "interface"},
		{"strict null checks", "strict"},
		{"is null a type", "strict"},
		{"What is TypeScript?", "typescript"},
		{"hello", "typescript"},
	}

	for _, tt := range tests {
		want, _ := f.Answer(tt.key)
		if got := m.Generate(tt.query); got != want {
			t.Errorf("Generate(%q) did not return the %q answer", tt.query, tt.key)
		}
	}
}

func TestCannedLLM_Deterministic(t *testing.T) {
	f, _ := fixture.Default()
	m := NewCannedLLM(f)

	first := m.Generate("explain enums")
	for i := 0; i < 5; i++ {
		if m.Generate("explain enums") != first {
			t.Fatal("Generate must be deterministic")
		}
	}
}
