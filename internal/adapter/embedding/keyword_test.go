package embedding

import (
	"testing"

	"ragtour/internal/adapter/fixture"
)

func TestKeywordEmbedder_Embed(t *testing.T) {
	f, err := fixture.Default()
	if err != nil {
		t.Fatal(err)
	}
	emb := NewKeywordEmbedder(f)

	tests := []struct {
		query   string
		keyword string
	}{
		{"What is TypeScript?", "typescript"},
		{"How do GENERICS work", "generics"},
		{"strict null checks", "strict"},
		{"what about null", "null"},
		{"Generics in TypeScript", "typescript"},
		{"tell me about interfaces", "interface"},
		{"a generic function", "default"},
		{"hello", "default"},
	}

	for _, tt := range tests {
		got := emb.Embed(tt.query)
		if got.Keyword != tt.keyword {
			t.Errorf("Embed(%q) keyword = %q, want %q", tt.query, got.Keyword, tt.keyword)
		}
		want, _ := f.QueryVector(tt.keyword)
		if len(got.Vector) != len(want) || got.Vector[0] != want[0] {
			t.Errorf("Embed(%q) returned wrong vector %v", tt.query, got.Vector)
		}
	}
}

func TestKeywordEmbedder_ReturnsCopy(t *testing.T) {
	f, _ := fixture.Default()
	emb := NewKeywordEmbedder(f)

	v := emb.Embed("typescript")
	v.Vector[0] = 100

	again := emb.Embed("typescript")
	if again.Vector[0] == 100 {
		t.Error("Embed must not expose the fixture table")
	}
	if emb.Dimension() != 8 {
		t.Errorf("expected dimension 8, got %d", emb.Dimension())
	}
}
