package usecase

import (
	"regexp"
	"strings"
	"testing"

	"ragtour/internal/adapter/analyzer"
	"ragtour/internal/domain"
)

var markerPattern = regexp.MustCompile(`\[\d+\]`)

func reranked(titles ...string) []domain.RerankedChunk {
	out := make([]domain.RerankedChunk, len(titles))
	for i, title := range titles {
		out[i] = domain.RerankedChunk{
			ScoredChunk: domain.ScoredChunk{
				Chunk: domain.Chunk{
					ID:       title,
					Text:     "Body of " + title + ".",
					Metadata: domain.ChunkMetadata{Title: title, Page: i + 1},
				},
			},
			OriginalRank: i + 1,
		}
	}
	return out
}

func TestPromptBuild(t *testing.T) {
	uc := NewPromptUseCase(analyzer.NewTokenizer())
	query := "How do strict null checks work?"

	prompt := uc.Build(query, reranked("Strict Null Checks", "Generics in TypeScript", "TypeScript Overview"))

	markers := markerPattern.FindAllString(prompt.Text, -1)
	if len(markers) != 3 {
		t.Fatalf("expected 3 citation markers, got %v", markers)
	}
	for i, m := range markers {
		if want := "[" + string(rune('1'+i)) + "]"; m != want {
			t.Errorf("marker %d: expected %s, got %s", i, want, m)
		}
	}

	if !strings.HasSuffix(prompt.Text, query) {
		t.Errorf("prompt should end with the query, got %q", prompt.Text[len(prompt.Text)-40:])
	}

	sys := strings.Index(prompt.Text, "SYSTEM:")
	ctx := strings.Index(prompt.Text, "CONTEXT:")
	q := strings.Index(prompt.Text, "QUESTION:")
	if !(sys == 0 && sys < ctx && ctx < q) {
		t.Errorf("sections out of order: system=%d context=%d question=%d", sys, ctx, q)
	}

	if !strings.Contains(prompt.Context, "[1] (source: Strict Null Checks, page: 1)\nBody of Strict Null Checks.") {
		t.Errorf("unexpected context rendering:\n%s", prompt.Context)
	}

	want := analyzer.NewTokenizer().CountTokens(prompt.Text)
	if prompt.TokenCount != want || want == 0 {
		t.Errorf("expected token count %d, got %d", want, prompt.TokenCount)
	}
}

func TestPromptBuild_DoesNotMutateInput(t *testing.T) {
	uc := NewPromptUseCase(analyzer.NewTokenizer())
	input := reranked("A", "B")
	before := input[0]

	uc.Build("q", input)

	if input[0].Chunk.Text != before.Chunk.Text || input[0].OriginalRank != before.OriginalRank {
		t.Error("build mutated its input")
	}
}

func TestPromptBuild_MarkersMatchContextSize(t *testing.T) {
	uc := NewPromptUseCase(analyzer.NewTokenizer())
	for k := 0; k <= 3; k++ {
		titles := []string{"A", "B", "C"}[:k]
		prompt := uc.Build("what?", reranked(titles...))
		if n := len(markerPattern.FindAllString(prompt.Text, -1)); n != k {
			t.Errorf("k=%d: expected %d markers, got %d", k, k, n)
		}
	}
}
