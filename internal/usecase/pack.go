package usecase

import (
	"fmt"
	"strings"

	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// SystemInstruction opens every prompt.
const SystemInstruction = "You are a helpful assistant. Answer the question using only the provided context. " +
	"Cite sources by their bracketed index after each claim. " +
	"If the context does not contain the answer, say so."

// PromptUseCase assembles the reranked context into a prompt.
type PromptUseCase struct {
	tokenizer port.Tokenizer
}

// NewPromptUseCase creates a new prompt use case.
func NewPromptUseCase(tokenizer port.Tokenizer) *PromptUseCase {
	return &PromptUseCase{tokenizer: tokenizer}
}

// Build renders the system, context and question sections in that order.
// Context entries are numbered from 1 in reranked order.
func (u *PromptUseCase) Build(query string, context []domain.RerankedChunk) domain.Prompt {
	entries := make([]string, len(context))
	for i, r := range context {
		entries[i] = fmt.Sprintf("[%d] (source: %s, page: %d)\n%s",
			i+1, r.Chunk.Metadata.Title, r.Chunk.Metadata.Page, r.Chunk.Text)
	}
	contextText := strings.Join(entries, "\n\n")

	var b strings.Builder
	b.WriteString("SYSTEM:\n")
	b.WriteString(SystemInstruction)
	b.WriteString("\n\nCONTEXT:\n")
	b.WriteString(contextText)
	b.WriteString("\n\nQUESTION:\n")
	b.WriteString(query)
	text := b.String()

	return domain.Prompt{
		System:     SystemInstruction,
		Context:    contextText,
		Question:   query,
		Text:       text,
		TokenCount: u.tokenizer.CountTokens(text),
	}
}
