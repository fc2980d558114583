package port

import "ragtour/internal/domain"

// PromptBuilder assembles the generation prompt from reranked context.
type PromptBuilder interface {
	Build(query string, context []domain.RerankedChunk) domain.Prompt
}
