package port

import "ragtour/internal/domain"

// Reranker rescores the top-K candidates and reorders them. It never adds
// or drops items.
type Reranker interface {
	Rerank(candidates []domain.ScoredChunk) []domain.RerankedChunk

	// ModelName returns the name of the scoring model.
	ModelName() string
}
