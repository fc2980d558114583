package usecase

import (
	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// RetrieveUseCase resolves a query, ranks the store against it and reranks
// the top candidates. Each step is exposed separately so the pipeline can
// report between them.
type RetrieveUseCase struct {
	embedder  port.QueryEmbedder
	retriever port.Retriever
	reranker  port.Reranker
}

// NewRetrieveUseCase creates a new retrieve use case.
func NewRetrieveUseCase(
	embedder port.QueryEmbedder,
	retriever port.Retriever,
	reranker port.Reranker,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder:  embedder,
		retriever: retriever,
		reranker:  reranker,
	}
}

// Resolve maps the query to its keyword vector.
func (u *RetrieveUseCase) Resolve(query string) domain.QueryVector {
	return u.embedder.Embed(query)
}

// Search ranks every stored entry against the resolved vector.
func (u *RetrieveUseCase) Search(qv domain.QueryVector) ([]domain.ScoredChunk, []domain.ScoredChunk, error) {
	return u.retriever.Search(qv)
}

// Rerank runs the second-pass scorer over the top candidates.
func (u *RetrieveUseCase) Rerank(topK []domain.ScoredChunk) []domain.RerankedChunk {
	return u.reranker.Rerank(topK)
}

// EmbedderModel returns the query embedder's model name and dimension.
func (u *RetrieveUseCase) EmbedderModel() (string, int) {
	return u.embedder.ModelName(), u.embedder.Dimension()
}

// RerankerModel returns the second-pass scorer's model name.
func (u *RetrieveUseCase) RerankerModel() string {
	return u.reranker.ModelName()
}
