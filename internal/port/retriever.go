package port

import "ragtour/internal/domain"

// Retriever scores every stored chunk against a query vector.
type Retriever interface {
	// Search returns all scored entries in ranked order plus the top-k prefix.
	Search(query domain.QueryVector) (scored []domain.ScoredChunk, topK []domain.ScoredChunk, err error)
}
