package usecase

import (
	"fmt"

	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// IndexUseCase turns the document catalog into stored vector entries.
type IndexUseCase struct {
	chunker port.Chunker
	store   port.VectorStore
}

// NewIndexUseCase creates a new index use case.
func NewIndexUseCase(chunker port.Chunker, store port.VectorStore) *IndexUseCase {
	return &IndexUseCase{
		chunker: chunker,
		store:   store,
	}
}

// Chunk produces one chunk per document, in catalog order.
func (u *IndexUseCase) Chunk(docs []domain.Document) []domain.Chunk {
	return u.chunker.Chunk(docs)
}

// Index assigns embeddings[i] to chunks[i] and replaces the store contents
// with a copy of the result. The returned slice is the working set; the
// store never aliases it.
func (u *IndexUseCase) Index(chunks []domain.Chunk, embeddings [][]float32) ([]domain.Chunk, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrUnresolvedFixture, len(chunks), len(embeddings))
	}

	working := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		c.Embedding = make([]float32, len(embeddings[i]))
		copy(c.Embedding, embeddings[i])
		working[i] = c
	}

	if err := u.store.Replace(working); err != nil {
		return nil, fmt.Errorf("failed to store vectors: %w", err)
	}

	return working, nil
}

// Reset empties the store.
func (u *IndexUseCase) Reset() error {
	if err := u.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear vector store: %w", err)
	}
	return nil
}

// Stored returns the number of stored entries.
func (u *IndexUseCase) Stored() (int, error) {
	return u.store.Count()
}
