package port

import "ragtour/internal/domain"

type Chunker interface {
	Chunk(docs []domain.Document) []domain.Chunk
}
