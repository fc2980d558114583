package port

import "ragtour/internal/domain"

// QueryEmbedder maps a query string into the same vector space as the chunks.
type QueryEmbedder interface {
	// Embed resolves the query to a keyword and its vector.
	Embed(query string) domain.QueryVector

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// VectorStore persists indexed chunks for the lifetime of an ingestion session.
// Implementations copy on the way in and on the way out.
type VectorStore interface {
	// Replace discards every entry and stores a copy of entries in order.
	Replace(entries []domain.Chunk) error

	// Entries returns a copy of all stored entries in insertion order.
	Entries() ([]domain.Chunk, error)

	// Count returns the number of stored entries.
	Count() (int, error)

	// Clear removes every entry.
	Clear() error
}
