package chunker

import (
	"fmt"

	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// MaxChunkTokens is the advertised chunk size limit shown with chunk stats.
const MaxChunkTokens = 300

// DocumentChunker emits one chunk per document. Chunk IDs are positional
// (chunk_1, chunk_2, ...) and embeddings are left unset.
type DocumentChunker struct {
	tokenizer port.Tokenizer
}

func NewDocumentChunker(tokenizer port.Tokenizer) *DocumentChunker {
	return &DocumentChunker{tokenizer: tokenizer}
}

func (c *DocumentChunker) Chunk(docs []domain.Document) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(docs))
	for i, doc := range docs {
		chunks = append(chunks, domain.Chunk{
			ID:         ChunkID(i),
			Text:       doc.Text,
			TokenCount: c.tokenizer.CountTokens(doc.Text),
			Metadata: domain.ChunkMetadata{
				Page:   doc.Page,
				Title:  doc.Title,
				Source: doc.Source,
			},
		})
	}
	return chunks
}

// ChunkID returns the id of the chunk at catalog position i (0-based).
func ChunkID(i int) string {
	return fmt.Sprintf("chunk_%d", i+1)
}
