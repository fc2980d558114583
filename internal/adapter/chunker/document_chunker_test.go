package chunker

import (
	"testing"

	"ragtour/internal/adapter/analyzer"
	"ragtour/internal/domain"
)

func TestDocumentChunker(t *testing.T) {
	chunker := NewDocumentChunker(analyzer.NewTokenizer())

	docs := []domain.Document{
		{Title: "One", Text: "alpha beta gamma", Page: 1, Source: "Notes"},
		{Title: "Two", Text: "delta", Page: 2, Source: "Notes"},
	}

	chunks := chunker.Chunk(docs)
	if len(chunks) != len(docs) {
		t.Fatalf("expected %d chunks, got %d", len(docs), len(chunks))
	}

	for i, chunk := range chunks {
		if chunk.ID != ChunkID(i) {
			t.Errorf("chunk %d: expected id %s, got %s", i, ChunkID(i), chunk.ID)
		}
		if chunk.Text != docs[i].Text {
			t.Errorf("chunk %d: text not copied verbatim", i)
		}
		if chunk.Metadata.Title != docs[i].Title || chunk.Metadata.Page != docs[i].Page || chunk.Metadata.Source != "Notes" {
			t.Errorf("chunk %d: metadata not copied: %+v", i, chunk.Metadata)
		}
		if chunk.Embedding != nil {
			t.Errorf("chunk %d: embedding should be unset before indexing", i)
		}
	}

	if chunks[0].ID != "chunk_1" {
		t.Errorf("expected 1-based ids, got %s", chunks[0].ID)
	}
	if chunks[0].TokenCount != 4 {
		t.Errorf("expected ceil(3*1.3)=4 tokens, got %d", chunks[0].TokenCount)
	}
	if chunks[1].TokenCount != 2 {
		t.Errorf("expected ceil(1*1.3)=2 tokens, got %d", chunks[1].TokenCount)
	}
}

func TestDocumentChunker_Empty(t *testing.T) {
	chunker := NewDocumentChunker(analyzer.NewTokenizer())
	if chunks := chunker.Chunk(nil); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}
