package retriever

import (
	"fmt"
	"sort"

	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// DefaultTopK is the number of candidates handed to the reranker.
const DefaultTopK = 3

// VectorRetriever ranks every stored chunk by cosine similarity (flat index).
type VectorRetriever struct {
	store port.VectorStore
	topK  int
}

func NewVectorRetriever(store port.VectorStore) *VectorRetriever {
	return &VectorRetriever{
		store: store,
		topK:  DefaultTopK,
	}
}

// Search scores all entries, sorts them descending (stable, so the first
// indexed entry wins ties) and returns the full ranking plus its top-k prefix.
func (r *VectorRetriever) Search(query domain.QueryVector) ([]domain.ScoredChunk, []domain.ScoredChunk, error) {
	entries, err := r.store.Entries()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read vector store: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil, domain.ErrEmptyStore
	}

	scored := make([]domain.ScoredChunk, 0, len(entries))
	for _, entry := range entries {
		sim, err := CosineSimilarity(query.Vector, entry.Embedding)
		if err != nil {
			return nil, nil, fmt.Errorf("scoring %s: %w", entry.ID, err)
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk:      entry,
			Similarity: sim,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return rankedBefore(scored[i].Similarity, scored[j].Similarity)
	})

	k := min(r.topK, len(scored))
	top := make([]domain.ScoredChunk, k)
	copy(top, scored[:k])

	return scored, top, nil
}
