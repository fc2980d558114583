package retriever

import (
	"math"
	"sort"
	"testing"

	"ragtour/internal/adapter/random"
	"ragtour/internal/domain"
)

func scoredList(sims ...float64) []domain.ScoredChunk {
	out := make([]domain.ScoredChunk, len(sims))
	for i, s := range sims {
		out[i] = domain.ScoredChunk{
			Chunk:      domain.Chunk{ID: string(rune('a' + i))},
			Similarity: s,
		}
	}
	return out
}

func TestCrossEncoderReranker_Reorders(t *testing.T) {
	// jitter(0) = -0.03, jitter(0.999) ~ +0.12
	rng := random.NewSequence(0, 0.999, 0)
	r := NewCrossEncoderReranker(rng, DefaultJitterMin, DefaultJitterMax)

	results := r.Rerank(scoredList(0.9, 0.88, 0.5))
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Chunk.ID != "b" || results[0].OriginalRank != 2 {
		t.Errorf("expected b (originally 2nd) first, got %s (rank %d)", results[0].Chunk.ID, results[0].OriginalRank)
	}
	if results[1].Chunk.ID != "a" || results[1].OriginalRank != 1 {
		t.Errorf("expected a second, got %s", results[1].Chunk.ID)
	}

	want := 0.9 * (1 - 0.03)
	if math.Abs(results[1].RerankScore-want) > 1e-9 {
		t.Errorf("expected rerank score %f, got %f", want, results[1].RerankScore)
	}
	if results[1].Similarity != 0.9 {
		t.Errorf("first-pass similarity should be preserved, got %f", results[1].Similarity)
	}
}

func TestCrossEncoderReranker_OriginalRankIsPermutation(t *testing.T) {
	r := NewCrossEncoderReranker(random.NewSource(42), DefaultJitterMin, DefaultJitterMax)

	for run := 0; run < 20; run++ {
		results := r.Rerank(scoredList(0.8, 0.7, 0.6, 0.5, 0.4))
		ranks := make([]int, len(results))
		for i, res := range results {
			ranks[i] = res.OriginalRank
			if res.Similarity*(1+DefaultJitterMin) > res.RerankScore+1e-12 ||
				res.RerankScore > res.Similarity*(1+DefaultJitterMax)+1e-12 {
				t.Errorf("rerank score %f outside jitter bounds of %f", res.RerankScore, res.Similarity)
			}
		}
		sort.Ints(ranks)
		for i, rank := range ranks {
			if rank != i+1 {
				t.Fatalf("original ranks are not a permutation of 1..5: %v", ranks)
			}
		}
		for i := 1; i < len(results); i++ {
			if results[i].RerankScore > results[i-1].RerankScore {
				t.Errorf("results not sorted by rerank score at %d", i)
			}
		}
	}
}

func TestCrossEncoderReranker_Empty(t *testing.T) {
	r := NewCrossEncoderReranker(random.NewSequence(), DefaultJitterMin, DefaultJitterMax)
	if results := r.Rerank(nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestCrossEncoderReranker_SwappedBounds(t *testing.T) {
	r := NewCrossEncoderReranker(random.NewSequence(0), 0.12, -0.03)
	results := r.Rerank(scoredList(1))
	if math.Abs(results[0].RerankScore-0.97) > 1e-9 {
		t.Errorf("expected bounds to be normalised, got %f", results[0].RerankScore)
	}
}
