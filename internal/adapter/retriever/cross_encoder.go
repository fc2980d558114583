package retriever

import (
	"sort"

	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// Default jitter bounds applied to the first-pass similarity.
const (
	DefaultJitterMin = -0.03
	DefaultJitterMax = 0.12
)

// CrossEncoderReranker stands in for an expensive second-pass scorer. Each
// candidate's similarity is scaled by (1 + jitter) with jitter drawn
// uniformly from [jitterMin, jitterMax).
type CrossEncoderReranker struct {
	rng       port.RandomSource
	jitterMin float64
	jitterMax float64
}

// NewCrossEncoderReranker creates a reranker drawing from rng.
func NewCrossEncoderReranker(rng port.RandomSource, jitterMin, jitterMax float64) *CrossEncoderReranker {
	if jitterMax < jitterMin {
		jitterMin, jitterMax = jitterMax, jitterMin
	}
	return &CrossEncoderReranker{
		rng:       rng,
		jitterMin: jitterMin,
		jitterMax: jitterMax,
	}
}

// Rerank scores candidates in input order, records their 1-based input
// position and sorts by the new score. Ties keep input order.
func (r *CrossEncoderReranker) Rerank(candidates []domain.ScoredChunk) []domain.RerankedChunk {
	results := make([]domain.RerankedChunk, len(candidates))
	for i, c := range candidates {
		jitter := r.jitterMin + r.rng.Float64()*(r.jitterMax-r.jitterMin)
		results[i] = domain.RerankedChunk{
			ScoredChunk:  c,
			RerankScore:  c.Similarity * (1 + jitter),
			OriginalRank: i + 1,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return rankedBefore(results[i].RerankScore, results[j].RerankScore)
	})

	return results
}

// ModelName returns the model name.
func (r *CrossEncoderReranker) ModelName() string {
	return "simulated-cross-encoder"
}
