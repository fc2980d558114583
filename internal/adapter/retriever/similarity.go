package retriever

import (
	"fmt"
	"math"

	"ragtour/internal/domain"
)

// CosineSimilarity returns dot(a,b) / (|a| * |b|).
// A zero vector on either side yields NaN, which ranking treats as unrankable.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// rankedBefore orders scores descending with NaN sorted last.
func rankedBefore(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a > b
}
