package evaluator

import (
	"math"

	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// Range is an inclusive percentage range.
type Range struct {
	Min int
	Max int
}

var (
	DefaultConfidence = Range{Min: 70, Max: 95}
	DefaultRelevance  = Range{Min: 65, Max: 95}
)

// RandomEvaluator produces display-only quality scores. It has no input
// from the rest of the pipeline.
type RandomEvaluator struct {
	rng        port.RandomSource
	confidence Range
	relevance  Range
}

func NewRandomEvaluator(rng port.RandomSource, confidence, relevance Range) *RandomEvaluator {
	return &RandomEvaluator{
		rng:        rng,
		confidence: normalize(confidence),
		relevance:  normalize(relevance),
	}
}

// Evaluate draws confidence first, then relevance.
func (e *RandomEvaluator) Evaluate() domain.Evaluation {
	return domain.Evaluation{
		Confidence: e.draw(e.confidence),
		Relevance:  e.draw(e.relevance),
	}
}

func (e *RandomEvaluator) draw(r Range) int {
	return r.Min + int(math.Round(e.rng.Float64()*float64(r.Max-r.Min)))
}

func normalize(r Range) Range {
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}
