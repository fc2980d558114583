package evaluator

import (
	"testing"

	"ragtour/internal/adapter/random"
)

func TestRandomEvaluator_Bounds(t *testing.T) {
	seq := random.NewSequence(0, 0.999999, 0.5, 0.25)
	ev := NewRandomEvaluator(seq, DefaultConfidence, DefaultRelevance)

	first := ev.Evaluate()
	if first.Confidence != 70 || first.Relevance != 95 {
		t.Errorf("expected 70/95, got %d/%d", first.Confidence, first.Relevance)
	}

	second := ev.Evaluate()
	if second.Confidence != 83 {
		t.Errorf("expected confidence 83 for 0.5, got %d", second.Confidence)
	}
	if second.Relevance != 73 {
		t.Errorf("expected relevance 73 for 0.25, got %d", second.Relevance)
	}
}

func TestRandomEvaluator_AlwaysInRange(t *testing.T) {
	ev := NewRandomEvaluator(random.NewSource(7), DefaultConfidence, DefaultRelevance)

	for i := 0; i < 500; i++ {
		e := ev.Evaluate()
		if e.Confidence < 70 || e.Confidence > 95 {
			t.Fatalf("confidence out of range: %d", e.Confidence)
		}
		if e.Relevance < 65 || e.Relevance > 95 {
			t.Fatalf("relevance out of range: %d", e.Relevance)
		}
	}
}
