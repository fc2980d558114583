package random

import "testing"

func TestSequence_Cycles(t *testing.T) {
	seq := NewSequence(0.1, 0.2)

	got := []float64{seq.Float64(), seq.Float64(), seq.Float64()}
	want := []float64{0.1, 0.2, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if seq.Draws() != 3 {
		t.Errorf("expected 3 draws, got %d", seq.Draws())
	}
}

func TestSequence_Empty(t *testing.T) {
	seq := NewSequence()
	if v := seq.Float64(); v != 0 {
		t.Errorf("expected 0 from empty sequence, got %v", v)
	}
}

func TestSource_SameSeedSameValues(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)

	for i := 0; i < 10; i++ {
		va, vb := a.Float64(), b.Float64()
		if va != vb {
			t.Fatalf("draw %d differs: %v vs %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %d out of range: %v", i, va)
		}
	}
}
