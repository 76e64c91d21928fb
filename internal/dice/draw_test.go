package dice

import (
	"errors"
	"testing"
)

func TestDrawBounds(t *testing.T) {
	got, err := Draw(0, NewSeededRNG(1))
	if err != nil || got {
		t.Fatalf("p=0 should never hit; got=%v err=%v", got, err)
	}
	got, err = Draw(1, NewSeededRNG(1))
	if err != nil || !got {
		t.Fatalf("p=1 should always hit; got=%v err=%v", got, err)
	}
	if _, err := Draw(-0.1, NewSeededRNG(1)); err == nil {
		t.Fatalf("negative p must error")
	}
}

func TestPickWeightedFrequencies(t *testing.T) {
	const n = 100000
	rng := NewSeededRNG(42)
	weights := []float64{3, 0, 1}
	counts := make([]int, len(weights))
	for i := 0; i < n; i++ {
		idx, err := PickWeighted(weights, rng)
		if err != nil {
			t.Fatal(err)
		}
		counts[idx]++
	}
	if counts[1] != 0 {
		t.Fatalf("zero weight picked %d times", counts[1])
	}
	// should be around 0.75
	freq := float64(counts[0]) / n
	if diff := freq - 0.75; diff > 0.01 || diff < -0.01 {
		t.Fatalf("freq=%f not close to 0.75", freq)
	}
}

func TestPickWeightedRejectsZeroVector(t *testing.T) {
	if _, err := PickWeighted([]float64{0, 0, 0}, NewSeededRNG(1)); !errors.Is(err, ErrInvalidProb) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidProb)
	}
}
