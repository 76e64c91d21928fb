package dice

import (
	"errors"
	"reflect"
	"testing"
)

func sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

func TestAllocateFacesLargestRemainder(t *testing.T) {
	tcs := []struct {
		name string
		p    []float64
		want []int
	}{
		{"exact", []float64{0.5, 0.3, 0.2}, []int{10, 6, 4}},
		{"unnormalized", []float64{5, 3, 2}, []int{10, 6, 4}},
		{"ties by index", []float64{1, 1, 1}, []int{7, 7, 6}},
		{"remainder order", []float64{0.33, 0.33, 0.34}, []int{7, 6, 7}},
		{"zero outcome", []float64{0.95, 0.05, 0}, []int{19, 1, 0}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AllocateFaces(tc.p, nil)
			if err != nil {
				t.Fatalf("AllocateFaces(%v) error = %v", tc.p, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("AllocateFaces(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestAllocateFacesClampAndRebalance(t *testing.T) {
	tcs := []struct {
		name string
		p    []float64
		caps []Cap
		want []int
	}{
		{"under after clamp", []float64{0.9, 0.1}, []Cap{{3, 13}, {3, 17}}, []int{13, 7}},
		{"over after clamp", []float64{0, 1}, []Cap{{5, 20}, {0, 20}}, []int{5, 15}},
		{"steal floor", []float64{0.6, 0.4, 0}, []Cap{{3, 13}, {4, 16}, {1, 4}}, []int{11, 8, 1}},
		{"within caps untouched", []float64{0.5, 0.5}, []Cap{{1, 19}, {1, 19}}, []int{10, 10}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AllocateFaces(tc.p, tc.caps)
			if err != nil {
				t.Fatalf("AllocateFaces error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("AllocateFaces(%v, %v) = %v, want %v", tc.p, tc.caps, got, tc.want)
			}
		})
	}
}

func TestAllocateFacesRejectsBadInput(t *testing.T) {
	if _, err := AllocateFaces([]float64{0, 0}, nil); !errors.Is(err, ErrInvalidProb) {
		t.Fatalf("all-zero vector error = %v, want %v", err, ErrInvalidProb)
	}
	if _, err := AllocateFaces([]float64{-0.1, 1.1}, nil); !errors.Is(err, ErrInvalidProb) {
		t.Fatalf("negative entry error = %v, want %v", err, ErrInvalidProb)
	}
	infeasible := [][]Cap{
		{{11, 20}, {10, 20}}, // sum(min) > 20
		{{0, 9}, {0, 10}},    // sum(max) < 20
		{{5, 4}, {0, 20}},    // min > max
		{{0, 20}},            // length mismatch
	}
	for _, caps := range infeasible {
		if _, err := AllocateFaces([]float64{0.5, 0.5}, caps); !errors.Is(err, ErrInfeasibleCaps) {
			t.Fatalf("caps %v error = %v, want %v", caps, err, ErrInfeasibleCaps)
		}
	}
}

// Randomized vectors and caps: sum is always 20, caps hold, and without binding
// caps a strictly larger probability never gets fewer faces.
func TestAllocateFacesProperties(t *testing.T) {
	rng := NewSeededRNG(7)
	for iter := 0; iter < 2000; iter++ {
		n := 2 + rng.IntN(9)
		p := make([]float64, n)
		for i := range p {
			p[i] = rng.Float64()
		}
		p[rng.IntN(n)] += 0.01

		got, err := AllocateFaces(p, nil)
		if err != nil {
			t.Fatalf("iter %d: %v", iter, err)
		}
		if s := sum(got); s != Faces {
			t.Fatalf("iter %d: sum=%d faces=%v", iter, s, got)
		}
		for i := range p {
			for j := range p {
				if p[i] > p[j] && got[i] < got[j] {
					t.Fatalf("iter %d: p[%d]=%f > p[%d]=%f but faces %d < %d", iter, i, p[i], j, p[j], got[i], got[j])
				}
			}
		}

		caps := make([]Cap, n)
		for i := range caps {
			lo := rng.IntN(3)
			caps[i] = Cap{Min: lo, Max: lo + rng.IntN(Faces-lo+1)}
		}
		if ValidateCaps(n, caps) != nil {
			continue
		}
		capped, err := AllocateFaces(p, caps)
		if err != nil {
			t.Fatalf("iter %d: caps %v: %v", iter, caps, err)
		}
		if s := sum(capped); s != Faces {
			t.Fatalf("iter %d: capped sum=%d faces=%v", iter, s, capped)
		}
		for i, c := range caps {
			if capped[i] < c.Min || capped[i] > c.Max {
				t.Fatalf("iter %d: faces[%d]=%d outside %v", iter, i, capped[i], c)
			}
		}
	}
}

func TestOutcomeFromRollPartition(t *testing.T) {
	faces := []int{3, 0, 9, 8}
	counts := make([]int, len(faces))
	prev := 0
	for roll := 1; roll <= Faces; roll++ {
		o := OutcomeFromRoll(faces, roll)
		if o < prev {
			t.Fatalf("roll %d maps to %d after %d; ranges must be contiguous", roll, o, prev)
		}
		prev = o
		counts[o]++
	}
	if !reflect.DeepEqual(counts, faces) {
		t.Fatalf("outcome counts %v, want %v", counts, faces)
	}

	ranges := FaceRanges(faces)
	want := []Range{{1, 3}, {4, 3}, {4, 12}, {13, 20}}
	if !reflect.DeepEqual(ranges, want) {
		t.Fatalf("FaceRanges = %v, want %v", ranges, want)
	}
}

func TestOutcomeFromRollPanicsOutsideDie(t *testing.T) {
	for _, roll := range []int{0, 21} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("roll %d should panic", roll)
				}
			}()
			OutcomeFromRoll([]int{10, 10}, roll)
		}()
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("short face vector should panic")
		}
	}()
	OutcomeFromRoll([]int{10, 9}, 1)
}
