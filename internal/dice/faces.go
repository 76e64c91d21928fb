package dice

import (
	"fmt"
	"math"
	"sort"
)

// Faces is the number of sides on the resolution die.
const Faces = 20

// Cap bounds how many faces a single outcome may own.
type Cap struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Range is the inclusive span of rolls owned by one outcome. Empty when Lo > Hi.
type Range struct {
	Lo int
	Hi int
}

// ValidateCaps reports whether caps can be jointly satisfied for n outcomes.
// A nil caps slice means [0, Faces] for every outcome.
func ValidateCaps(n int, caps []Cap) error {
	if caps == nil {
		return nil
	}
	if len(caps) != n {
		return fmt.Errorf("%w: %d caps for %d outcomes", ErrInfeasibleCaps, len(caps), n)
	}
	sumMin, sumMax := 0, 0
	for i, c := range caps {
		if c.Min < 0 || c.Max > Faces || c.Min > c.Max {
			return fmt.Errorf("%w: cap[%d]=[%d,%d]", ErrInfeasibleCaps, i, c.Min, c.Max)
		}
		sumMin += c.Min
		sumMax += c.Max
	}
	if sumMin > Faces || sumMax < Faces {
		return fmt.Errorf("%w: sum(min)=%d sum(max)=%d, need sum(min) <= %d <= sum(max)", ErrInfeasibleCaps, sumMin, sumMax, Faces)
	}
	return nil
}

// AllocateFaces apportions the die's faces among outcomes.
//
// p is normalized, scaled to Faces and floored; the shortfall goes one face at a
// time to the largest remainders (ties by index). Each count is then clamped
// into its cap and, if clamping moved the total, rebalanced by sweeping the
// outcomes in index order, one face per outcome per sweep.
//
// The returned slice always sums to Faces.
func AllocateFaces(p []float64, caps []Cap) ([]int, error) {
	probs, err := normalize(p)
	if err != nil {
		return nil, err
	}
	if err := ValidateCaps(len(probs), caps); err != nil {
		return nil, err
	}

	n := len(probs)
	faces := make([]int, n)
	rem := make([]float64, n)
	total := 0
	for i, v := range probs {
		raw := v * Faces
		faces[i] = int(math.Floor(raw))
		rem[i] = raw - float64(faces[i])
		total += faces[i]
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rem[order[a]] > rem[order[b]] })
	for k := 0; total < Faces; k++ {
		faces[order[k%n]]++
		total++
	}

	if caps != nil {
		total = 0
		for i, c := range caps {
			faces[i] = min(max(faces[i], c.Min), c.Max)
			total += faces[i]
		}
		for total < Faces {
			for i := 0; i < n && total < Faces; i++ {
				if faces[i] < caps[i].Max {
					faces[i]++
					total++
				}
			}
		}
		for total > Faces {
			for i := 0; i < n && total > Faces; i++ {
				if faces[i] > caps[i].Min {
					faces[i]--
					total--
				}
			}
		}
	}

	mustSumToFaces(faces)
	return faces, nil
}

// OutcomeFromRoll maps a roll in [1, Faces] onto the outcome owning that face.
// Outcome 0 owns the lowest rolls.
func OutcomeFromRoll(faces []int, roll int) int {
	if roll < 1 || roll > Faces {
		panic(fmt.Sprintf("dice: roll %d outside [1,%d]", roll, Faces))
	}
	mustSumToFaces(faces)
	acc := 0
	for i, f := range faces {
		acc += f
		if roll <= acc {
			return i
		}
	}
	panic("dice: unreachable, faces cover every roll")
}

// FaceRanges returns the contiguous partition of [1, Faces] described by faces.
func FaceRanges(faces []int) []Range {
	mustSumToFaces(faces)
	out := make([]Range, len(faces))
	lo := 1
	for i, f := range faces {
		out[i] = Range{Lo: lo, Hi: lo + f - 1}
		lo += f
	}
	return out
}

func mustSumToFaces(faces []int) {
	sum := 0
	for _, f := range faces {
		if f < 0 {
			panic(fmt.Sprintf("dice: negative face count in %v", faces))
		}
		sum += f
	}
	if sum != Faces {
		panic(fmt.Sprintf("dice: face allocation %v sums to %d, want %d", faces, sum, Faces))
	}
}
