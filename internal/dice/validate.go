package dice

import (
	"errors"
	"math"
)

var (
	ErrInvalidProb    = errors.New("invalid probability vector; values must be finite, >= 0 and not all zero")
	ErrInfeasibleCaps = errors.New("infeasible face caps")
)

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 {
		return ErrInvalidProb
	}
	return nil
}

// normalize returns p scaled to sum to 1.
func normalize(p []float64) ([]float64, error) {
	if len(p) == 0 {
		return nil, ErrInvalidProb
	}
	var sum float64
	for _, v := range p {
		if err := validateProb(v); err != nil {
			return nil, err
		}
		sum += v
	}
	if sum <= 0 {
		return nil, ErrInvalidProb
	}
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v / sum
	}
	return out, nil
}
