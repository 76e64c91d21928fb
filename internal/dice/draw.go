package dice

// Draw under p, return if it is hit.
// p <= 0 => no hit. p >= 1 => must hit. otherwise, src.Float64() < p
func Draw(p float64, src RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	return src.Float64() < p, nil
}

// PickWeighted draws one uniform value and returns the index whose cumulative
// probability interval contains it. Zero-weight entries are never picked.
func PickWeighted(weights []float64, src RandomSource) (int, error) {
	probs, err := normalize(weights)
	if err != nil {
		return 0, err
	}
	u := src.Float64()
	acc := 0.0
	last := -1
	for i, p := range probs {
		if p <= 0 {
			continue
		}
		last = i
		acc += p
		if u < acc {
			return i, nil
		}
	}
	// float rounding can leave u just above the final cumulative bound
	return last, nil
}
