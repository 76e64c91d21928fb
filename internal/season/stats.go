package season

import (
	"math"
	"slices"
)

// Stats summarizes a sample.
type Stats struct {
	Mean    float64   `json:"mean"`
	Var     float64   `json:"var"`
	StdDev  float64   `json:"std_dev"`
	P10     float64   `json:"p10"`
	P50     float64   `json:"p50"`
	P90     float64   `json:"p90"`
	Samples []float64 `json:"-"`
}

// calcStats computes mean, population variance and interpolated percentiles.
func calcStats(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += float64(d * d)
	}
	variance := acc / float64(n)

	cp := slices.Clone(xs)
	slices.Sort(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return cp[0]
		}
		if p >= 1 {
			return cp[n-1]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return cp[i]
		}
		return cp[i]*(1-f) + cp[i+1]*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P10:     percentile(0.10),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		Samples: xs,
	}
}
