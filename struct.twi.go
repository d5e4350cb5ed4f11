package waterpy

import (
	"fmt"
	"math"
)

// twiSumTolerance is the allowable departure of the fractional areas from
// unity.
const twiSumTolerance = 1e-3

// TWI is the topographic wetness index distribution of the watershed: an
// ordered histogram of index values paired with fractional areas. The
// ordering (ascending or descending, either is accepted) fixes the
// integration order over index classes so cumulative area-weighted sums are
// reproducible.
type TWI struct {
	Values []float64 // ln(a/tanβ) per class
	Areas  []float64 // fractional saturated area per class
}

// Check validates the distribution.
func (t *TWI) Check() error {
	n := len(t.Values)
	if n == 0 {
		return &ConfigurationError{"twi", "empty distribution"}
	}
	if len(t.Areas) != n {
		return &ConfigurationError{"twi", fmt.Sprintf("%d index values against %d areas", n, len(t.Areas))}
	}
	s := 0.
	for i, a := range t.Areas {
		if a < 0. || a > 1. {
			return &ConfigurationError{"twi", fmt.Sprintf("class %d fractional area %g not within [0,1]", i, a)}
		}
		s += a
	}
	if math.Abs(s-1.) > twiSumTolerance {
		return &ConfigurationError{"twi", fmt.Sprintf("fractional areas sum to %g", s)}
	}
	asc, desc := true, true
	for i := 1; i < n; i++ {
		if t.Values[i] < t.Values[i-1] {
			asc = false
		}
		if t.Values[i] > t.Values[i-1] {
			desc = false
		}
	}
	if !asc && !desc {
		return &ConfigurationError{"twi", "index values must be ordered consistently"}
	}
	return nil
}

// WeightedMean returns the area-weighted mean topographic index.
func (t *TWI) WeightedMean() float64 {
	sv, sw := 0., 0.
	for i, v := range t.Values {
		sv += v * t.Areas[i]
		sw += t.Areas[i]
	}
	return sv / sw
}
