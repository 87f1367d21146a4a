package utils

import (
	"math"

	"github.com/pkg/errors"
)

// Bisector inverts a monotonically increasing function by bisection.
type Bisector struct {
	// Tolerance is the largest accepted absolute error |f(x) - target|.
	Tolerance float64
	// MaxIterations caps the number of interval halvings.
	MaxIterations int
}

// DefaultBisector returns a Bisector with an absolute tolerance of 1e-4 and a cap of 10000 iterations.
func DefaultBisector() Bisector {
	return Bisector{Tolerance: 1e-4, MaxIterations: 10000}
}

// Invert finds x in [lo, hi] with f(x) within Tolerance of target. f must be non-decreasing on [lo, hi].
// When the cap is reached the best midpoint is returned together with an error wrapping ErrExceededIterations.
func (b Bisector) Invert(f func(float64) float64, target, lo, hi float64) (float64, error) {
	if lo > hi {
		return math.NaN(), errors.Errorf("invalid bracket [%f, %f]", lo, hi)
	}
	fLo, fHi := f(lo), f(hi)
	if math.Abs(fLo-target) <= b.Tolerance {
		return lo, nil
	}
	if math.Abs(fHi-target) <= b.Tolerance {
		return hi, nil
	}
	if target < fLo || target > fHi {
		return math.NaN(), errors.Errorf("target %f is outside [%f, %f]", target, fLo, fHi)
	}

	mid := (lo + hi) / 2
	for i := 0; i < b.MaxIterations; i++ {
		mid = (lo + hi) / 2
		val := f(mid)
		if math.Abs(val-target) <= b.Tolerance {
			return mid, nil
		}
		if val < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return mid, errors.Wrapf(ErrExceededIterations, "bisection for target %f after %d iterations", target, b.MaxIterations)
}
