package spline

import (
	"github.com/cinebot/rig/utils"
)

const (
	defaultSampleCount = 21
	// Gauss-Legendre points per unit parameter interval.
	quadraturePoints = 16
)

type options struct {
	smoothing   float64
	sampleCount int
	bisector    utils.Bisector
}

func defaultOptions() options {
	return options{
		sampleCount: defaultSampleCount,
		bisector:    utils.DefaultBisector(),
	}
}

// Option configures the fitting of a spline.
type Option func(*options)

// WithSmoothing sets the weight of the second difference penalty applied to the path before
// fitting. Zero, the default, interpolates the path exactly.
func WithSmoothing(smoothing float64) Option {
	return func(o *options) {
		o.smoothing = smoothing
	}
}

// WithSampleCount sets the number of anchors placed evenly in arc length. The default is 21.
func WithSampleCount(n int) Option {
	return func(o *options) {
		o.sampleCount = n
	}
}

// WithTolerance sets the arc length tolerance used when placing anchors. The default is 1e-4.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.bisector.Tolerance = tol
	}
}

// WithMaxIterations caps the bisection steps used to place each anchor. The default is 10000.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.bisector.MaxIterations = n
	}
}
