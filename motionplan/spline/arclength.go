// Package spline fits smooth curves through recorded waypoints and reparameterizes them by arc
// length, so that evenly spaced queries move at constant speed along the path.
package spline

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"

	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/utils"
)

// ArcLengthSpline is a D-dimensional curve through a path, parameterized by the distance travelled
// along it. It is immutable once built.
type ArcLengthSpline struct {
	dim     int
	length  float64
	anchors []float64
	curves  []*interp.NaturalCubic
}

// NewArcLengthSpline fits a natural cubic spline through path, places anchors evenly spaced in arc
// length on it, and refits a spline through the anchors indexed by arc length.
func NewArcLengthSpline(path [][]float64, opts ...Option) (*ArcLengthSpline, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.sampleCount < 2 {
		return nil, errors.Errorf("sample count must be at least 2, got %d", o.sampleCount)
	}
	dim, err := checkPath(path)
	if err != nil {
		return nil, err
	}

	columns := make([][]float64, dim)
	for d := range columns {
		columns[d] = lo.Map(path, func(p []float64, _ int) float64 { return p[d] })
		if o.smoothing > 0 {
			if columns[d], err = smooth(columns[d], o.smoothing); err != nil {
				return nil, err
			}
		}
	}

	params := make([]float64, len(path))
	floats.Span(params, 0, float64(len(path)-1))
	curve, err := fitCurves(params, columns)
	if err != nil {
		return nil, err
	}

	speed := func(t float64) float64 {
		sum := 0.
		for _, c := range curve {
			d := c.PredictDerivative(t)
			sum += d * d
		}
		return math.Sqrt(sum)
	}
	cumulative := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		cumulative[i] = cumulative[i-1] + quad.Fixed(speed, float64(i-1), float64(i), quadraturePoints, quad.Legendre{}, 0)
	}
	total := cumulative[len(cumulative)-1]
	if total < 1e-12 {
		return nil, errors.Wrap(ErrDegeneratePath, "path has zero length")
	}
	arcLength := func(t float64) float64 {
		i := math.Floor(t)
		if int(i) >= len(cumulative)-1 {
			return total
		}
		if t == i {
			return cumulative[int(i)]
		}
		return cumulative[int(i)] + quad.Fixed(speed, i, t, quadraturePoints, quad.Legendre{}, 0)
	}

	anchors := make([]float64, o.sampleCount)
	floats.Span(anchors, 0, total)
	anchorParams := make([]float64, o.sampleCount)
	anchorParams[len(anchorParams)-1] = params[len(params)-1]
	seg := 0
	for j := 1; j < len(anchors)-1; j++ {
		for seg < len(cumulative)-2 && cumulative[seg+1] < anchors[j] {
			seg++
		}
		anchorParams[j], err = o.bisector.Invert(arcLength, anchors[j], float64(seg), float64(seg+1))
		if err != nil {
			return nil, errors.Wrapf(err, "placing anchor %d at arc length %f", j, anchors[j])
		}
	}

	anchorColumns := make([][]float64, dim)
	for d := range anchorColumns {
		anchorColumns[d] = lo.Map(anchorParams, func(t float64, _ int) float64 { return curve[d].Predict(t) })
	}
	// endpoints are pinned to the (smoothed) path ends
	for d := range anchorColumns {
		anchorColumns[d][0] = columns[d][0]
		anchorColumns[d][len(anchors)-1] = columns[d][len(path)-1]
	}
	curves, err := fitCurves(anchors, anchorColumns)
	if err != nil {
		return nil, err
	}
	return &ArcLengthSpline{dim: dim, length: total, anchors: anchors, curves: curves}, nil
}

func checkPath(path [][]float64) (int, error) {
	if len(path) < 2 {
		return 0, errors.Wrapf(ErrDegeneratePath, "need at least 2 points, got %d", len(path))
	}
	dim := len(path[0])
	if dim == 0 {
		return 0, errors.Wrap(ErrDegeneratePath, "points have no dimensions")
	}
	for i, p := range path {
		if len(p) != dim {
			return 0, errors.Wrapf(referenceframe.ErrDimensionMismatch, "point %d has %d dimensions, expected %d", i, len(p), dim)
		}
	}
	return dim, nil
}

func fitCurves(xs []float64, columns [][]float64) ([]*interp.NaturalCubic, error) {
	curves := make([]*interp.NaturalCubic, len(columns))
	for d, ys := range columns {
		curves[d] = &interp.NaturalCubic{}
		if err := curves[d].Fit(xs, ys); err != nil {
			return nil, errors.Wrapf(err, "fitting dimension %d", d)
		}
	}
	return curves, nil
}

// smooth returns ys with a penalty on its second differences, keeping both ends fixed. It solves
// (I + weight*DᵀD) y = ys with the end rows replaced by identity rows.
func smooth(ys []float64, weight float64) ([]float64, error) {
	n := len(ys)
	if n < 3 {
		return ys, nil
	}
	d := mat.NewDense(n-2, n, nil)
	for i := 0; i < n-2; i++ {
		d.Set(i, i, 1)
		d.Set(i, i+1, -2)
		d.Set(i, i+2, 1)
	}
	var a mat.Dense
	a.Mul(d.T(), d)
	a.Scale(weight, &a)
	for i := 0; i < n; i++ {
		a.Set(i, i, a.At(i, i)+1)
	}
	for _, row := range []int{0, n - 1} {
		for c := 0; c < n; c++ {
			a.Set(row, c, 0)
		}
		a.Set(row, row, 1)
	}

	var smoothed mat.VecDense
	if err := smoothed.SolveVec(&a, mat.NewVecDense(n, append([]float64(nil), ys...))); err != nil {
		return nil, errors.Wrap(err, "smoothing path")
	}
	return smoothed.RawVector().Data, nil
}

// Dim returns the number of dimensions of the curve.
func (s *ArcLengthSpline) Dim() int {
	return s.dim
}

// Length returns the total arc length of the curve.
func (s *ArcLengthSpline) Length() float64 {
	return s.length
}

// Anchors returns the arc lengths of the anchors the curve was refitted through.
func (s *ArcLengthSpline) Anchors() []float64 {
	return append([]float64(nil), s.anchors...)
}

// At returns the point at arc length arc. Queries outside [0, Length()] are clamped.
func (s *ArcLengthSpline) At(arc float64) []float64 {
	arc = utils.Clamp(arc, 0, s.length)
	point := make([]float64, s.dim)
	for d, c := range s.curves {
		point[d] = c.Predict(arc)
	}
	return point
}

// Generate returns the points at each of the given arc lengths.
func (s *ArcLengthSpline) Generate(arcs []float64) [][]float64 {
	return lo.Map(arcs, func(arc float64, _ int) []float64 { return s.At(arc) })
}

// EvenlySpaced returns n points spread evenly in arc length from the start to the end of the curve.
func (s *ArcLengthSpline) EvenlySpaced(n int) [][]float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return [][]float64{s.At(0)}
	}
	arcs := make([]float64, n)
	floats.Span(arcs, 0, s.length)
	return s.Generate(arcs)
}
