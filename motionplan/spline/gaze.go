package spline

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
)

// WorldUp is the up axis used to level the camera.
var WorldUp = r3.Vector{Z: 1}

// GazeTarget is what the camera looks at while it travels: a fixed point or a path of its own.
type GazeTarget struct {
	point r3.Vector
	path  [][]float64
}

// FixedGaze keeps the camera pointed at a single point.
func FixedGaze(point r3.Vector) GazeTarget {
	return GazeTarget{point: point}
}

// GazePath moves the gaze point along a path in step with the camera.
func GazePath(path [][]float64) GazeTarget {
	return GazeTarget{path: path}
}

// GazeOrientationSpline moves a camera along a spline while keeping it pointed at a gaze target. It
// is immutable once built.
type GazeOrientationSpline struct {
	camera *ArcLengthSpline
	gaze   *ArcLengthSpline
	fixed  r3.Vector
}

// NewGazeOrientationSpline fits an arc length spline through the three dimensional camera path, and
// another through the gaze path if the target has one. Options apply to both splines.
func NewGazeOrientationSpline(camera [][]float64, gaze GazeTarget, opts ...Option) (*GazeOrientationSpline, error) {
	if err := checkPoints3D(camera); err != nil {
		return nil, errors.Wrap(err, "camera path")
	}
	cameraSpline, err := NewArcLengthSpline(camera, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "camera path")
	}
	g := &GazeOrientationSpline{camera: cameraSpline, fixed: gaze.point}
	if gaze.path != nil {
		if err := checkPoints3D(gaze.path); err != nil {
			return nil, errors.Wrap(err, "gaze path")
		}
		if g.gaze, err = NewArcLengthSpline(gaze.path, opts...); err != nil {
			return nil, errors.Wrap(err, "gaze path")
		}
	}
	return g, nil
}

func checkPoints3D(path [][]float64) error {
	for i, p := range path {
		if len(p) != 3 {
			return errors.Wrapf(referenceframe.ErrDimensionMismatch, "point %d has %d dimensions, expected 3", i, len(p))
		}
	}
	return nil
}

// Length returns the arc length of the camera path.
func (g *GazeOrientationSpline) Length() float64 {
	return g.camera.Length()
}

// GazePoint returns the gaze point used when the camera is at arc length arc. A gaze path is
// traversed in the same fraction of its length as the camera path.
func (g *GazeOrientationSpline) GazePoint(arc float64) r3.Vector {
	if g.gaze == nil {
		return g.fixed
	}
	p := g.gaze.At(arc / g.camera.Length() * g.gaze.Length())
	return r3.Vector{X: p[0], Y: p[1], Z: p[2]}
}

// At returns the camera pose at arc length arc: located on the camera path, with its z axis toward
// the gaze point and its x axis level. Queries outside [0, Length()] are clamped.
func (g *GazeOrientationSpline) At(arc float64) (spatialmath.Pose, error) {
	c := g.camera.At(arc)
	eye := r3.Vector{X: c[0], Y: c[1], Z: c[2]}
	pose, err := spatialmath.NewLookAtPose(eye, g.GazePoint(arc), WorldUp)
	if err != nil {
		return nil, errors.Wrapf(err, "camera pose at arc length %f", arc)
	}
	return pose, nil
}

// Generate returns the camera poses at each of the given arc lengths.
func (g *GazeOrientationSpline) Generate(arcs []float64) ([]spatialmath.Pose, error) {
	poses := make([]spatialmath.Pose, 0, len(arcs))
	for _, arc := range arcs {
		pose, err := g.At(arc)
		if err != nil {
			return nil, err
		}
		poses = append(poses, pose)
	}
	return poses, nil
}

// EvenlySpaced returns n camera poses spread evenly in arc length along the camera path.
func (g *GazeOrientationSpline) EvenlySpaced(n int) ([]spatialmath.Pose, error) {
	if n <= 0 {
		return nil, nil
	}
	arcs := make([]float64, n)
	if n > 1 {
		floats.Span(arcs, 0, g.Length())
	}
	return g.Generate(arcs)
}
