package spline

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
)

func checkBasis(t *testing.T, pose spatialmath.Pose, gaze r3.Vector) {
	t.Helper()
	rm := pose.Orientation().RotationMatrix()
	right, up, forward := rm.Col(0), rm.Col(1), rm.Col(2)
	test.That(t, right.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, up.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, forward.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, right.Dot(up), test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, right.Dot(forward), test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, up.Dot(forward), test.ShouldAlmostEqual, 0, 1e-9)
	// the camera is level
	test.That(t, right.Z, test.ShouldAlmostEqual, 0, 1e-9)

	toGaze := gaze.Sub(pose.Point()).Normalize()
	test.That(t, spatialmath.R3VectorAlmostEqual(forward, toGaze, 1e-9), test.ShouldBeTrue)
}

func TestFixedGaze(t *testing.T) {
	camera := [][]float64{{1, 0, 0.5}, {0, 1, 0.6}, {-1, 0, 0.5}}
	target := r3.Vector{Z: 0.3}
	g, err := NewGazeOrientationSpline(camera, FixedGaze(target))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Length(), test.ShouldBeGreaterThan, 2.)

	arcs := []float64{0, g.Length() / 3, g.Length() / 2, g.Length()}
	poses, err := g.Generate(arcs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, poses, test.ShouldHaveLength, len(arcs))
	for _, pose := range poses {
		checkBasis(t, pose, target)
	}
	test.That(t, spatialmath.R3VectorAlmostEqual(poses[0].Point(), r3.Vector{X: 1, Z: 0.5}, 1e-12), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses[3].Point(), r3.Vector{X: -1, Z: 0.5}, 1e-9), test.ShouldBeTrue)
}

func TestGazePath(t *testing.T) {
	camera := [][]float64{{2, 0, 1}, {2, 2, 1}}
	gaze := [][]float64{{0, 0, 0}, {0, 4, 0}}
	g, err := NewGazeOrientationSpline(camera, GazePath(gaze))
	test.That(t, err, test.ShouldBeNil)

	// the gaze path is traversed in step with the camera path
	test.That(t, spatialmath.R3VectorAlmostEqual(g.GazePoint(0), r3.Vector{}, 1e-12), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(g.GazePoint(1), r3.Vector{Y: 2}, 1e-3), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(g.GazePoint(g.Length()), r3.Vector{Y: 4}, 1e-9), test.ShouldBeTrue)

	for _, arc := range []float64{0, 0.5, 1, 2} {
		pose, err := g.At(arc)
		test.That(t, err, test.ShouldBeNil)
		checkBasis(t, pose, g.GazePoint(arc))
	}
}

func TestDegenerateGaze(t *testing.T) {
	// looking straight down has no level right axis
	g, err := NewGazeOrientationSpline([][]float64{{0, 0, 1}, {1, 0, 1}}, FixedGaze(r3.Vector{}))
	test.That(t, err, test.ShouldBeNil)
	_, err = g.At(0)
	test.That(t, err, test.ShouldWrap, ErrDegenerateOrientation)
	_, err = g.Generate([]float64{1, 0})
	test.That(t, err, test.ShouldWrap, ErrDegenerateOrientation)
	_, err = g.At(1)
	test.That(t, err, test.ShouldBeNil)

	// gazing at the camera itself
	g, err = NewGazeOrientationSpline([][]float64{{0, 0, 1}, {1, 0, 1}}, FixedGaze(r3.Vector{Z: 1}))
	test.That(t, err, test.ShouldBeNil)
	_, err = g.At(0)
	test.That(t, err, test.ShouldWrap, ErrDegenerateOrientation)

	_, err = NewGazeOrientationSpline([][]float64{{0, 0}, {1, 0}}, FixedGaze(r3.Vector{}))
	test.That(t, err, test.ShouldWrap, referenceframe.ErrDimensionMismatch)
	_, err = NewGazeOrientationSpline([][]float64{{0, 0, 1}, {1, 0, 1}}, GazePath([][]float64{{0, 0, 0}}))
	test.That(t, err, test.ShouldWrap, ErrDegeneratePath)
}
