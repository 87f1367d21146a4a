package referenceframe_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/motionplan/ik"
	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
)

func newRig(t *testing.T) *referenceframe.KinematicTree {
	t.Helper()
	logger := logging.NewTestLogger(t)
	kt := referenceframe.NewKinematicTree(logger, ik.NewSixAxisSolver(logger))
	mount := spatialmath.NewPose(r3.Vector{X: 0.4, Y: -0.2, Z: 0.7}, &spatialmath.R4AA{Theta: 0.6, RX: 0.2, RY: 0.1, RZ: 1})
	test.That(t, kt.AddFrame(referenceframe.Root, "dolly", mount), test.ShouldBeNil)
	chain, err := referenceframe.NewSixAxisChain("arm", []float64{0.1, 0.1, 0.05, 0.3, 0.15, 0.1, 0.05}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, kt.AddChain("dolly", chain), test.ShouldBeNil)
	camera := spatialmath.NewPose(r3.Vector{X: 0.01, Z: 0.04}, &spatialmath.R4AA{Theta: math.Pi / 2, RX: 1})
	test.That(t, kt.AddFrame("arm_link6", "camera", camera), test.ShouldBeNil)
	return kt
}

func TestSetTransformRoundTrip(t *testing.T) {
	kt := newRig(t)
	for _, joints := range [][]float64{
		{0.3, -0.5, 0.8, 0.4, -0.6, 1.1},
		{-1.2, 0.4, -0.9, 2.0, 0.7, -2.5},
		{2.5, -1.0, 1.4, -0.3, 1.2, 0.2},
	} {
		test.That(t, kt.SetChainState("arm", referenceframe.FloatsToInputs(joints)), test.ShouldBeNil)
		target, err := kt.Transform("camera", referenceframe.Root)
		test.That(t, err, test.ShouldBeNil)

		// start somewhere else and drive the camera back
		test.That(t, kt.SetChainState("arm", make([]referenceframe.Input, 6)), test.ShouldBeNil)
		test.That(t, kt.SetTransform("camera", target), test.ShouldBeNil)

		reached, err := kt.Transform("camera", referenceframe.Root)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.R3VectorAlmostEqual(reached.Point(), target.Point(), 1e-6), test.ShouldBeTrue)
		test.That(t, spatialmath.OrientationAlmostEqualEps(reached.Orientation(), target.Orientation(), 1e-6), test.ShouldBeTrue)
	}
}

func TestSetTransformUnreachable(t *testing.T) {
	kt := newRig(t)
	start := referenceframe.FloatsToInputs([]float64{0.3, -0.5, 0.8, 0.4, -0.6, 1.1})
	test.That(t, kt.SetChainState("arm", start), test.ShouldBeNil)

	far := spatialmath.NewPoseFromPoint(r3.Vector{X: 10, Y: 10, Z: 10})
	err := kt.SetTransform("camera", far)
	test.That(t, err, test.ShouldWrap, ik.ErrUnreachable)

	state, err := kt.ChainState("arm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, state, test.ShouldResemble, start)
}
