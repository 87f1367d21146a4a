package fake

import (
	"context"
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/cinebot/rig/components/arm"
	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/referenceframe"
)

func TestFakeArm(t *testing.T) {
	ctx := context.Background()
	chain, err := referenceframe.NewSixAxisChain("arm", []float64{0.1, 0.1, 0.05, 0.3, 0.15, 0.1, 0.05}, nil)
	test.That(t, err, test.ShouldBeNil)
	a := NewArm(chain, logging.NewTestLogger(t))

	joints, err := a.JointPositions(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joints, test.ShouldResemble, make([]referenceframe.Input, 6))

	goal := referenceframe.FloatsToInputs([]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})
	test.That(t, a.MoveToJointPositions(ctx, goal), test.ShouldBeNil)
	joints, err = a.JointPositions(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joints, test.ShouldResemble, goal)

	// the returned slice is a copy
	joints[0].Value = 3
	joints, err = a.JointPositions(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joints[0].Value, test.ShouldEqual, 0.1)

	err = a.MoveToJointPositions(ctx, referenceframe.FloatsToInputs([]float64{4, 0, 0, 0, 0, 0}))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, referenceframe.OOBErrString)
	err = a.MoveToJointPositions(ctx, referenceframe.FloatsToInputs([]float64{0}))
	test.That(t, err, test.ShouldWrap, referenceframe.ErrDimensionMismatch)
	test.That(t, a.Moves(), test.ShouldEqual, 1)
}

func TestMoveThroughJointPositions(t *testing.T) {
	chain, err := referenceframe.NewSixAxisChain("arm", []float64{0.1, 0.1, 0.05, 0.3, 0.15, 0.1, 0.05}, nil)
	test.That(t, err, test.ShouldBeNil)
	a := NewArm(chain, logging.NewTestLogger(t))

	positions := [][]referenceframe.Input{
		referenceframe.FloatsToInputs([]float64{0.1, 0, 0, 0, 0, 0}),
		referenceframe.FloatsToInputs([]float64{0.2, 0, 0, 0, 0, 0}),
		referenceframe.FloatsToInputs([]float64{2 * math.Pi, 0, 0, 0, 0, 0}),
		referenceframe.FloatsToInputs([]float64{0.4, 0, 0, 0, 0, 0}),
	}
	err = arm.MoveThroughJointPositions(context.Background(), a, positions)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "position 2")
	test.That(t, a.Moves(), test.ShouldEqual, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	test.That(t, arm.MoveThroughJointPositions(ctx, a, positions), test.ShouldEqual, context.Canceled)
	test.That(t, a.Moves(), test.ShouldEqual, 2)
}

func TestMoveLoggingFollowsDebugMode(t *testing.T) {
	chain, err := referenceframe.NewSixAxisChain("arm", []float64{0.1, 0.1, 0.05, 0.3, 0.15, 0.1, 0.05}, nil)
	test.That(t, err, test.ShouldBeNil)
	logger, logs := logging.NewObservedTestLogger(t)
	logger.SetLevel(logging.INFO)
	a := NewArm(chain, logger)

	joints := referenceframe.FloatsToInputs([]float64{0.1, 0, 0, 0, 0, 0})
	test.That(t, a.MoveToJointPositions(context.Background(), joints), test.ShouldBeNil)
	test.That(t, logs.FilterMessage("fake arm moved").Len(), test.ShouldEqual, 0)

	ctx := logging.EnableDebugMode(context.Background(), "rehearsal")
	test.That(t, a.MoveToJointPositions(ctx, joints), test.ShouldBeNil)
	test.That(t, logs.FilterMessage("fake arm moved").Len(), test.ShouldEqual, 1)
}
