package motionplan

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/motionplan/spline"
	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/testutils/inject"
)

// newPlaybackArm returns an injected arm reporting each of configs in turn, then the last one forever.
func newPlaybackArm(configs [][]float64) *inject.Arm {
	a := inject.NewArm()
	i := 0
	a.JointPositionsFunc = func(ctx context.Context) ([]referenceframe.Input, error) {
		c := configs[min(i, len(configs)-1)]
		i++
		return referenceframe.FloatsToInputs(c), nil
	}
	return a
}

func TestDirectPlanner(t *testing.T) {
	ctx := context.Background()
	configs := [][]float64{
		{0, 0, 0, 0, 0, 0},
		{0.4, 0.4, 0.4, 0.4, 0.4, 0.4},
		{1, 1, 1, 1, 1, 1},
	}
	dp := NewDirectPlanner(newPlaybackArm(configs), "arm", logging.NewTestLogger(t))
	for range configs {
		test.That(t, dp.Record(ctx), test.ShouldBeNil)
	}
	want := [][]referenceframe.Input{
		referenceframe.FloatsToInputs(configs[0]),
		referenceframe.FloatsToInputs(configs[1]),
		referenceframe.FloatsToInputs(configs[2]),
	}
	test.That(t, cmp.Diff(want, dp.Configurations()), test.ShouldBeEmpty)

	plan, err := dp.Plan(2, 15)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, plan.Chain, test.ShouldEqual, "arm")
	test.That(t, plan.FPS, test.ShouldEqual, 15.)
	test.That(t, plan.Len(), test.ShouldEqual, 30)
	test.That(t, referenceframe.InputsAlmostEqual(plan.Trajectory[0], want[0], 1e-6), test.ShouldBeTrue)
	test.That(t, referenceframe.InputsAlmostEqual(plan.Trajectory[29], want[2], 1e-6), test.ShouldBeTrue)

	// every joint follows the same curve, so the plan stays on the diagonal and advances monotonically
	for i, step := range plan.Trajectory {
		for _, in := range step {
			test.That(t, in.Value, test.ShouldAlmostEqual, step[0].Value, 1e-9)
		}
		if i > 0 {
			test.That(t, step[0].Value, test.ShouldBeGreaterThan, plan.Trajectory[i-1][0].Value)
		}
	}

	dp.Clear()
	test.That(t, dp.Configurations(), test.ShouldBeEmpty)
}

func TestDirectPlannerErrors(t *testing.T) {
	ctx := context.Background()
	dp := NewDirectPlanner(newPlaybackArm([][]float64{{0, 0}}), "arm", logging.NewTestLogger(t))

	_, err := dp.Plan(1, 30)
	test.That(t, err, test.ShouldWrap, spline.ErrDegeneratePath)

	test.That(t, dp.Record(ctx), test.ShouldBeNil)
	_, err = dp.Plan(1, 30)
	test.That(t, err, test.ShouldWrap, spline.ErrDegeneratePath)

	dp.AddConfiguration(referenceframe.FloatsToInputs([]float64{1, 1}))
	_, err = dp.Plan(0, 30)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no frames")

	// a recording that does not move the arm has no length
	dp.Clear()
	dp.AddConfiguration(referenceframe.FloatsToInputs([]float64{1, 1}))
	dp.AddConfiguration(referenceframe.FloatsToInputs([]float64{1, 1}))
	_, err = dp.Plan(1, 30)
	test.That(t, err, test.ShouldWrap, spline.ErrDegeneratePath)

	broken := inject.NewArm()
	broken.JointPositionsFunc = func(ctx context.Context) ([]referenceframe.Input, error) {
		return nil, errors.New("servo bus timeout")
	}
	dp = NewDirectPlanner(broken, "arm", logging.NewTestLogger(t))
	err = dp.Record(ctx)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "servo bus timeout")
	test.That(t, dp.Configurations(), test.ShouldBeEmpty)
}
