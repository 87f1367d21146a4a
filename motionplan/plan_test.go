package motionplan

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"github.com/cinebot/rig/components/arm/fake"
	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
)

var rigLengths = []float64{0.1, 0.1, 0.05, 0.3, 0.15, 0.1, 0.05}

func newTestPlan() *Plan {
	return &Plan{
		Chain: "arm",
		FPS:   30,
		Trajectory: Trajectory{
			referenceframe.FloatsToInputs([]float64{0, 0, 0, 0, 0, 0}),
			referenceframe.FloatsToInputs([]float64{0.1, -0.2, 0.3, 0, 0.5, -0.6}),
			referenceframe.FloatsToInputs([]float64{0.2, -0.4, 0.6, 0, 1.0, -1.2}),
		},
		CameraPoses: []spatialmath.Pose{
			spatialmath.NewPoseFromPoint(r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}),
			spatialmath.NewPose(r3.Vector{X: 0.2, Y: 0.2, Z: 0.3}, &spatialmath.R4AA{Theta: 0.5, RZ: 1}),
			spatialmath.NewPose(r3.Vector{X: 0.3, Y: 0.2, Z: 0.3}, &spatialmath.R4AA{Theta: 1.0, RX: 1}),
		},
	}
}

func TestPlanTiming(t *testing.T) {
	plan := newTestPlan()
	test.That(t, plan.Len(), test.ShouldEqual, 3)
	test.That(t, plan.Duration(), test.ShouldEqual, 100*time.Millisecond)
	times := plan.Times()
	test.That(t, times, test.ShouldHaveLength, 3)
	test.That(t, times[0], test.ShouldEqual, 0.)
	test.That(t, times[2], test.ShouldAlmostEqual, 2./30)
	test.That(t, plan.String(), test.ShouldContainSubstring, "3 frames")

	plan.FPS = 0
	test.That(t, plan.Duration(), test.ShouldEqual, time.Duration(0))
}

func TestTrajectoryEvaluate(t *testing.T) {
	traj := Trajectory{
		referenceframe.FloatsToInputs([]float64{0, 0}),
		referenceframe.FloatsToInputs([]float64{3, 4}),
		referenceframe.FloatsToInputs([]float64{3, 4}),
	}
	test.That(t, traj.Evaluate(referenceframe.InputsL2Distance), test.ShouldAlmostEqual, 5)
	test.That(t, Trajectory{}.Evaluate(referenceframe.InputsL2Distance), test.ShouldEqual, 0.)
}

func TestPlanSaveLoad(t *testing.T) {
	plan := newTestPlan()
	var buf bytes.Buffer
	test.That(t, plan.Save(&buf), test.ShouldBeNil)

	loaded, err := LoadPlan(&buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded.Chain, test.ShouldEqual, plan.Chain)
	test.That(t, loaded.FPS, test.ShouldEqual, plan.FPS)
	test.That(t, cmp.Diff(plan.Trajectory, loaded.Trajectory), test.ShouldBeEmpty)
	test.That(t, loaded.CameraPoses, test.ShouldHaveLength, len(plan.CameraPoses))
	for i, pose := range plan.CameraPoses {
		test.That(t, spatialmath.PoseAlmostEqual(pose, loaded.CameraPoses[i]), test.ShouldBeTrue)
	}

	// camera poses are optional
	plan.CameraPoses = nil
	buf.Reset()
	test.That(t, plan.Save(&buf), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldNotContainSubstring, "camera_poses")
	loaded, err = LoadPlan(&buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded.CameraPoses, test.ShouldBeNil)
}

func TestLoadPlanErrors(t *testing.T) {
	_, err := LoadPlan(strings.NewReader("{"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = LoadPlan(strings.NewReader(`{"chain": "arm", "fps": 0, "joints": [[0]]}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "frame rate")

	_, err = LoadPlan(strings.NewReader(`{"chain": "arm", "fps": 30, "joints": [[0], [1]],
		"camera_poses": [{"translation": {"x": 1, "y": 2, "z": 3}}]}`))
	test.That(t, err, test.ShouldWrap, referenceframe.ErrDimensionMismatch)
}

func TestPlanExecute(t *testing.T) {
	chain, err := referenceframe.NewSixAxisChain("arm", rigLengths, nil)
	test.That(t, err, test.ShouldBeNil)
	a := fake.NewArm(chain, logging.NewTestLogger(t))

	plan := newTestPlan()
	test.That(t, plan.Execute(context.Background(), a), test.ShouldBeNil)
	test.That(t, a.Moves(), test.ShouldEqual, 3)
	joints, err := a.JointPositions(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joints, test.ShouldResemble, plan.Trajectory[2])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	test.That(t, plan.Execute(ctx, a), test.ShouldWrap, context.Canceled)
}
