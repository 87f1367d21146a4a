package motionplan

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/cinebot/rig/components/arm"
	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/motionplan/spline"
	"github.com/cinebot/rig/referenceframe"
)

// directSampleCount is the number of anchors used to reparameterize a joint space path.
const directSampleCount = 20

// DirectPlanner plans in joint space: recorded configurations are interpolated directly, without
// going through the kinematic tree.
type DirectPlanner struct {
	logger  logging.Logger
	arm     arm.Arm
	chain   string
	configs [][]referenceframe.Input
}

// NewDirectPlanner returns a planner recording configurations of the chain driven by a.
func NewDirectPlanner(a arm.Arm, chain string, logger logging.Logger) *DirectPlanner {
	return &DirectPlanner{logger: logger, arm: a, chain: chain}
}

// Record appends the arm's current joint positions to the recorded configurations.
func (dp *DirectPlanner) Record(ctx context.Context) error {
	joints, err := dp.arm.JointPositions(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot read joint positions")
	}
	dp.AddConfiguration(joints)
	return nil
}

// AddConfiguration appends a configuration recorded elsewhere.
func (dp *DirectPlanner) AddConfiguration(joints []referenceframe.Input) {
	dp.configs = append(dp.configs, append([]referenceframe.Input(nil), joints...))
	dp.logger.Debugw("recorded configuration", "chain", dp.chain, "index", len(dp.configs)-1,
		"joints", referenceframe.InputsToFloats(joints))
}

// Configurations returns the recorded configurations.
func (dp *DirectPlanner) Configurations() [][]referenceframe.Input {
	return lo.Map(dp.configs, func(c []referenceframe.Input, _ int) []referenceframe.Input {
		return append([]referenceframe.Input(nil), c...)
	})
}

// Clear forgets every recorded configuration.
func (dp *DirectPlanner) Clear() {
	dp.configs = nil
}

// Plan fits an arc length spline through the recorded configurations and samples int(fps*duration)
// configurations evenly spaced along it.
func (dp *DirectPlanner) Plan(duration, fps float64) (*Plan, error) {
	frames := int(fps * duration)
	if frames <= 0 {
		return nil, errors.Errorf("%f seconds at %f fps is no frames", duration, fps)
	}
	path := lo.Map(dp.configs, func(c []referenceframe.Input, _ int) []float64 { return referenceframe.InputsToFloats(c) })
	s, err := spline.NewArcLengthSpline(path, spline.WithSampleCount(directSampleCount), spline.WithSmoothing(0))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot interpolate %d configurations of %s", len(dp.configs), dp.chain)
	}
	plan := &Plan{
		Chain:      dp.chain,
		FPS:        fps,
		Trajectory: lo.Map(s.EvenlySpaced(frames), func(p []float64, _ int) []referenceframe.Input { return referenceframe.FloatsToInputs(p) }),
	}
	dp.logger.Infow("planned joint space path", "chain", dp.chain, "frames", plan.Len(), "length", s.Length())
	return plan, nil
}
