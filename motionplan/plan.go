// Package motionplan turns recorded arm configurations and camera waypoints into dense, evenly
// timed joint trajectories for the rig.
package motionplan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/cinebot/rig/components/arm"
	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
)

// Trajectory is a series of joint configurations of a single chain, one per frame.
type Trajectory [][]referenceframe.Input

// String returns a human-readable version of the trajectory, suitable for debugging.
func (traj Trajectory) String() string {
	var str string
	for i, step := range traj {
		str += fmt.Sprintf("\n%d: %v", i, referenceframe.InputsToFloats(step))
	}
	return str
}

// Evaluate returns the cumulative distance between consecutive configurations of the trajectory.
func (traj Trajectory) Evaluate(distFunc func(from, to []referenceframe.Input) float64) (totalCost float64) {
	for i := 1; i < len(traj); i++ {
		totalCost += distFunc(traj[i-1], traj[i])
	}
	return totalCost
}

// Plan is a trajectory for a chain played back at a fixed frame rate. CameraPoses, when present,
// holds the camera pose each configuration was solved for.
type Plan struct {
	Chain       string
	FPS         float64
	Trajectory  Trajectory
	CameraPoses []spatialmath.Pose
}

// Len returns the number of frames in the plan.
func (p *Plan) Len() int {
	return len(p.Trajectory)
}

// Duration returns how long the plan takes to play back.
func (p *Plan) Duration() time.Duration {
	if p.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(p.Len()) / p.FPS * float64(time.Second))
}

// Times returns the playback time of each frame, in seconds.
func (p *Plan) Times() []float64 {
	return lo.Times(p.Len(), func(i int) float64 {
		if p.FPS <= 0 {
			return 0
		}
		return float64(i) / p.FPS
	})
}

// String returns a human-readable version of the plan, suitable for debugging.
func (p *Plan) String() string {
	return fmt.Sprintf("chain %s, %d frames at %.2f fps (%s)%s", p.Chain, p.Len(), p.FPS, p.Duration(), p.Trajectory)
}

// Execute moves the arm through every configuration of the plan in order. Frames are sent as fast as
// the arm accepts them.
func (p *Plan) Execute(ctx context.Context, a arm.Arm) error {
	return arm.MoveThroughJointPositions(ctx, a, p.Trajectory)
}

type planJSON struct {
	Chain       string                    `json:"chain"`
	FPS         float64                   `json:"fps"`
	Joints      [][]float64               `json:"joints"`
	CameraPoses []*spatialmath.PoseConfig `json:"camera_poses,omitempty"`
}

func (p *Plan) toJSON() *planJSON {
	return &planJSON{
		Chain:       p.Chain,
		FPS:         p.FPS,
		Joints:      lo.Map(p.Trajectory, func(step []referenceframe.Input, _ int) []float64 { return referenceframe.InputsToFloats(step) }),
		CameraPoses: lo.Map(p.CameraPoses, func(pose spatialmath.Pose, _ int) *spatialmath.PoseConfig { return spatialmath.NewPoseConfig(pose) }),
	}
}

func planFromJSON(in *planJSON) (*Plan, error) {
	if in.FPS <= 0 {
		return nil, errors.Errorf("plan has invalid frame rate %f", in.FPS)
	}
	if len(in.CameraPoses) > 0 && len(in.CameraPoses) != len(in.Joints) {
		return nil, errors.Wrapf(referenceframe.ErrDimensionMismatch,
			"plan has %d camera poses for %d frames", len(in.CameraPoses), len(in.Joints))
	}
	plan := &Plan{
		Chain:      in.Chain,
		FPS:        in.FPS,
		Trajectory: lo.Map(in.Joints, func(step []float64, _ int) []referenceframe.Input { return referenceframe.FloatsToInputs(step) }),
	}
	if len(in.CameraPoses) > 0 {
		plan.CameraPoses = lo.Map(in.CameraPoses, func(cfg *spatialmath.PoseConfig, _ int) spatialmath.Pose { return cfg.ParseConfig() })
	}
	return plan, nil
}

// Save writes the plan as json.
func (p *Plan) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(p.toJSON()), "cannot encode plan")
}

// LoadPlan reads a plan written by Save.
func LoadPlan(r io.Reader) (*Plan, error) {
	var in planJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(err, "cannot decode plan")
	}
	return planFromJSON(&in)
}
