package motionplan

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/utils"
)

// JointStatistics summarizes the motion of a single joint over a plan. Angles are in radians.
type JointStatistics struct {
	Min     float64
	Max     float64
	Mean    float64
	StdDev  float64
	MaxStep float64
}

// Statistics summarizes a plan joint by joint.
type Statistics struct {
	Chain  string
	Frames int
	FPS    float64
	Travel float64
	Joints []JointStatistics
}

// PlanStatistics computes per-joint statistics of the plan. MaxStep is the largest change of the
// joint between consecutive frames; Travel is the summed joint space distance between frames.
func PlanStatistics(plan *Plan) (*Statistics, error) {
	if plan.Len() == 0 {
		return nil, errors.New("cannot summarize an empty plan")
	}
	dof := len(plan.Trajectory[0])
	out := &Statistics{
		Chain:  plan.Chain,
		Frames: plan.Len(),
		FPS:    plan.FPS,
		Travel: plan.Trajectory.Evaluate(referenceframe.InputsL2Distance),
	}
	for j := 0; j < dof; j++ {
		values := make(stats.Float64Data, 0, plan.Len())
		steps := make(stats.Float64Data, 0, plan.Len())
		for i, step := range plan.Trajectory {
			if len(step) != dof {
				return nil, errors.Wrapf(referenceframe.ErrDimensionMismatch, "frame %d has %d joints, expected %d", i, len(step), dof)
			}
			values = append(values, step[j].Value)
			if i > 0 {
				steps = append(steps, math.Abs(step[j].Value-plan.Trajectory[i-1][j].Value))
			}
		}
		js, err := jointStatistics(values, steps)
		if err != nil {
			return nil, errors.Wrapf(err, "joint %d", j)
		}
		out.Joints = append(out.Joints, js)
	}
	return out, nil
}

func jointStatistics(values, steps stats.Float64Data) (JointStatistics, error) {
	var js JointStatistics
	var err error
	if js.Min, err = values.Min(); err != nil {
		return js, err
	}
	if js.Max, err = values.Max(); err != nil {
		return js, err
	}
	if js.Mean, err = values.Mean(); err != nil {
		return js, err
	}
	if js.StdDev, err = values.StandardDeviation(); err != nil {
		return js, err
	}
	if len(steps) > 0 {
		if js.MaxStep, err = steps.Max(); err != nil {
			return js, err
		}
	}
	return js, nil
}

// String renders the statistics as a table, with angles in degrees.
func (s *Statistics) String() string {
	t := table.NewWriter()
	t.Style().Format.Header = text.FormatDefault
	t.SetTitle("%s: %d frames at %.2f fps, travel %.4f rad", s.Chain, s.Frames, s.FPS, s.Travel)
	t.AppendHeader(table.Row{"Joint", "Min(deg)", "Max(deg)", "Mean(deg)", "StdDev(deg)", "MaxStep(deg)"})
	for i, js := range s.Joints {
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("%.2f", utils.RadToDeg(js.Min)),
			fmt.Sprintf("%.2f", utils.RadToDeg(js.Max)),
			fmt.Sprintf("%.2f", utils.RadToDeg(js.Mean)),
			fmt.Sprintf("%.2f", utils.RadToDeg(js.StdDev)),
			fmt.Sprintf("%.2f", utils.RadToDeg(js.MaxStep)),
		})
	}
	return t.Render()
}
