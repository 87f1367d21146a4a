package motionplan

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/cinebot/rig/utils"
)

// NewPlanPlot returns a line plot of every joint angle, in degrees, against playback time.
func NewPlanPlot(plan *Plan) (*plot.Plot, error) {
	if plan.Len() == 0 {
		return nil, errors.New("cannot plot an empty plan")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s joint angles", plan.Chain)
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "angle (deg)"
	p.Add(plotter.NewGrid())

	times := plan.Times()
	dof := len(plan.Trajectory[0])
	lines := make([]interface{}, 0, 2*dof)
	for j := 0; j < dof; j++ {
		xys := make(plotter.XYs, plan.Len())
		for i, step := range plan.Trajectory {
			if len(step) != dof {
				return nil, errors.Errorf("frame %d has %d joints, expected %d", i, len(step), dof)
			}
			xys[i].X = times[i]
			xys[i].Y = utils.RadToDeg(step[j].Value)
		}
		lines = append(lines, fmt.Sprintf("joint %d", j), xys)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return nil, err
	}
	return p, nil
}

// PlotPlan writes the joint angle plot of the plan to path. The image format follows the file
// extension.
func PlotPlan(plan *Plan, path string) error {
	p, err := NewPlanPlot(plan)
	if err != nil {
		return err
	}
	return errors.Wrapf(p.Save(10*vg.Inch, 5*vg.Inch, path), "cannot save plot to %q", path)
}
