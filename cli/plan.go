package cli

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/cinebot/rig/components/arm/fake"
	"github.com/cinebot/rig/config"
	"github.com/cinebot/rig/motionplan"
	"github.com/cinebot/rig/referenceframe"
)

// chainFor returns the chain named by the chain flag, the camera's chain, or the only chain.
func chainFor(c *cli.Context, cfg *config.Config, kt *referenceframe.KinematicTree) (*referenceframe.Chain, error) {
	name := c.String(chainFlag)
	if name == "" && cfg.Camera != nil {
		name = cfg.Camera.Chain
	}
	if name == "" {
		names := kt.ChainNames()
		if len(names) != 1 {
			return nil, errors.Errorf("--%s is required when the rig has %d chains", chainFlag, len(names))
		}
		name = names[0]
	}
	return kt.Chain(name)
}

// PlanDirectAction is the corresponding Action for 'plan direct'.
func PlanDirectAction(c *cli.Context) error {
	logger := loggerFrom(c)
	cfg, kt, err := loadRig(c, logger)
	if err != nil {
		return err
	}
	chain, err := chainFor(c, cfg, kt)
	if err != nil {
		return err
	}
	waypoints, err := readConfigurations(c.Path(waypointsFlag), c.Bool(degreesFlag))
	if err != nil {
		return err
	}

	// replay the recording on a simulated arm so every waypoint is checked against the joint limits
	a := fake.NewArm(chain, logger.Sublogger("arm"))
	planner := motionplan.NewDirectPlanner(a, chain.Name(), logger.Sublogger("planner"))
	for i, waypoint := range waypoints {
		if err := a.MoveToJointPositions(c.Context, waypoint); err != nil {
			return errors.Wrapf(err, "waypoint %d", i)
		}
		if err := planner.Record(c.Context); err != nil {
			return err
		}
	}
	duration, fps := timing(c, cfg)
	plan, err := planner.Plan(duration, fps)
	if err != nil {
		return err
	}
	if err := savePlan(plan, c.Path(outFlag)); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %d frames of %s to %s", plan.Len(), plan.Chain, c.Path(outFlag))
	return nil
}

// PlanGazeAction is the corresponding Action for 'plan gaze'.
func PlanGazeAction(c *cli.Context) error {
	logger := loggerFrom(c)
	cfg, kt, err := loadRig(c, logger)
	if err != nil {
		return err
	}
	if cfg.Camera == nil {
		return errors.Errorf("%s has no camera", cfg.ConfigFilePath)
	}
	chain, err := kt.Chain(cfg.Camera.Chain)
	if err != nil {
		return err
	}
	recorded, err := readConfigurations(c.Path(cameraFlag), c.Bool(degreesFlag))
	if err != nil {
		return err
	}
	var gazePoints [][3]float64
	if err := readJSONFile(c.Path(gazeFlag), &gazePoints); err != nil {
		return err
	}

	a := fake.NewArm(chain, logger.Sublogger("arm"))
	duration, fps := timing(c, cfg)
	planner, err := motionplan.NewGazePlanner(a, kt, chain.Name(), cfg.Camera.Name, duration, fps,
		logger.Sublogger("planner"), cfg.Planner.SplineOptions()...)
	if err != nil {
		return err
	}
	for i, joints := range recorded {
		if err := a.MoveToJointPositions(c.Context, joints); err != nil {
			return errors.Wrapf(err, "camera configuration %d", i)
		}
		if err := planner.RecordCameraPose(c.Context); err != nil {
			return err
		}
	}
	for _, p := range gazePoints {
		point := r3.Vector{X: p[0], Y: p[1], Z: p[2]}
		if err := planner.AddGazePoint(c.Context, &point); err != nil {
			return err
		}
	}

	plan, err := planner.Plan()
	if err != nil {
		return err
	}
	if skipped := int(duration*fps) - plan.Len(); skipped > 0 {
		warningf(c.App.ErrWriter, "%d camera poses were out of reach and left out of the plan", skipped)
	}
	if path := c.Path(stateFlag); path != "" {
		if err := planner.Save(path); err != nil {
			return err
		}
	}
	if err := savePlan(plan, c.Path(outFlag)); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %d frames of %s to %s", plan.Len(), plan.Chain, c.Path(outFlag))
	return nil
}

// StatsAction is the corresponding Action for 'stats'.
func StatsAction(c *cli.Context) error {
	plan, err := loadPlan(c.Path(planFlag))
	if err != nil {
		return err
	}
	stats, err := motionplan.PlanStatistics(plan)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", stats)
	return nil
}

// PlotAction is the corresponding Action for 'plot'.
func PlotAction(c *cli.Context) error {
	plan, err := loadPlan(c.Path(planFlag))
	if err != nil {
		return err
	}
	if err := motionplan.PlotPlan(plan, c.Path(outFlag)); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %s", c.Path(outFlag))
	return nil
}
