package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/cinebot/rig/config"
	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/motionplan"
	"github.com/cinebot/rig/referenceframe"
)

// printf prints a message with no decoration.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, "\x1b[1mWarning:\x1b[0m "+format+"\n", a...)
}

// readJSONFile decodes the hand written json5 file at path into out, so comments and unquoted keys
// are allowed.
func readJSONFile(path string, out interface{}) error {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return errors.Wrapf(json5.Unmarshal(data, out), "cannot decode %q", path)
}

// readConfigurations reads a json list of joint configurations, converting from degrees if asked.
func readConfigurations(path string, degrees bool) ([][]referenceframe.Input, error) {
	var raw [][]float64
	if err := readJSONFile(path, &raw); err != nil {
		return nil, err
	}
	return lo.Map(raw, func(c []float64, _ int) []referenceframe.Input {
		if degrees {
			return referenceframe.InputsFromDegrees(c)
		}
		return referenceframe.FloatsToInputs(c)
	}), nil
}

// loadRig reads the rig config named by the config flag and builds its kinematic tree.
func loadRig(c *cli.Context, logger logging.Logger) (*config.Config, *referenceframe.KinematicTree, error) {
	cfg, err := config.Read(c.Path(configFlag), logger)
	if err != nil {
		return nil, nil, err
	}
	kt, err := config.BuildTree(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, kt, nil
}

// timing returns the duration and frame rate from the flags, falling back to the config.
func timing(c *cli.Context, cfg *config.Config) (float64, float64) {
	duration, fps := cfg.Planner.DurationSec, cfg.Planner.FPS
	if c.IsSet(durationFlag) {
		duration = c.Float64(durationFlag)
	}
	if c.IsSet(fpsFlag) {
		fps = c.Float64(fpsFlag)
	}
	return duration, fps
}

func savePlan(plan *motionplan.Plan, path string) error {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := plan.Save(f); err != nil {
		//nolint:errcheck
		f.Close()
		return err
	}
	return f.Close()
}

func loadPlan(path string) (*motionplan.Plan, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		//nolint:errcheck
		f.Close()
	}()
	return motionplan.LoadPlan(f)
}
