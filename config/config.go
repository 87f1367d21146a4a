// Package config reads the rig description: the fixed frames of the set, the arm chains, the camera
// mount and the defaults used when planning.
package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/motionplan/ik"
	"github.com/cinebot/rig/motionplan/spline"
	"github.com/cinebot/rig/referenceframe"
)

const (
	defaultFPS      = 30.
	defaultDuration = 5.
)

// PlannerConfig holds the defaults used when planning. Zero values are replaced by defaults.
type PlannerConfig struct {
	FPS         float64 `json:"fps"`
	DurationSec float64 `json:"duration_sec"`
	Smoothing   float64 `json:"smoothing"`
	SampleCount int     `json:"sample_count"`
}

// Validate ensures all parts of the config are valid.
func (cfg *PlannerConfig) Validate(path string) error {
	var errAll error
	if cfg.FPS < 0 {
		multierr.AppendInto(&errAll, NewConfigValidationError(path, errors.Errorf("fps %f is negative", cfg.FPS)))
	}
	if cfg.DurationSec < 0 {
		multierr.AppendInto(&errAll, NewConfigValidationError(path, errors.Errorf("duration_sec %f is negative", cfg.DurationSec)))
	}
	if cfg.Smoothing < 0 {
		multierr.AppendInto(&errAll, NewConfigValidationError(path, errors.Errorf("smoothing %f is negative", cfg.Smoothing)))
	}
	if cfg.SampleCount < 0 || cfg.SampleCount == 1 {
		multierr.AppendInto(&errAll, NewConfigValidationError(path, errors.Errorf("sample_count %d is below 2", cfg.SampleCount)))
	}
	return errAll
}

// SplineOptions returns the spline options configured for the planner.
func (cfg *PlannerConfig) SplineOptions() []spline.Option {
	var opts []spline.Option
	if cfg.Smoothing > 0 {
		opts = append(opts, spline.WithSmoothing(cfg.Smoothing))
	}
	if cfg.SampleCount > 0 {
		opts = append(opts, spline.WithSampleCount(cfg.SampleCount))
	}
	return opts
}

// CameraConfig is the frame of the camera, usually hanging from the last link of a chain.
type CameraConfig struct {
	FrameConfig `json:",squash"`
	Chain       string `json:"chain"`
}

// A Config describes the rig.
type Config struct {
	Frames  []FrameConfig `json:"frames,omitempty"`
	Chains  []ChainConfig `json:"chains,omitempty"`
	Camera  *CameraConfig `json:"camera,omitempty"`
	Planner PlannerConfig `json:"planner"`

	ConfigFilePath string `json:"-"`
}

// Ensure fills in defaults and validates the config. Every invalid entry is reported at once.
func (c *Config) Ensure() error {
	if c.Planner.FPS == 0 {
		c.Planner.FPS = defaultFPS
	}
	if c.Planner.DurationSec == 0 {
		c.Planner.DurationSec = defaultDuration
	}
	return c.Validate()
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	var errAll error
	names := map[string]string{referenceframe.Root: "root"}
	claim := func(name, path string) {
		if name == "" {
			return
		}
		if prev, ok := names[name]; ok {
			multierr.AppendInto(&errAll, NewConfigValidationError(path,
				errors.Wrapf(referenceframe.ErrDuplicateFrame, "%q already used by %s", name, prev)))
			return
		}
		names[name] = path
	}

	for i := range c.Frames {
		path := fmt.Sprintf("frames.%d", i)
		if err := c.Frames[i].Validate(path); err != nil {
			multierr.AppendInto(&errAll, err)
			continue
		}
		claim(c.Frames[i].Name, path)
	}
	chains := map[string]struct{}{}
	for i := range c.Chains {
		path := fmt.Sprintf("chains.%d", i)
		if err := c.Chains[i].Validate(path); err != nil {
			multierr.AppendInto(&errAll, err)
			continue
		}
		if _, ok := chains[c.Chains[i].Name]; ok {
			multierr.AppendInto(&errAll, NewConfigValidationError(path,
				errors.Wrapf(referenceframe.ErrDuplicateChain, "%q", c.Chains[i].Name)))
		}
		chains[c.Chains[i].Name] = struct{}{}
		for _, name := range c.Chains[i].LinkNames() {
			claim(name, path)
		}
	}
	if c.Camera != nil {
		if err := c.Camera.Validate("camera"); err != nil {
			multierr.AppendInto(&errAll, err)
		} else {
			claim(c.Camera.Name, "camera")
		}
		if c.Camera.Chain == "" {
			multierr.AppendInto(&errAll, NewConfigValidationFieldRequiredError("camera", "chain"))
		} else if _, ok := chains[c.Camera.Chain]; !ok {
			multierr.AppendInto(&errAll, NewConfigValidationError("camera", referenceframe.NewChainMissingError(c.Camera.Chain)))
		}
	}
	multierr.AppendInto(&errAll, c.Planner.Validate("planner"))
	if errAll != nil {
		return errAll
	}
	_, err := c.sortEntries()
	return err
}

// entry is a frame or a chain waiting to be added to a tree.
type entry struct {
	name     string
	parent   string
	provides []string
	frame    *FrameConfig
	chain    *ChainConfig
}

func (c *Config) entries() []entry {
	var out []entry
	for i := range c.Frames {
		f := &c.Frames[i]
		out = append(out, entry{name: f.Name, parent: f.Parent, provides: []string{f.Name}, frame: f})
	}
	for i := range c.Chains {
		ch := &c.Chains[i]
		out = append(out, entry{name: ch.Name, parent: ch.Parent, provides: ch.LinkNames(), chain: ch})
	}
	if c.Camera != nil {
		out = append(out, entry{name: c.Camera.Name, parent: c.Camera.Parent, provides: []string{c.Camera.Name}, frame: &c.Camera.FrameConfig})
	}
	return out
}

// sortEntries orders frames and chains so that every entry comes after the entry providing its
// parent frame.
func (c *Config) sortEntries() ([]entry, error) {
	all := c.entries()
	provider := map[string]int{}
	for i, e := range all {
		for _, name := range e.provides {
			provider[name] = i
		}
	}

	sorted := make([]entry, 0, len(all))
	visited := map[int]bool{}
	var dfsHelper func(idx int, path []int) error
	dfsHelper = func(idx int, path []int) error {
		for i, seen := range path {
			if seen == idx {
				cycle := make([]string, 0, len(path)-i+1)
				for _, j := range append(path[i:], idx) {
					cycle = append(cycle, all[j].name)
				}
				return errors.Errorf("circular parent chain between %s", strings.Join(cycle, ", "))
			}
		}
		if visited[idx] {
			return nil
		}
		path = append(path, idx)
		name, parent := all[idx].name, all[idx].parent
		if parent != referenceframe.Root {
			dep, ok := provider[parent]
			if !ok {
				return referenceframe.NewParentFrameMissingError(name, parent)
			}
			if err := dfsHelper(dep, append([]int(nil), path...)); err != nil {
				return err
			}
		}
		visited[idx] = true
		sorted = append(sorted, all[idx])
		return nil
	}
	for i := range all {
		if err := dfsHelper(i, nil); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// BuildTree returns a kinematic tree holding every frame and chain of the config, with the six axis
// solver attached for inverse kinematics.
func BuildTree(c *Config, logger logging.Logger) (*referenceframe.KinematicTree, error) {
	entries, err := c.sortEntries()
	if err != nil {
		return nil, err
	}
	kt := referenceframe.NewKinematicTree(logger.Sublogger("tree"), ik.NewSixAxisSolver(logger.Sublogger("ik")))
	for _, e := range entries {
		if e.frame != nil {
			if err := kt.AddFrame(e.parent, e.name, e.frame.Pose()); err != nil {
				return nil, err
			}
			continue
		}
		chain, err := e.chain.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "chain %q", e.name)
		}
		if err := kt.AddChain(e.parent, chain); err != nil {
			return nil, err
		}
	}
	logger.Debugw("built kinematic tree", "frames", len(kt.FrameNames()), "chains", kt.ChainNames())
	return kt, nil
}
