package config

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
	"github.com/cinebot/rig/utils"
)

// Translation is the translation between two frames, in meters.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ParseConfig converts a Translation into a vector.
func (t Translation) ParseConfig() r3.Vector {
	return r3.Vector{X: t.X, Y: t.Y, Z: t.Z}
}

// Orientation is the orientation between two frames. This is represented as an axis angle,
// with theta being in degrees and being the rotation around the axis.
type Orientation struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	TH float64 `json:"th"`
}

// ParseConfig converts an Orientation into an axis angle in radians.
func (o *Orientation) ParseConfig() spatialmath.Orientation {
	if o == nil {
		return spatialmath.NewZeroOrientation()
	}
	return &spatialmath.R4AA{Theta: utils.DegToRad(o.TH), RX: o.X, RY: o.Y, RZ: o.Z}
}

func (o *Orientation) validate(path string) error {
	if o != nil && o.TH != 0 && o.X == 0 && o.Y == 0 && o.Z == 0 {
		return NewConfigValidationError(path, errors.New("orientation rotates about a zero axis"))
	}
	return nil
}

func parsePose(t Translation, o *Orientation) spatialmath.Pose {
	return spatialmath.NewPose(t.ParseConfig(), o.ParseConfig())
}

// FrameConfig is a fixed frame: a name, the frame it hangs from, and its pose in that frame.
type FrameConfig struct {
	Name        string       `json:"name"`
	Parent      string       `json:"parent"`
	Translation Translation  `json:"translation"`
	Orientation *Orientation `json:"orientation,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *FrameConfig) Validate(path string) error {
	if cfg.Name == "" {
		return NewConfigValidationFieldRequiredError(path, "name")
	}
	if cfg.Parent == "" {
		return NewConfigValidationFieldRequiredError(path, "parent")
	}
	if cfg.Name == referenceframe.Root {
		return NewConfigValidationError(path, errors.Errorf("%q is reserved", referenceframe.Root))
	}
	return cfg.Orientation.validate(path)
}

// Pose returns the pose of the frame in its parent.
func (cfg *FrameConfig) Pose() spatialmath.Pose {
	return parsePose(cfg.Translation, cfg.Orientation)
}

// LinkConfig is one link of a chain. Axis and the limits are ignored on the first link, which has
// no joint. Missing limits default to [-180, 180] degrees.
type LinkConfig struct {
	Name        string       `json:"name"`
	Translation Translation  `json:"translation"`
	Orientation *Orientation `json:"orientation,omitempty"`
	Axis        Translation  `json:"axis"`
	MinDeg      *float64     `json:"min_deg,omitempty"`
	MaxDeg      *float64     `json:"max_deg,omitempty"`
}

// Limit returns the joint limit of the link.
func (cfg *LinkConfig) Limit() referenceframe.Limit {
	minDeg, maxDeg := -180., 180.
	if cfg.MinDeg != nil {
		minDeg = *cfg.MinDeg
	}
	if cfg.MaxDeg != nil {
		maxDeg = *cfg.MaxDeg
	}
	return referenceframe.NewLimitDegrees(minDeg, maxDeg)
}

// ChainConfig is a serial chain of links hanging from Parent. A six axis arm can be given by its
// seven link lengths instead of its links.
type ChainConfig struct {
	Name    string       `json:"name"`
	Parent  string       `json:"parent"`
	Links   []LinkConfig `json:"links,omitempty"`
	Lengths []float64    `json:"lengths,omitempty"`
}

// Validate ensures all parts of the config are valid. Every bad link is reported.
func (cfg *ChainConfig) Validate(path string) error {
	if cfg.Name == "" {
		return NewConfigValidationFieldRequiredError(path, "name")
	}
	if cfg.Parent == "" {
		return NewConfigValidationFieldRequiredError(path, "parent")
	}
	switch {
	case len(cfg.Links) > 0 && len(cfg.Lengths) > 0:
		return NewConfigValidationError(path, errors.New("only one of links and lengths may be given"))
	case len(cfg.Lengths) > 0:
		if len(cfg.Lengths) != 7 {
			return NewConfigValidationError(path, errors.Errorf("six axis chain needs 7 lengths, got %d", len(cfg.Lengths)))
		}
		return nil
	case len(cfg.Links) < 2:
		return NewConfigValidationError(path, errors.Errorf("chain needs at least 2 links, got %d", len(cfg.Links)))
	}

	var errAll error
	for i, link := range cfg.Links {
		linkPath := fmt.Sprintf("%s.links.%d", path, i)
		if link.Name == "" {
			multierr.AppendInto(&errAll, NewConfigValidationFieldRequiredError(linkPath, "name"))
		}
		multierr.AppendInto(&errAll, link.Orientation.validate(linkPath))
		if i == 0 {
			continue
		}
		if link.Axis == (Translation{}) {
			multierr.AppendInto(&errAll, NewConfigValidationFieldRequiredError(linkPath, "axis"))
		}
		if limit := link.Limit(); limit.Min > limit.Max {
			multierr.AppendInto(&errAll, NewConfigValidationError(linkPath,
				errors.Errorf("min_deg %.2f is above max_deg %.2f", utils.RadToDeg(limit.Min), utils.RadToDeg(limit.Max))))
		}
	}
	return errAll
}

// LinkNames returns the names of the frames the chain adds to a tree.
func (cfg *ChainConfig) LinkNames() []string {
	if len(cfg.Lengths) > 0 {
		names := []string{cfg.Name + "_base"}
		for i := 1; i < len(cfg.Lengths); i++ {
			names = append(names, fmt.Sprintf("%s_link%d", cfg.Name, i))
		}
		return names
	}
	names := make([]string, 0, len(cfg.Links))
	for _, link := range cfg.Links {
		names = append(names, link.Name)
	}
	return names
}

// ParseConfig converts a ChainConfig into a chain.
func (cfg *ChainConfig) ParseConfig() (*referenceframe.Chain, error) {
	if len(cfg.Lengths) > 0 {
		return referenceframe.NewSixAxisChain(cfg.Name, cfg.Lengths, nil)
	}
	links := make([]referenceframe.Link, 0, len(cfg.Links))
	for i := range cfg.Links {
		link := &cfg.Links[i]
		links = append(links, referenceframe.Link{
			Name:   link.Name,
			Offset: parsePose(link.Translation, link.Orientation),
			Axis:   link.Axis.ParseConfig(),
			Limit:  link.Limit(),
		})
	}
	return referenceframe.NewChain(cfg.Name, links)
}
