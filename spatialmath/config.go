package spatialmath

import (
	"github.com/golang/geo/r3"
)

// TranslationConfig is the json form of a translation.
type TranslationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewTranslationConfig constructs a config from a vector.
func NewTranslationConfig(pt r3.Vector) *TranslationConfig {
	return &TranslationConfig{X: pt.X, Y: pt.Y, Z: pt.Z}
}

// ParseConfig converts a TranslationConfig into a vector.
func (cfg *TranslationConfig) ParseConfig() r3.Vector {
	if cfg == nil {
		return r3.Vector{}
	}
	return r3.Vector{X: cfg.X, Y: cfg.Y, Z: cfg.Z}
}

// PoseConfig is the json form of a pose. The orientation is an axis angle in radians; a missing
// orientation means no rotation.
type PoseConfig struct {
	Translation TranslationConfig `json:"translation"`
	Orientation *R4AA             `json:"orientation,omitempty"`
}

// NewPoseConfig constructs a config from a pose.
func NewPoseConfig(p Pose) *PoseConfig {
	return &PoseConfig{
		Translation: *NewTranslationConfig(p.Point()),
		Orientation: p.Orientation().AxisAngles(),
	}
}

// ParseConfig converts a PoseConfig into a pose.
func (cfg *PoseConfig) ParseConfig() Pose {
	if cfg == nil {
		return NewZeroPose()
	}
	if cfg.Orientation == nil {
		return NewPoseFromPoint(cfg.Translation.ParseConfig())
	}
	return NewPose(cfg.Translation.ParseConfig(), cfg.Orientation)
}
