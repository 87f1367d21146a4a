// Package referenceframe maintains the tree of coordinate frames of a camera rig: the links of its
// arm chains, the mounted camera and any virtual subjects placed around it. Poses can be queried
// between any two frames, and setting the pose of a frame at the tip of a chain solves for the
// chain's joints.
package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cinebot/rig/utils"
)

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other
// Transform errors.
const OOBErrString = "input out of bounds"

// Limit represents the limits of motion of a joint, in radians.
type Limit struct {
	Min float64
	Max float64
}

// NewLimitDegrees builds a limit from bounds given in degrees.
func NewLimitDegrees(minDeg, maxDeg float64) Limit {
	return Limit{Min: utils.DegToRad(minDeg), Max: utils.DegToRad(maxDeg)}
}

// Contains reports whether value lies within the closed interval of the limit.
func (l Limit) Contains(value float64) bool {
	return value >= l.Min && value <= l.Max
}

func (l Limit) String() string {
	return fmt.Sprintf("[%.4f, %.4f]", l.Min, l.Max)
}

// CheckInputsInLimits returns an error naming every input that lies outside its limit. The error
// message contains OOBErrString.
func CheckInputsInLimits(limits []Limit, inputs []Input) error {
	if len(limits) != len(inputs) {
		return NewIncorrectDoFError(len(inputs), len(limits))
	}
	var errAll error
	for i, input := range inputs {
		if !limits[i].Contains(input.Value) {
			multierr.AppendInto(&errAll, errors.Errorf("%s: joint %d value %.4f not in %v", OOBErrString, i, input.Value, limits[i]))
		}
	}
	return errAll
}
