package spatialmath

import (
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// delimitedStringToSlice splits up comma or space delimited fields, such as "1,2,3" or "1 2 3".
func delimitedStringToSlice(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	converted := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse %q", field)
		}
		converted = append(converted, value)
	}
	return converted, nil
}

// ParseVector parses "x,y,z" into a vector.
func ParseVector(s string) (r3.Vector, error) {
	vals, err := delimitedStringToSlice(s)
	if err != nil {
		return r3.Vector{}, err
	}
	if len(vals) != 3 {
		return r3.Vector{}, errors.Errorf("vector needs 3 components, got %d", len(vals))
	}
	return r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// ParsePose parses "x,y,z" or "x,y,z,th,rx,ry,rz" into a pose. The orientation is an axis angle in radians.
func ParsePose(s string) (Pose, error) {
	vals, err := delimitedStringToSlice(s)
	if err != nil {
		return nil, err
	}
	switch len(vals) {
	case 3:
		return NewPoseFromPoint(r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}), nil
	case 7:
		return NewPose(
			r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]},
			&R4AA{Theta: vals[3], RX: vals[4], RY: vals[5], RZ: vals[6]},
		), nil
	default:
		return nil, errors.Errorf("pose needs 3 or 7 components, got %d", len(vals))
	}
}
