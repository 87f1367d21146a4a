package spline

import (
	"github.com/pkg/errors"

	"github.com/cinebot/rig/spatialmath"
	"github.com/cinebot/rig/utils"
)

var (
	// ErrDegenerateOrientation is returned when a camera pose cannot be built because the gaze
	// direction is zero or parallel to the world up axis.
	ErrDegenerateOrientation = spatialmath.ErrDegenerateOrientation
	// ErrExceededIterations is returned when an arc length anchor could not be placed within
	// tolerance before the iteration cap.
	ErrExceededIterations = utils.ErrExceededIterations
	// ErrDegeneratePath is returned for paths with fewer than two points or no length.
	ErrDegeneratePath = errors.New("degenerate path")
)
