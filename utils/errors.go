package utils

import (
	"github.com/pkg/errors"
)

// ErrExceededIterations is returned when an iterative search stops at its iteration cap without meeting its
// tolerance.
var ErrExceededIterations = errors.New("exceeded maximum iterations")

