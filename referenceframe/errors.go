package referenceframe

import (
	"github.com/pkg/errors"
)

var (
	// ErrDuplicateFrame is returned when a frame name is already registered in a tree.
	ErrDuplicateFrame = errors.New("frame already exists")
	// ErrDuplicateChain is returned when a chain name is already registered in a tree.
	ErrDuplicateChain = errors.New("chain already exists")
	// ErrFrameNotFound is returned when a frame name does not resolve.
	ErrFrameNotFound = errors.New("frame not found")
	// ErrChainNotFound is returned when a chain name does not resolve.
	ErrChainNotFound = errors.New("chain not found")
	// ErrDimensionMismatch is returned when a vector has the wrong number of components.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNoChainFound is returned when a frame is not driven by the terminal link of any chain.
	ErrNoChainFound = errors.New("no chain drives frame")
	// ErrNotFixedFrame is returned when a pose is assigned to Root or to a chain link.
	ErrNotFixedFrame = errors.New("frame does not hold a fixed pose")
)

// NewFrameMissingError returns an error indicating that the given frame is missing from the tree.
func NewFrameMissingError(frameName string) error {
	return errors.Wrapf(ErrFrameNotFound, "frame %q", frameName)
}

// NewParentFrameMissingError returns an error indicating that the parent of a new frame is missing.
func NewParentFrameMissingError(frameName, parentName string) error {
	return errors.Wrapf(ErrFrameNotFound, "parent frame %q of %q", parentName, frameName)
}

// NewDuplicateFrameError returns an error indicating a frame name collision.
func NewDuplicateFrameError(frameName string) error {
	return errors.Wrapf(ErrDuplicateFrame, "frame %q", frameName)
}

// NewChainMissingError returns an error indicating that the given chain is not registered.
func NewChainMissingError(chainName string) error {
	return errors.Wrapf(ErrChainNotFound, "chain %q", chainName)
}

// NewIncorrectDoFError returns an error indicating that the number of inputs does not match the
// degrees of freedom of a chain.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Wrapf(ErrDimensionMismatch,
		"number of inputs does not match chain DoF, expected %d but got %d", expected, actual)
}
