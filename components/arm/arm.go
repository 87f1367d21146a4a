// Package arm defines the arm driver consumed by the planners. Drivers for real hardware live
// outside this module.
package arm

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cinebot/rig/referenceframe"
)

// Arm reads and commands the joints of a rig arm. Joint values are in radians.
type Arm interface {
	// JointPositions returns the current joint positions of the arm.
	JointPositions(ctx context.Context) ([]referenceframe.Input, error)

	// MoveToJointPositions moves the arm to the given joint positions.
	MoveToJointPositions(ctx context.Context, positions []referenceframe.Input) error
}

// CheckDesiredJointPositions validates that the desired joint positions fit the chain of an arm.
func CheckDesiredJointPositions(chain *referenceframe.Chain, desired []referenceframe.Input) error {
	if err := chain.CheckLimits(desired); err != nil {
		return errors.Wrapf(err, "cannot move arm %q", chain.Name())
	}
	return nil
}

// MoveThroughJointPositions moves the arm through each of the given positions in order, stopping at
// the first error or when ctx is done.
func MoveThroughJointPositions(ctx context.Context, a Arm, positions [][]referenceframe.Input) error {
	for i, goal := range positions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.MoveToJointPositions(ctx, goal); err != nil {
			return errors.Wrapf(err, "moving to position %d", i)
		}
	}
	return nil
}
