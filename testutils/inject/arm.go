// Package inject provides test doubles whose behaviour is injected per method.
package inject

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cinebot/rig/components/arm"
	"github.com/cinebot/rig/referenceframe"
)

// Arm is an injected arm.
type Arm struct {
	arm.Arm
	JointPositionsFunc       func(ctx context.Context) ([]referenceframe.Input, error)
	MoveToJointPositionsFunc func(ctx context.Context, positions []referenceframe.Input) error
}

// NewArm returns a new injected arm wrapping nothing. Methods without an injected function fail.
func NewArm() *Arm {
	return &Arm{}
}

// JointPositions calls the injected JointPositions or the real version.
func (a *Arm) JointPositions(ctx context.Context) ([]referenceframe.Input, error) {
	if a.JointPositionsFunc == nil {
		if a.Arm == nil {
			return nil, errors.New("JointPositions not injected")
		}
		return a.Arm.JointPositions(ctx)
	}
	return a.JointPositionsFunc(ctx)
}

// MoveToJointPositions calls the injected MoveToJointPositions or the real version.
func (a *Arm) MoveToJointPositions(ctx context.Context, positions []referenceframe.Input) error {
	if a.MoveToJointPositionsFunc == nil {
		if a.Arm == nil {
			return errors.New("MoveToJointPositions not injected")
		}
		return a.Arm.MoveToJointPositions(ctx, positions)
	}
	return a.MoveToJointPositionsFunc(ctx, positions)
}
