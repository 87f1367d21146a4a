// Package fake implements an in-memory arm that follows a kinematic chain.
package fake

import (
	"context"
	"sync"

	"github.com/cinebot/rig/components/arm"
	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/referenceframe"
)

// Arm is a fake arm that can simply read and set joint positions.
type Arm struct {
	logger logging.Logger

	mu     sync.RWMutex
	chain  *referenceframe.Chain
	joints []referenceframe.Input
	moves  int
}

// NewArm returns a fake arm for chain with every joint at zero.
func NewArm(chain *referenceframe.Chain, logger logging.Logger) *Arm {
	return &Arm{
		logger: logger,
		chain:  chain,
		joints: make([]referenceframe.Input, chain.NumLinks()-1),
	}
}

// MoveToJointPositions sets the joints, rejecting positions outside the chain's limits.
func (a *Arm) MoveToJointPositions(ctx context.Context, joints []referenceframe.Input) error {
	if err := arm.CheckDesiredJointPositions(a.chain, joints); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	copy(a.joints, joints)
	a.moves++
	a.logger.CDebugw(ctx, "fake arm moved", "chain", a.chain.Name(), "joints", referenceframe.InputsToFloats(joints))
	return nil
}

// JointPositions returns a copy of the joints.
func (a *Arm) JointPositions(ctx context.Context) ([]referenceframe.Input, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]referenceframe.Input(nil), a.joints...), nil
}

// Moves returns the number of successful moves.
func (a *Arm) Moves() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.moves
}
