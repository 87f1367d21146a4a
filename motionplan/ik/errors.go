package ik

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnreachable is returned when no joint configuration within limits reaches the target.
	ErrUnreachable = errors.New("target unreachable")
	// ErrUnsupportedChain is returned when a chain does not have the geometry the solver handles.
	ErrUnsupportedChain = errors.New("unsupported chain geometry")
)

// NewUnreachableError returns an error wrapping ErrUnreachable with the reason the target could not be reached.
func NewUnreachableError(reason string, args ...interface{}) error {
	return errors.Wrapf(ErrUnreachable, reason, args...)
}

// NewUnsupportedChainError returns an error wrapping ErrUnsupportedChain naming the offending chain.
func NewUnsupportedChainError(chainName, reason string, args ...interface{}) error {
	return errors.Wrapf(errors.Wrapf(ErrUnsupportedChain, reason, args...), "chain %q", chainName)
}
