package ik

import (
	"math"

	"github.com/cinebot/rig/referenceframe"
)

// BranchSelector picks one configuration among several valid inverse kinematics solutions.
// candidates is never empty.
type BranchSelector interface {
	Select(candidates [][]referenceframe.Input, seed []referenceframe.Input) []referenceframe.Input
}

// BranchSelectorFunc adapts a function to a BranchSelector.
type BranchSelectorFunc func(candidates [][]referenceframe.Input, seed []referenceframe.Input) []referenceframe.Input

// Select calls f.
func (f BranchSelectorFunc) Select(candidates [][]referenceframe.Input, seed []referenceframe.Input) []referenceframe.Input {
	return f(candidates, seed)
}

// distanceSelector returns the candidate with the least distance to the seed. The first candidate
// wins ties.
type distanceSelector struct {
	dist func(from, to []referenceframe.Input) float64
}

func (s *distanceSelector) Select(candidates [][]referenceframe.Input, seed []referenceframe.Input) []referenceframe.Input {
	best := candidates[0]
	bestDist := s.dist(best, seed)
	for _, candidate := range candidates[1:] {
		if d := s.dist(candidate, seed); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// NewNearestSelector returns a selector choosing the candidate nearest to the seed in joint space,
// by L2 distance.
func NewNearestSelector() BranchSelector {
	return &distanceSelector{dist: referenceframe.InputsL2Distance}
}

// NewWeightedSelector returns a selector choosing the candidate nearest to the seed where each
// joint's difference is scaled by its weight. Joints without a weight count with weight 1.
func NewWeightedSelector(weights []float64) BranchSelector {
	w := append([]float64(nil), weights...)
	return &distanceSelector{dist: func(from, to []referenceframe.Input) float64 {
		if len(from) != len(to) {
			return math.Inf(1)
		}
		sum := 0.
		for i := range from {
			weight := 1.
			if i < len(w) {
				weight = w[i]
			}
			d := from[i].Value - to[i].Value
			sum += weight * d * d
		}
		return math.Sqrt(sum)
	}}
}
