// Package ik contains the closed form inverse kinematics solver for the six-axis rig arm and the
// strategies used to choose between its solution branches.
package ik

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
	"github.com/cinebot/rig/utils"
)

const (
	// tolerance on the elbow cosine for the fully extended and folded cases.
	elbowEpsilon = 1e-9
	// tolerance used when checking that a chain has the supported geometry.
	geometryEpsilon = 1e-9
)

// SixAxisSolver solves the joints of a seven link chain whose joint axes are z, x, x, z, x, z and
// whose link offsets are pure translations along the local z axis. It produces up to four
// solutions: two elbow branches times two wrist branches.
type SixAxisSolver struct {
	logger   logging.Logger
	selector BranchSelector
}

// Option configures a SixAxisSolver.
type Option func(*SixAxisSolver)

// WithBranchSelector replaces the strategy used to pick among several valid solutions.
func WithBranchSelector(selector BranchSelector) Option {
	return func(s *SixAxisSolver) {
		s.selector = selector
	}
}

// NewSixAxisSolver returns a solver that picks the solution nearest to the seed unless configured
// otherwise.
func NewSixAxisSolver(logger logging.Logger, opts ...Option) *SixAxisSolver {
	s := &SixAxisSolver{logger: logger, selector: NewNearestSelector()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sixAxisGeometry returns the seven link lengths of chain, or an error if the chain is not a six
// axis arm.
func sixAxisGeometry(chain *referenceframe.Chain) ([]float64, error) {
	if chain.NumLinks() != len(referenceframe.SixAxisJointAxes)+1 {
		return nil, NewUnsupportedChainError(chain.Name(), "need %d links, got %d",
			len(referenceframe.SixAxisJointAxes)+1, chain.NumLinks())
	}
	lengths := make([]float64, chain.NumLinks())
	for i, link := range chain.Links() {
		if i > 0 && !spatialmath.R3VectorAlmostEqual(link.Axis, referenceframe.SixAxisJointAxes[i-1], geometryEpsilon) {
			return nil, NewUnsupportedChainError(chain.Name(), "link %q rotates about %v, want %v",
				link.Name, link.Axis, referenceframe.SixAxisJointAxes[i-1])
		}
		offset := link.Offset.Point()
		if math.Abs(offset.X) > geometryEpsilon || math.Abs(offset.Y) > geometryEpsilon || offset.Z < 0 {
			return nil, NewUnsupportedChainError(chain.Name(), "link %q is not offset along +z", link.Name)
		}
		if !spatialmath.OrientationAlmostEqualEps(link.Offset.Orientation(), spatialmath.NewZeroOrientation(), geometryEpsilon) {
			return nil, NewUnsupportedChainError(chain.Name(), "link %q offset is rotated", link.Name)
		}
		lengths[i] = offset.Z
	}
	return lengths, nil
}

// Solve returns the joint inputs placing the terminal link of chain at target, expressed in the base
// frame of the chain. When several solutions lie within the joint limits the branch selector picks
// one using seed.
func (s *SixAxisSolver) Solve(
	chain *referenceframe.Chain,
	target spatialmath.Pose,
	seed []referenceframe.Input,
) ([]referenceframe.Input, error) {
	candidates, err := s.Candidates(chain, target)
	if err != nil {
		return nil, err
	}

	limits := chain.DoF()
	valid := make([][]referenceframe.Input, 0, len(candidates))
	for _, candidate := range candidates {
		if referenceframe.CheckInputsInLimits(limits, candidate) == nil {
			valid = append(valid, candidate)
		}
	}
	s.logger.Debugw("six axis solutions", "chain", chain.Name(), "candidates", len(candidates), "in_limits", len(valid))

	switch len(valid) {
	case 0:
		return nil, NewUnreachableError("%d solutions, none within joint limits", len(candidates))
	case 1:
		return valid[0], nil
	default:
		return s.selector.Select(valid, seed), nil
	}
}

// Candidates returns every analytic solution for target, without applying joint limits. Candidates
// are ordered elbow up before elbow down, and for each elbow the primary wrist branch first.
func (s *SixAxisSolver) Candidates(chain *referenceframe.Chain, target spatialmath.Pose) ([][]referenceframe.Input, error) {
	lengths, err := sixAxisGeometry(chain)
	if err != nil {
		return nil, err
	}
	// solve relative to the end of the base link
	local := spatialmath.Compose(spatialmath.PoseInverse(chain.Link(0).Offset), target)

	rot := local.Orientation().RotationMatrix()
	wrist := local.Point().Sub(rot.Col(2).Mul(lengths[6]))
	theta0 := utils.WrapAngle(math.Atan2(wrist.Y, wrist.X) - math.Pi/2)

	arms, err := solveElbow(wrist, lengths)
	if err != nil {
		return nil, err
	}

	candidates := make([][]referenceframe.Input, 0, 2*len(arms))
	for _, arm := range arms {
		thetas := []float64{theta0, arm[0], arm[1], 0, 0, 0}
		elbow := forward(chain, thetas, 3)
		p := spatialmath.Compose(spatialmath.PoseInverse(elbow), local).Point()
		for _, theta3 := range []float64{
			utils.WrapAngle(math.Atan2(p.Y, p.X) - math.Pi/2),
			utils.WrapAngle(math.Atan2(-p.Y, -p.X) - math.Pi/2),
		} {
			thetas[3] = theta3
			p3 := spatialmath.Compose(spatialmath.PoseInverse(forward(chain, thetas, 4)), local).Point()
			thetas[4] = -math.Atan2(p3.Y, p3.Z-lengths[5])

			residual := spatialmath.Compose(spatialmath.PoseInverse(forward(chain, thetas, 5)), local)
			rm := residual.Orientation().RotationMatrix()
			thetas[5] = math.Atan2(rm.At(1, 0), rm.At(0, 0))

			candidates = append(candidates, referenceframe.FloatsToInputs(append([]float64(nil), thetas...)))
		}
	}
	return candidates, nil
}

// solveElbow returns the (shoulder, elbow) joint pairs placing the wrist centre at wrist, elbow up
// first. A fully extended arm has a single solution.
func solveElbow(wrist r3.Vector, lengths []float64) ([][2]float64, error) {
	shoulder := r3.Vector{Z: lengths[1] + lengths[2]}
	upper := lengths[3]
	fore := lengths[4] + lengths[5]
	if upper == 0 || fore == 0 {
		return nil, NewUnreachableError("arm has a zero length segment")
	}

	toWrist := wrist.Sub(shoulder)
	delta := toWrist.Norm()
	cosElbow := (fore*fore + upper*upper - delta*delta) / (2 * fore * upper)

	switch {
	case math.Abs(cosElbow+1) < elbowEpsilon:
		beta := math.Asin(utils.Clamp(toWrist.Z/delta, -1, 1))
		return [][2]float64{{utils.WrapAngle(beta - math.Pi/2), 0}}, nil
	case math.Abs(cosElbow-1) < elbowEpsilon:
		return nil, NewUnreachableError("wrist centre %v requires a folded elbow", wrist)
	case cosElbow < -1 || cosElbow > 1:
		return nil, NewUnreachableError("wrist centre %v is %.4f from the shoulder, reach is [%.4f, %.4f]",
			wrist, delta, math.Abs(fore-upper), fore+upper)
	}

	beta := math.Asin(utils.Clamp(toWrist.Z/delta, -1, 1))
	phi := math.Acos(utils.Clamp((delta*delta+upper*upper-fore*fore)/(2*upper*delta), -1, 1))
	bend := math.Acos(-cosElbow)
	return [][2]float64{
		{utils.WrapAngle(beta + phi - math.Pi/2), -bend},
		{utils.WrapAngle(beta - phi - math.Pi/2), bend},
	}, nil
}

// forward composes the first n joint transforms of chain, leaving out the base link offset.
func forward(chain *referenceframe.Chain, thetas []float64, n int) spatialmath.Pose {
	pose := spatialmath.NewZeroPose()
	for i := 1; i <= n; i++ {
		pose = spatialmath.Compose(pose, chain.JointTransform(i, thetas[i-1]))
	}
	return pose
}
