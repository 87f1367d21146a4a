package referenceframe

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cinebot/rig/spatialmath"
)

// SixAxisJointAxes are the joint axes of the six-axis rig arm, in the local frame of each link.
var SixAxisJointAxes = []r3.Vector{{Z: 1}, {X: 1}, {X: 1}, {Z: 1}, {X: 1}, {Z: 1}}

// Link is one rigid segment of a chain. Offset is the fixed pose of the link relative to the
// previous link, and the joint then rotates the link about Axis. The base link of a chain has no
// joint, so its Axis and Limit are ignored.
type Link struct {
	Name   string
	Offset spatialmath.Pose
	Axis   r3.Vector
	Limit  Limit
}

// Chain is a named serial list of links. links[0] is the base link; every subsequent link carries
// one revolute joint, so a chain of n links has n-1 degrees of freedom.
type Chain struct {
	name  string
	links []Link
}

// NewChain validates the given links and returns a chain. Link axes are normalized.
func NewChain(name string, links []Link) (*Chain, error) {
	if name == "" {
		return nil, errors.New("chain name cannot be empty")
	}
	if len(links) < 2 {
		return nil, errors.Errorf("chain %q needs a base link and at least one jointed link, got %d links", name, len(links))
	}

	var errAll error
	seen := make(map[string]struct{}, len(links))
	owned := make([]Link, len(links))
	for i, link := range links {
		if link.Name == "" {
			multierr.AppendInto(&errAll, errors.Errorf("link %d of chain %q has no name", i, name))
		}
		if _, ok := seen[link.Name]; ok {
			multierr.AppendInto(&errAll, NewDuplicateFrameError(link.Name))
		}
		seen[link.Name] = struct{}{}
		if link.Offset == nil {
			link.Offset = spatialmath.NewZeroPose()
		}
		if i > 0 {
			if link.Axis.Norm() < 1e-12 {
				multierr.AppendInto(&errAll, errors.Errorf("link %q has a zero joint axis", link.Name))
			} else {
				link.Axis = link.Axis.Normalize()
			}
			if link.Limit.Min > link.Limit.Max {
				multierr.AppendInto(&errAll, errors.Errorf("link %q has an empty joint limit %v", link.Name, link.Limit))
			}
		}
		owned[i] = link
	}
	if errAll != nil {
		return nil, errAll
	}
	return &Chain{name: name, links: owned}, nil
}

// NewSixAxisChain builds the six-axis rig arm from seven link lengths: the base link length
// followed by the six jointed link lengths. Every link is offset along the local z axis of the
// previous one. A nil limits slice gives every joint the range [-pi, pi].
func NewSixAxisChain(name string, lengths []float64, limits []Limit) (*Chain, error) {
	if len(lengths) != 7 {
		return nil, errors.Wrapf(ErrDimensionMismatch, "six axis chain needs 7 link lengths, got %d", len(lengths))
	}
	if limits != nil && len(limits) != len(SixAxisJointAxes) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "six axis chain needs 6 joint limits, got %d", len(limits))
	}
	links := make([]Link, 0, len(lengths))
	links = append(links, Link{
		Name:   name + "_base",
		Offset: spatialmath.NewPoseFromPoint(r3.Vector{Z: lengths[0]}),
	})
	for i, axis := range SixAxisJointAxes {
		limit := Limit{Min: -math.Pi, Max: math.Pi}
		if limits != nil {
			limit = limits[i]
		}
		links = append(links, Link{
			Name:   fmt.Sprintf("%s_link%d", name, i+1),
			Offset: spatialmath.NewPoseFromPoint(r3.Vector{Z: lengths[i+1]}),
			Axis:   axis,
			Limit:  limit,
		})
	}
	return NewChain(name, links)
}

// Name returns the name of the chain.
func (c *Chain) Name() string {
	return c.name
}

// Links returns a copy of the links of the chain.
func (c *Chain) Links() []Link {
	return append([]Link(nil), c.links...)
}

// Link returns the link at the given index.
func (c *Chain) Link(idx int) Link {
	return c.links[idx]
}

// NumLinks returns the number of links including the base link.
func (c *Chain) NumLinks() int {
	return len(c.links)
}

// DoF returns the joint limits of the chain, one per jointed link.
func (c *Chain) DoF() []Limit {
	limits := make([]Limit, 0, len(c.links)-1)
	for _, link := range c.links[1:] {
		limits = append(limits, link.Limit)
	}
	return limits
}

// CheckLimits returns an error if the number of inputs is wrong or any input is out of bounds.
func (c *Chain) CheckLimits(inputs []Input) error {
	return CheckInputsInLimits(c.DoF(), inputs)
}

// JointTransform returns the pose of link linkIdx relative to link linkIdx-1 when its joint is at
// theta: the link offset followed by the joint rotation.
func (c *Chain) JointTransform(linkIdx int, theta float64) spatialmath.Pose {
	link := c.links[linkIdx]
	rot := spatialmath.NewPoseFromOrientation(&spatialmath.R4AA{Theta: theta, RX: link.Axis.X, RY: link.Axis.Y, RZ: link.Axis.Z})
	return spatialmath.Compose(link.Offset, rot)
}

// localTransform is the pose of link linkIdx relative to its parent frame in a tree. The base link
// frame sits at the chain's attachment point, so the first jointed link also carries the base offset.
func (c *Chain) localTransform(linkIdx int, inputs []Input) spatialmath.Pose {
	pose := c.JointTransform(linkIdx, inputs[linkIdx-1].Value)
	if linkIdx == 1 {
		pose = spatialmath.Compose(c.links[0].Offset, pose)
	}
	return pose
}

// LinkPoses returns the pose of every link relative to the base frame of the chain. The base link
// pose is its own offset.
func (c *Chain) LinkPoses(inputs []Input) ([]spatialmath.Pose, error) {
	if len(inputs) != len(c.links)-1 {
		return nil, NewIncorrectDoFError(len(inputs), len(c.links)-1)
	}
	poses := make([]spatialmath.Pose, 0, len(c.links))
	pose := c.links[0].Offset
	poses = append(poses, pose)
	for i := 1; i < len(c.links); i++ {
		pose = spatialmath.Compose(pose, c.JointTransform(i, inputs[i-1].Value))
		poses = append(poses, pose)
	}
	return poses, nil
}

// Transform returns the pose of the terminal link relative to the base frame of the chain.
func (c *Chain) Transform(inputs []Input) (spatialmath.Pose, error) {
	poses, err := c.LinkPoses(inputs)
	if err != nil {
		return nil, err
	}
	return poses[len(poses)-1], nil
}
