package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/cinebot/rig/spatialmath"
)

var testLengths = []float64{0.1, 0.1, 0.05, 0.3, 0.15, 0.1, 0.05}

func TestNewSixAxisChain(t *testing.T) {
	chain, err := NewSixAxisChain("arm", testLengths, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.Name(), test.ShouldEqual, "arm")
	test.That(t, chain.NumLinks(), test.ShouldEqual, 7)
	test.That(t, chain.Link(0).Name, test.ShouldEqual, "arm_base")
	test.That(t, chain.Link(6).Name, test.ShouldEqual, "arm_link6")
	test.That(t, chain.DoF(), test.ShouldHaveLength, 6)
	test.That(t, chain.DoF()[3], test.ShouldResemble, Limit{-math.Pi, math.Pi})

	end, err := chain.Transform(make([]Input, 6))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(end.Point(), r3.Vector{Z: 0.85}, 1e-12), test.ShouldBeTrue)

	_, err = chain.Transform(make([]Input, 5))
	test.That(t, err, test.ShouldWrap, ErrDimensionMismatch)

	_, err = NewSixAxisChain("arm", testLengths[:6], nil)
	test.That(t, err, test.ShouldWrap, ErrDimensionMismatch)
	_, err = NewSixAxisChain("arm", testLengths, []Limit{{-1, 1}})
	test.That(t, err, test.ShouldWrap, ErrDimensionMismatch)
}

func TestNewChainValidation(t *testing.T) {
	base := Link{Name: "base"}
	joint := Link{Name: "j1", Axis: r3.Vector{Z: 2}, Limit: Limit{-1, 1}}

	_, err := NewChain("", []Link{base, joint})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewChain("c", []Link{base})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewChain("c", []Link{base, {Name: "base", Axis: r3.Vector{Z: 1}}})
	test.That(t, err, test.ShouldWrap, ErrDuplicateFrame)

	_, err = NewChain("c", []Link{base, {Name: "j1"}, {Name: "j2", Axis: r3.Vector{X: 1}, Limit: Limit{1, -1}}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "zero joint axis")
	test.That(t, err.Error(), test.ShouldContainSubstring, "empty joint limit")

	chain, err := NewChain("c", []Link{base, joint})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.Link(1).Axis, test.ShouldResemble, r3.Vector{Z: 1})
	test.That(t, chain.Link(0).Offset, test.ShouldNotBeNil)

	// the chain keeps its own copy of the links
	links := chain.Links()
	links[1].Name = "changed"
	test.That(t, chain.Link(1).Name, test.ShouldEqual, "j1")

	test.That(t, chain.CheckLimits([]Input{{0.5}}), test.ShouldBeNil)
	test.That(t, chain.CheckLimits([]Input{{1.5}}).Error(), test.ShouldContainSubstring, OOBErrString)
}

func TestLinkPoses(t *testing.T) {
	chain, err := NewSixAxisChain("arm", testLengths, nil)
	test.That(t, err, test.ShouldBeNil)

	// tilting the shoulder a quarter turn about x swings everything above it towards -y
	poses, err := chain.LinkPoses([]Input{{0}, {math.Pi / 2}, {0}, {0}, {0}, {0}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, poses, test.ShouldHaveLength, 7)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses[0].Point(), r3.Vector{Z: 0.1}, 1e-12), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses[2].Point(), r3.Vector{Z: 0.25}, 1e-12), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses[6].Point(), r3.Vector{Y: -0.6, Z: 0.25}, 1e-9), test.ShouldBeTrue)

	// a quarter turn of the base then swings the arm towards +x
	poses, err = chain.LinkPoses([]Input{{math.Pi / 2}, {math.Pi / 2}, {0}, {0}, {0}, {0}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses[6].Point(), r3.Vector{X: 0.6, Z: 0.25}, 1e-9), test.ShouldBeTrue)

	// the joint transform of a link is its offset followed by its rotation
	jt := chain.JointTransform(2, math.Pi/2)
	test.That(t, spatialmath.R3VectorAlmostEqual(jt.Point(), r3.Vector{Z: 0.05}, 1e-12), test.ShouldBeTrue)
	test.That(t, jt.Orientation().AxisAngles().Theta, test.ShouldAlmostEqual, math.Pi/2)
}
