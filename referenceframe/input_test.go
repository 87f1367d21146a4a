package referenceframe

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/cinebot/rig/utils"
)

func TestInputConversions(t *testing.T) {
	in := []float64{0, math.Pi}
	inputs := FloatsToInputs(in)
	test.That(t, inputs, test.ShouldResemble, []Input{{0}, {math.Pi}})
	test.That(t, InputsToFloats(inputs), test.ShouldResemble, in)

	deg := InputsToDegrees(inputs)
	test.That(t, deg[0], test.ShouldEqual, 0.0)
	test.That(t, deg[1], test.ShouldAlmostEqual, 180.0)
	test.That(t, InputsAlmostEqual(InputsFromDegrees(deg), inputs, 1e-12), test.ShouldBeTrue)
}

func TestInputsL2Distance(t *testing.T) {
	test.That(t, InputsL2Distance([]Input{{0}, {0}}, []Input{{3}, {4}}), test.ShouldAlmostEqual, 5)
	test.That(t, InputsL2Distance([]Input{{1}}, []Input{{1}}), test.ShouldEqual, 0.)
	test.That(t, math.IsInf(InputsL2Distance([]Input{{1}}, []Input{{1}, {2}}), 1), test.ShouldBeTrue)

	test.That(t, InputsAlmostEqual([]Input{{1}}, []Input{{1 + 1e-9}}, 1e-6), test.ShouldBeTrue)
	test.That(t, InputsAlmostEqual([]Input{{1}}, []Input{{1}, {2}}, 1e-6), test.ShouldBeFalse)
}

func TestLimits(t *testing.T) {
	limit := NewLimitDegrees(-90, 180)
	test.That(t, limit.Min, test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, limit.Max, test.ShouldAlmostEqual, math.Pi)
	test.That(t, limit.Contains(math.Pi), test.ShouldBeTrue)
	test.That(t, limit.Contains(-2), test.ShouldBeFalse)

	limits := []Limit{limit, {-1, 1}}
	test.That(t, CheckInputsInLimits(limits, []Input{{0}, {1}}), test.ShouldBeNil)

	err := CheckInputsInLimits(limits, []Input{{-2}, {1.5}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, OOBErrString)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint 0")
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint 1")

	err = CheckInputsInLimits(limits, []Input{{0}})
	test.That(t, err, test.ShouldWrap, ErrDimensionMismatch)

	test.That(t, limitsAlmostEqual(limits, []Limit{limit, {-1, 1 + 1e-7}}), test.ShouldBeTrue)
	test.That(t, limitsAlmostEqual(limits, limits[:1]), test.ShouldBeFalse)
}

func limitsAlmostEqual(a, b []Limit) bool {
	if len(a) != len(b) {
		return false
	}

	const epsilon = 1e-5
	for idx, x := range a {
		if !utils.Float64AlmostEqual(x.Min, b[idx].Min, epsilon) ||
			!utils.Float64AlmostEqual(x.Max, b[idx].Max, epsilon) {
			return false
		}
	}

	return true
}
