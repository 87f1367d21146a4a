package referenceframe

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cinebot/rig/utils"
)

// Input wraps the input to a joint of a chain. Inputs to the revolute joints of a rig are in radians.
type Input struct {
	Value float64
}

// FloatsToInputs wraps a slice of floats in Inputs.
func FloatsToInputs(floats []float64) []Input {
	inputs := make([]Input, len(floats))
	for i, f := range floats {
		inputs[i] = Input{f}
	}
	return inputs
}

// InputsToFloats unwraps Inputs to raw floats.
func InputsToFloats(inputs []Input) []float64 {
	floats := make([]float64, len(inputs))
	for i, f := range inputs {
		floats[i] = f.Value
	}
	return floats
}

// InputsToDegrees converts radian inputs into a slice of degrees, e.g. for display.
func InputsToDegrees(inputs []Input) []float64 {
	n := make([]float64, len(inputs))
	for idx, in := range inputs {
		n[idx] = utils.RadToDeg(in.Value)
	}
	return n
}

// InputsFromDegrees converts degrees into radian inputs.
func InputsFromDegrees(degrees []float64) []Input {
	n := make([]Input, len(degrees))
	for idx, d := range degrees {
		n[idx] = Input{utils.DegToRad(d)}
	}
	return n
}

// InputsL2Distance returns the two-norm (the sqrt of the sum of the squares) between two Input sets.
// Sets of different length are infinitely far apart.
func InputsL2Distance(from, to []Input) float64 {
	if len(from) != len(to) {
		return math.Inf(1)
	}
	diff := make([]float64, 0, len(from))
	for i, f := range from {
		diff = append(diff, f.Value-to[i].Value)
	}
	// 2 is the L value returning a standard L2 Normalization
	return floats.Norm(diff, 2)
}

// InputsAlmostEqual reports whether every input of a is within epsilon of the matching input of b.
func InputsAlmostEqual(a, b []Input, epsilon float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !utils.Float64AlmostEqual(a[i].Value, b[i].Value, epsilon) {
			return false
		}
	}
	return true
}

func copyInputs(inputs []Input) []Input {
	return append([]Input(nil), inputs...)
}
