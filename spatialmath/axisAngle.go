package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// R4AA is a rotation of Theta radians about the axis (RX, RY, RZ). The axis need not be unit
// length; conversions normalize it and a zero axis stands for +z.
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewR4AA returns the identity rotation about +z.
func NewR4AA() *R4AA {
	return &R4AA{RZ: 1}
}

// NewR4AAFromAxis returns a rotation of theta radians about axis.
func NewR4AAFromAxis(theta float64, axis r3.Vector) *R4AA {
	return &R4AA{Theta: theta, RX: axis.X, RY: axis.Y, RZ: axis.Z}
}

// AxisAngles returns r4 itself.
func (r4 *R4AA) AxisAngles() *R4AA {
	return r4
}

// Quaternion returns the rotation as a unit quaternion.
func (r4 *R4AA) Quaternion() quat.Number {
	return r4.ToQuat()
}

// RotationMatrix returns the rotation as a matrix.
func (r4 *R4AA) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(r4.Quaternion())
}

// axis returns the unit rotation axis.
func (r4 *R4AA) axis() r3.Vector {
	v := r3.Vector{X: r4.RX, Y: r4.RY, Z: r4.RZ}
	if v.Norm2() == 0 {
		return r3.Vector{Z: 1}
	}
	return v.Normalize()
}

// ToR3 returns the rotation vector: the axis scaled by Theta.
func (r4 *R4AA) ToR3() r3.Vector {
	return r4.axis().Mul(r4.Theta)
}

// ToQuat returns the rotation as a unit quaternion, (cos θ/2, sin θ/2 · axis).
func (r4 *R4AA) ToQuat() quat.Number {
	if r4.Theta == 0 {
		return quat.Number{Real: 1}
	}
	a := r4.axis()
	s := math.Sin(r4.Theta / 2)
	return quat.Number{Real: math.Cos(r4.Theta / 2), Imag: a.X * s, Jmag: a.Y * s, Kmag: a.Z * s}
}

// Normalize puts the axis on the unit sphere in place.
func (r4 *R4AA) Normalize() {
	a := r4.axis()
	r4.RX, r4.RY, r4.RZ = a.X, a.Y, a.Z
}

// R3ToR4 converts a rotation vector back to an axis and angle.
func R3ToR4(v r3.Vector) *R4AA {
	theta := v.Norm()
	if theta == 0 {
		return NewR4AA()
	}
	return &R4AA{Theta: theta, RX: v.X / theta, RY: v.Y / theta, RZ: v.Z / theta}
}
