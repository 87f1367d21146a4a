package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrDegenerateOrientation is returned when an orthonormal basis cannot be built because the requested
// forward axis is parallel to the up axis or has zero length.
var ErrDegenerateOrientation = errors.New("degenerate orientation")

// PoseToMatrix returns the 4x4 homogeneous transform describing the pose.
func PoseToMatrix(p Pose) mgl64.Mat4 {
	rm := p.Orientation().RotationMatrix()
	pt := p.Point()
	m := mgl64.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, rm.At(r, c))
		}
	}
	m.Set(0, 3, pt.X)
	m.Set(1, 3, pt.Y)
	m.Set(2, 3, pt.Z)
	return m
}

// NewPoseFromMatrix builds a pose from a 4x4 homogeneous transform. The upper left 3x3 block must be a
// rotation; the bottom row is ignored.
func NewPoseFromMatrix(m mgl64.Mat4) Pose {
	rm := &RotationMatrix{[9]float64{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
		m.At(2, 0), m.At(2, 1), m.At(2, 2),
	}}
	return NewPose(r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}, rm)
}

// NewLookAtPose returns the pose located at eye whose local z axis points at target. The local x axis is
// forward × worldUp and the local y axis is forward × x, so the rotation columns are [right, up, forward].
func NewLookAtPose(eye, target, worldUp r3.Vector) (Pose, error) {
	forward := target.Sub(eye)
	if forward.Norm() < 1e-12 {
		return nil, errors.Wrap(ErrDegenerateOrientation, "look-at target coincides with eye")
	}
	forward = forward.Normalize()
	right := forward.Cross(worldUp)
	if right.Norm() < 1e-12 {
		return nil, errors.Wrapf(ErrDegenerateOrientation, "forward axis %v is parallel to up axis %v", forward, worldUp)
	}
	right = right.Normalize()
	up := forward.Cross(right)
	return NewPose(eye, NewRotationMatrixFromColumns(right, up, forward)), nil
}
