package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Rotation is a closed union: a node carries either a quaternion or a set of
// Euler angles with an axis order, never both. Algorithms that only handle
// one variant must type switch and degrade to a no-op on the other.
type Rotation interface {
	// Quat returns the rotation as a quaternion regardless of variant.
	Quat() mgl32.Quat
	// Mat4 returns the rotation as a 4x4 matrix.
	Mat4() mgl32.Mat4

	rotation()
}

type QuatRotation struct {
	Q mgl32.Quat
}

func (r QuatRotation) Quat() mgl32.Quat { return r.Q }
func (r QuatRotation) Mat4() mgl32.Mat4 { return r.Q.Mat4() }
func (QuatRotation) rotation()          {}

// EulerRotation holds angles in radians applied in Order.
type EulerRotation struct {
	Angles mgl32.Vec3
	Order  mgl32.RotationOrder
}

func (r EulerRotation) Quat() mgl32.Quat {
	return mgl32.AnglesToQuat(r.Angles[0], r.Angles[1], r.Angles[2], r.Order)
}

func (r EulerRotation) Mat4() mgl32.Mat4 { return r.Quat().Mat4() }
func (EulerRotation) rotation()          {}

// NoRotation is the zero Euler rotation used as a default.
func NoRotation() Rotation {
	return EulerRotation{Order: mgl32.XYZ}
}

func rotationMat4(r Rotation) mgl32.Mat4 {
	if r == nil {
		return mgl32.Ident4()
	}
	return r.Mat4()
}
