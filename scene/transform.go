package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a local translate/rotate/scale triple. Mat4 composes in
// T*R*S order, so scale applies first in the node's own space.
type Transform struct {
	Position mgl32.Vec3
	Rotation Rotation
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: NoRotation(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func TransformAt(pos mgl32.Vec3) Transform {
	t := NewTransform()
	t.Position = pos
	return t
}

func (t Transform) Mat4() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	m = m.Mul4(rotationMat4(t.Rotation))
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Attachment is a named local sub-transform usable as a socket for parenting.
type Attachment struct {
	Name      string
	Transform Transform
}
