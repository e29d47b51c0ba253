package scene

import "github.com/go-gl/mathgl/mgl32"

type ProjectionKind int

const (
	ProjectionPerspective ProjectionKind = iota
	ProjectionOrthographic
)

func (k ProjectionKind) String() string {
	switch k {
	case ProjectionOrthographic:
		return "orthographic"
	default:
		return "perspective"
	}
}

// Camera describes a look-at camera. FOVDegrees is the vertical field of view
// for perspective projection; OrthoHeight is the vertical extent of the
// orthographic volume.
type Camera struct {
	ID          string
	Kind        ProjectionKind
	FOVDegrees  float32
	OrthoHeight float32
	Near        float32
	Far         float32
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	Up          mgl32.Vec3
}

func NewCamera(id string) *Camera {
	return &Camera{
		ID:         id,
		Kind:       ProjectionPerspective,
		FOVDegrees: 60,
		Near:       0.1,
		Far:        1000,
		Position:   mgl32.Vec3{0, 0, 5},
		Up:         mgl32.Vec3{0, 1, 0},
	}
}
