package scene

import "github.com/go-gl/mathgl/mgl32"

type LightKind int

const (
	LightPoint LightKind = iota
	LightDirectional
	LightAmbient
)

// Light is inert scene data; the kernel stores and round-trips it but never
// shades with it.
type Light struct {
	ID        string
	Kind      LightKind
	Color     mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3
	Direction mgl32.Vec3
}
