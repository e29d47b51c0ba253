package scene

import "github.com/go-gl/mathgl/mgl32"

// Material is a PBR-flavored material description. Optional factors are
// pointers so "unset" stays distinguishable from zero.
type Material struct {
	ID        string
	BaseColor *mgl32.Vec4
	Metallic  *float32
	Roughness *float32
	Emissive  *mgl32.Vec3
	Textures  map[string]string // texture slot -> asset id
	Meta      map[string]interface{}
}

func NewMaterial(id string) *Material {
	return &Material{ID: id}
}

func (m *Material) WithBaseColor(r, g, b, a float32) *Material {
	c := mgl32.Vec4{r, g, b, a}
	m.BaseColor = &c
	return m
}

func (m *Material) SetBaseColor(c mgl32.Vec4) {
	m.BaseColor = &c
}
