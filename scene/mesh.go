package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Corners returns the 8 corner points of the box.
func (b Box) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out[i] = c
	}
	return out
}

// Mesh is an immutable-by-convention triangle (or line) list. Normals and UVs
// are optional parallel arrays that, when present, must match the vertex
// count. Indices length must be a multiple of 3 for triangle meshes.
type Mesh struct {
	ID        string
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
	Bounds    *Box
	Primitive string // tag of the generator that produced the mesh
}

func (m *Mesh) Validate() error {
	if m.ID == "" {
		return errors.Errorf("mesh has no id")
	}
	if m.Normals != nil && len(m.Normals) != len(m.Vertices) {
		return errors.Errorf("mesh %q: %d normals for %d vertices", m.ID, len(m.Normals), len(m.Vertices))
	}
	if m.UVs != nil && len(m.UVs) != len(m.Vertices) {
		return errors.Errorf("mesh %q: %d uvs for %d vertices", m.ID, len(m.UVs), len(m.Vertices))
	}
	if m.Primitive != PrimitiveCurve && len(m.Indices)%3 != 0 {
		return errors.Errorf("mesh %q: index count %d is not a multiple of 3", m.ID, len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return errors.Errorf("mesh %q: index %d out of range (%d vertices)", m.ID, idx, len(m.Vertices))
		}
	}
	return nil
}

// ComputeBounds returns the axis-aligned bounds of the vertex list. An empty
// mesh yields a zero box at the origin.
func (m *Mesh) ComputeBounds() Box {
	if len(m.Vertices) == 0 {
		return Box{}
	}
	b := Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < b.Min[i] {
				b.Min[i] = v[i]
			}
			if v[i] > b.Max[i] {
				b.Max[i] = v[i]
			}
		}
	}
	return b
}

// EffectiveBounds returns the stored bounds if set, otherwise computes them.
func (m *Mesh) EffectiveBounds() Box {
	if m.Bounds != nil {
		return *m.Bounds
	}
	return m.ComputeBounds()
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Known primitive generator tags.
const (
	PrimitiveBox     = "box"
	PrimitivePlane   = "plane"
	PrimitiveCurve   = "curve"
	PrimitiveSurface = "surface"
)
