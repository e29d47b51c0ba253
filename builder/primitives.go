// Package builder contains the inbound construction helpers: mesh
// primitives, the declarative room recipe, the avatar rig, camera shot
// presets and the vector-explorer demo scene. Builders validate their input
// eagerly and hand finished scenes to the kernel.
package builder

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/polyforge/scenekit/scene"
)

// BoxMesh builds an axis-aligned box centered at the origin with per-face
// normals and UVs, 24 vertices and 12 triangles.
func BoxMesh(id string, size mgl32.Vec3) (*scene.Mesh, error) {
	if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
		return nil, errors.Errorf("box %q: size %v is not positive", id, size)
	}
	hx, hy, hz := size.X()/2, size.Y()/2, size.Z()/2

	type face struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
	}

	m := &scene.Mesh{ID: id, Primitive: scene.PrimitiveBox}
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for i, c := range f.corners {
			m.Vertices = append(m.Vertices, c)
			m.Normals = append(m.Normals, f.normal)
			m.UVs = append(m.UVs, uvs[i])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	b := m.ComputeBounds()
	m.Bounds = &b
	return m, nil
}

// PlaneMesh builds a single quad in the XZ plane centered at the origin,
// facing +Y.
func PlaneMesh(id string, width, depth float32) (*scene.Mesh, error) {
	if width <= 0 || depth <= 0 {
		return nil, errors.Errorf("plane %q: extent %gx%g is not positive", id, width, depth)
	}
	hw, hd := width/2, depth/2
	m := &scene.Mesh{
		ID:        id,
		Primitive: scene.PrimitivePlane,
		Vertices: []mgl32.Vec3{
			{-hw, 0, -hd}, {hw, 0, -hd}, {hw, 0, hd}, {-hw, 0, hd},
		},
		Normals: []mgl32.Vec3{
			{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
		},
		UVs: []mgl32.Vec2{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
	b := m.ComputeBounds()
	m.Bounds = &b
	return m, nil
}
