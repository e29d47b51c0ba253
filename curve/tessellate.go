package curve

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/polyforge/scenekit/scene"
)

// TessellateCurve samples segments+1 evenly spaced parameters and connects
// them as a line list (two indices per segment).
func TessellateCurve(id string, c Curve, segments int) (*scene.Mesh, error) {
	if segments < 1 {
		return nil, errors.Errorf("curve tessellation needs at least 1 segment, got %d", segments)
	}
	m := &scene.Mesh{
		ID:        id,
		Primitive: scene.PrimitiveCurve,
		Vertices:  make([]mgl32.Vec3, segments+1),
		Indices:   make([]uint32, 0, segments*2),
	}
	for i := 0; i <= segments; i++ {
		m.Vertices[i] = c.Point(float32(i) / float32(segments))
	}
	for i := 0; i < segments; i++ {
		m.Indices = append(m.Indices, uint32(i), uint32(i+1))
	}
	b := m.ComputeBounds()
	m.Bounds = &b
	return m, nil
}

// TessellateSurface samples a (uSegs+1) x (vSegs+1) grid and emits two
// triangles per cell with consistent winding. UVs carry the normalized
// parameters.
func TessellateSurface(id string, s *NURBSSurface, uSegs, vSegs int) (*scene.Mesh, error) {
	if uSegs < 1 || vSegs < 1 {
		return nil, errors.Errorf("surface tessellation needs at least 1x1 segments, got %dx%d", uSegs, vSegs)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cols := vSegs + 1
	m := &scene.Mesh{
		ID:        id,
		Primitive: scene.PrimitiveSurface,
		Vertices:  make([]mgl32.Vec3, 0, (uSegs+1)*cols),
		UVs:       make([]mgl32.Vec2, 0, (uSegs+1)*cols),
		Indices:   make([]uint32, 0, uSegs*vSegs*6),
	}
	for i := 0; i <= uSegs; i++ {
		u := float32(i) / float32(uSegs)
		for j := 0; j <= vSegs; j++ {
			v := float32(j) / float32(vSegs)
			m.Vertices = append(m.Vertices, s.Point(u, v))
			m.UVs = append(m.UVs, mgl32.Vec2{u, v})
		}
	}
	for i := 0; i < uSegs; i++ {
		for j := 0; j < vSegs; j++ {
			a := uint32(i*cols + j)
			b := uint32((i+1)*cols + j)
			m.Indices = append(m.Indices,
				a, b, a+1,
				a+1, b, b+1,
			)
		}
	}
	b := m.ComputeBounds()
	m.Bounds = &b
	return m, nil
}
