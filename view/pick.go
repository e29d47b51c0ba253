package view

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyforge/scenekit/scene"
	"github.com/polyforge/scenekit/utils"
)

// PickResult identifies the closest triangle hit by a screen-space ray.
type PickResult struct {
	NodeID   string
	MeshID   string
	Triangle int
	Distance float32
	Point    mgl32.Vec3
}

// Ray unprojects a normalized screen coordinate (origin top-left) into a
// world-space origin and direction using the camera basis directly.
func (vp Viewport) Ray(sx, sy float32) (mgl32.Vec3, mgl32.Vec3) {
	right, up, forward := vp.basis()
	ndcX := 2*sx - 1
	ndcY := 1 - 2*sy

	if vp.Orthographic {
		h := vp.OrthoHeight
		if h <= 0 {
			h = 2
		}
		w := h * vp.Aspect()
		origin := vp.Eye.
			Add(right.Mul(ndcX * w / 2)).
			Add(up.Mul(ndcY * h / 2))
		return origin, forward
	}

	halfH := math32.Tan(mgl32.DegToRad(vp.FOVDegrees) / 2)
	halfW := halfH * vp.Aspect()
	dir := forward.
		Add(right.Mul(ndcX * halfW)).
		Add(up.Mul(ndcY * halfH))
	return vp.Eye, utils.SafeNormalize(dir)
}

// Pick intersects the ray through (sx, sy) with every triangle of every
// visible mesh node and returns the closest hit, or nil when nothing is hit.
func Pick(sc *scene.Scene, vp Viewport, sx, sy float32) *PickResult {
	origin, dir := vp.Ray(sx, sy)
	if dir.Len() == 0 {
		return nil
	}

	var best *PickResult
	sc.WalkWorld(func(n *scene.Node, world mgl32.Mat4) bool {
		if n.MeshID == "" || n.Hidden() {
			return true
		}
		mesh := sc.MeshByID(n.MeshID)
		if mesh == nil || mesh.Primitive == scene.PrimitiveCurve {
			return true
		}
		for tri := 0; tri+2 < len(mesh.Indices); tri += 3 {
			v0 := world.Mul4x1(mesh.Vertices[mesh.Indices[tri]].Vec4(1)).Vec3()
			v1 := world.Mul4x1(mesh.Vertices[mesh.Indices[tri+1]].Vec4(1)).Vec3()
			v2 := world.Mul4x1(mesh.Vertices[mesh.Indices[tri+2]].Vec4(1)).Vec3()
			t, ok := rayTriangle(origin, dir, v0, v1, v2)
			if !ok {
				continue
			}
			if best == nil || t < best.Distance {
				best = &PickResult{
					NodeID:   n.ID,
					MeshID:   mesh.ID,
					Triangle: tri / 3,
					Distance: t,
					Point:    origin.Add(dir.Mul(t)),
				}
			}
		}
		return true
	})
	return best
}

const rayEpsilon = 1e-7

// rayTriangle is the Moller-Trumbore intersection test. It returns the ray
// parameter of the hit; back faces count, hits behind the origin do not.
func rayTriangle(origin, dir, v0, v1, v2 mgl32.Vec3) (float32, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -rayEpsilon && det < rayEpsilon {
		return 0, false
	}
	inv := 1 / det
	tv := origin.Sub(v0)
	u := tv.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := tv.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}
