// Package view builds camera matrices from scene state, projects node bounds
// to screen space for visibility queries, and resolves screen-space ray
// picks. Both queries are brute force over nodes/triangles, which is fine
// for authoring-time scenes and deliberately not a render path.
package view

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyforge/scenekit/scene"
	"github.com/polyforge/scenekit/utils"
)

// Viewport is the full camera + screen specification for a query.
type Viewport struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	FOVDegrees  float32
	OrthoHeight float32
	Near        float32
	Far         float32
	Width       int
	Height      int

	Orthographic bool
}

// FromCamera derives a viewport from the scene camera and pixel dimensions.
func FromCamera(cam *scene.Camera, width, height int) Viewport {
	return Viewport{
		Eye:          cam.Position,
		Target:       cam.Target,
		Up:           cam.Up,
		FOVDegrees:   cam.FOVDegrees,
		OrthoHeight:  cam.OrthoHeight,
		Near:         cam.Near,
		Far:          cam.Far,
		Width:        width,
		Height:       height,
		Orthographic: cam.Kind == scene.ProjectionOrthographic,
	}
}

func (vp Viewport) Aspect() float32 {
	if vp.Height == 0 {
		return 1
	}
	return float32(vp.Width) / float32(vp.Height)
}

func (vp Viewport) View() mgl32.Mat4 {
	return mgl32.LookAtV(vp.Eye, vp.Target, vp.Up)
}

func (vp Viewport) Projection() mgl32.Mat4 {
	if vp.Orthographic {
		h := vp.OrthoHeight
		if h <= 0 {
			h = 2
		}
		w := h * vp.Aspect()
		return mgl32.Ortho(-w/2, w/2, -h/2, h/2, vp.Near, vp.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(vp.FOVDegrees), vp.Aspect(), vp.Near, vp.Far)
}

// basis returns the normalized right/up/forward camera frame. The same frame
// backs both the view matrix and ray construction, so picking needs no
// matrix inversion.
func (vp Viewport) basis() (right, up, forward mgl32.Vec3) {
	forward = utils.SafeNormalize(vp.Target.Sub(vp.Eye))
	if forward.Len() == 0 {
		forward = mgl32.Vec3{0, 0, -1}
	}
	right = utils.SafeNormalize(forward.Cross(vp.Up))
	if right.Len() == 0 {
		right = mgl32.Vec3{1, 0, 0}
	}
	up = right.Cross(forward)
	return
}

// NodeBounds is the screen-space visibility report for one mesh node.
// Min/Max are in [0,1] viewport fractions with the origin at the top left.
type NodeBounds struct {
	NodeID  string
	Visible bool
	Min     mgl32.Vec2
	Max     mgl32.Vec2
	// Area is the fraction of the viewport covered by the clamped rect.
	Area float32
	// Depth is the smallest positive clip-space w among the projected
	// corners: a nearest-corner heuristic, not an exact distance.
	Depth float32
}

// Analyze projects the bounding box of every visible mesh node through
// view*projection and reports screen rectangles, coverage and depth. Nodes
// hidden with the visible=false metadata flag are skipped entirely.
func Analyze(sc *scene.Scene, vp Viewport) []NodeBounds {
	vpm := vp.Projection().Mul4(vp.View())
	out := make([]NodeBounds, 0, 8)

	sc.WalkWorld(func(n *scene.Node, world mgl32.Mat4) bool {
		if n.MeshID == "" || n.Hidden() {
			return true
		}
		mesh := sc.MeshByID(n.MeshID)
		if mesh == nil {
			return true
		}

		nb := NodeBounds{NodeID: n.ID}
		first := true
		anyInFrustum := false
		for _, corner := range mesh.EffectiveBounds().Corners() {
			clip := vpm.Mul4x1(world.Mul4x1(corner.Vec4(1)))
			w := clip.W()
			if w <= 0 {
				continue
			}
			ndc := clip.Vec3().Mul(1 / w)
			if ndc.X() >= -1 && ndc.X() <= 1 && ndc.Y() >= -1 && ndc.Y() <= 1 && ndc.Z() >= -1 && ndc.Z() <= 1 {
				anyInFrustum = true
			}
			sx := (ndc.X() + 1) / 2
			sy := (1 - ndc.Y()) / 2
			if first {
				nb.Min = mgl32.Vec2{sx, sy}
				nb.Max = nb.Min
				nb.Depth = w
				first = false
			} else {
				if sx < nb.Min[0] {
					nb.Min[0] = sx
				}
				if sy < nb.Min[1] {
					nb.Min[1] = sy
				}
				if sx > nb.Max[0] {
					nb.Max[0] = sx
				}
				if sy > nb.Max[1] {
					nb.Max[1] = sy
				}
				if w < nb.Depth {
					nb.Depth = w
				}
			}
		}

		if !first {
			ox := utils.Clamp01(nb.Max[0]) - utils.Clamp01(nb.Min[0])
			oy := utils.Clamp01(nb.Max[1]) - utils.Clamp01(nb.Min[1])
			if ox > 0 && oy > 0 {
				nb.Area = ox * oy
			}
			nb.Visible = anyInFrustum && nb.Area > 0
		}
		out = append(out, nb)
		return true
	})
	return out
}
