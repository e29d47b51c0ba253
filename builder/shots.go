package builder

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyforge/scenekit/scene"
)

// WorldBounds accumulates the world-space bounds of every mesh node. The
// second result is false for a scene without geometry.
func WorldBounds(sc *scene.Scene) (scene.Box, bool) {
	var box scene.Box
	found := false
	sc.WalkWorld(func(n *scene.Node, world mgl32.Mat4) bool {
		if n.MeshID == "" {
			return true
		}
		mesh := sc.MeshByID(n.MeshID)
		if mesh == nil {
			return true
		}
		for _, corner := range mesh.EffectiveBounds().Corners() {
			p := world.Mul4x1(corner.Vec4(1)).Vec3()
			if !found {
				box = scene.Box{Min: p, Max: p}
				found = true
				continue
			}
			for i := 0; i < 3; i++ {
				if p[i] < box.Min[i] {
					box.Min[i] = p[i]
				}
				if p[i] > box.Max[i] {
					box.Max[i] = p[i]
				}
			}
		}
		return true
	})
	return box, found
}

func boundsCenterRadius(box scene.Box) (mgl32.Vec3, float32) {
	center := box.Min.Add(box.Max).Mul(0.5)
	radius := box.Max.Sub(center).Len()
	if radius < 1e-3 {
		radius = 1
	}
	return center, radius
}

// framingDistance places the eye so a sphere of the given radius fits the
// vertical field of view with some margin.
func framingDistance(radius, fovDegrees float32) float32 {
	return radius / math32.Tan(mgl32.DegToRad(fovDegrees)/2) * 1.2
}

// FrameShot is the default three-quarter perspective shot framing the whole
// scene.
func FrameShot(sc *scene.Scene, id string) *scene.Camera {
	cam := scene.NewCamera(id)
	box, ok := WorldBounds(sc)
	if !ok {
		return cam
	}
	center, radius := boundsCenterRadius(box)
	dist := framingDistance(radius, cam.FOVDegrees)
	dir := mgl32.Vec3{1, 0.8, 1}.Normalize()
	cam.Target = center
	cam.Position = center.Add(dir.Mul(dist))
	cam.Far = dist + radius*4
	return cam
}

// TopDownShot is an orthographic plan view of the scene.
func TopDownShot(sc *scene.Scene, id string) *scene.Camera {
	cam := scene.NewCamera(id)
	cam.Kind = scene.ProjectionOrthographic
	box, ok := WorldBounds(sc)
	if !ok {
		cam.OrthoHeight = 10
		cam.Position = mgl32.Vec3{0, 10, 0}
		cam.Up = mgl32.Vec3{0, 0, -1}
		return cam
	}
	center, radius := boundsCenterRadius(box)
	cam.OrthoHeight = radius * 2.4
	cam.Target = center
	cam.Position = center.Add(mgl32.Vec3{0, radius*2 + 1, 0})
	// looking straight down, so up follows -Z
	cam.Up = mgl32.Vec3{0, 0, -1}
	cam.Far = radius*4 + 2
	return cam
}

// CloseUpShot frames a single node head-on; it falls back to the whole-scene
// frame shot when the node is missing or has no geometry.
func CloseUpShot(sc *scene.Scene, nodeID, id string) *scene.Camera {
	n := sc.FindNode(nodeID)
	if n == nil || n.MeshID == "" {
		return FrameShot(sc, id)
	}
	mesh := sc.MeshByID(n.MeshID)
	world, ok := sc.WorldTransform(nodeID)
	if mesh == nil || !ok {
		return FrameShot(sc, id)
	}

	var box scene.Box
	for i, corner := range mesh.EffectiveBounds().Corners() {
		p := world.Mul4x1(corner.Vec4(1)).Vec3()
		if i == 0 {
			box = scene.Box{Min: p, Max: p}
			continue
		}
		for a := 0; a < 3; a++ {
			if p[a] < box.Min[a] {
				box.Min[a] = p[a]
			}
			if p[a] > box.Max[a] {
				box.Max[a] = p[a]
			}
		}
	}
	center, radius := boundsCenterRadius(box)
	cam := scene.NewCamera(id)
	cam.FOVDegrees = 40
	dist := framingDistance(radius, cam.FOVDegrees)
	cam.Target = center
	cam.Position = center.Add(mgl32.Vec3{0, 0, dist})
	return cam
}
