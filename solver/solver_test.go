package solver

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyforge/scenekit/scene"
)

func sceneWithNodes(nodes ...*scene.Node) *scene.Scene {
	s := scene.NewScene("test")
	for _, n := range nodes {
		if err := s.AddNode("", n); err != nil {
			panic(err)
		}
	}
	return s
}

func nodeAt(id string, pos mgl32.Vec3) *scene.Node {
	n := scene.NewNode(id)
	n.Transform.Position = pos
	return n
}

func TestKeepOnPlane(t *testing.T) {
	s := sceneWithNodes(nodeAt("a", mgl32.Vec3{3, 5, -2}))
	s.Constraints = append(s.Constraints, scene.KeepOnPlane{
		ID: "c", Node: "a", Normal: mgl32.Vec3{0, 1, 0}, Offset: 0,
	})

	out, report := Solve(s, DefaultOptions())
	p, _ := out.WorldPosition("a")
	assert.InDelta(t, 0, p.Y(), 1e-3)
	assert.InDelta(t, 3, p.X(), 1e-5)
	assert.InDelta(t, -2, p.Z(), 1e-5)
	assert.True(t, report.Converged)

	// input untouched
	orig, _ := s.WorldPosition("a")
	assert.Equal(t, mgl32.Vec3{3, 5, -2}, orig)
}

func TestKeepOnPlaneWithOffset(t *testing.T) {
	s := sceneWithNodes(nodeAt("a", mgl32.Vec3{0, 10, 0}))
	s.Constraints = append(s.Constraints, scene.KeepOnPlane{
		ID: "c", Node: "a", Normal: mgl32.Vec3{0, 1, 0}, Offset: 2,
	})
	out, _ := Solve(s, DefaultOptions())
	p, _ := out.WorldPosition("a")
	assert.InDelta(t, 2, p.Y(), 1e-3)
}

func TestMaintainDistance(t *testing.T) {
	s := sceneWithNodes(nodeAt("fixed", mgl32.Vec3{}), nodeAt("mobile", mgl32.Vec3{2, 0, 0}))
	s.Constraints = append(s.Constraints, scene.MaintainDistance{
		ID: "c", Node: "mobile", Reference: "fixed", Distance: 5,
	})

	out, report := Solve(s, DefaultOptions())
	p, _ := out.WorldPosition("mobile")
	assert.InDelta(t, 5, p.Len(), 1e-3)
	// colinear with the original +X direction
	assert.InDelta(t, 5, p.X(), 1e-3)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
	assert.True(t, report.Converged)
}

func TestMaintainDistanceCoincidentFallsBackToY(t *testing.T) {
	s := sceneWithNodes(nodeAt("fixed", mgl32.Vec3{1, 1, 1}), nodeAt("mobile", mgl32.Vec3{1, 1, 1}))
	s.Constraints = append(s.Constraints, scene.MaintainDistance{
		ID: "c", Node: "mobile", Reference: "fixed", Distance: 3,
	})
	out, _ := Solve(s, DefaultOptions())
	p, _ := out.WorldPosition("mobile")
	assert.InDelta(t, 4, p.Y(), 1e-3)
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 1, p.Z(), 1e-5)
}

func TestAnchorToNodeAndWorld(t *testing.T) {
	s := sceneWithNodes(nodeAt("a", mgl32.Vec3{}), nodeAt("b", mgl32.Vec3{4, 4, 4}))
	s.Constraints = append(s.Constraints,
		scene.AnchorToNode{ID: "c1", Node: "a", Anchor: "b"},
		scene.AnchorToWorld{ID: "c2", Node: "b", Point: mgl32.Vec3{4, 4, 4}},
	)
	out, report := Solve(s, DefaultOptions())
	pa, _ := out.WorldPosition("a")
	assert.Equal(t, mgl32.Vec3{4, 4, 4}, pa)
	assert.True(t, report.Converged)
}

func TestAnchorWritesThroughParent(t *testing.T) {
	root := nodeAt("root", mgl32.Vec3{10, 0, 0})
	child := nodeAt("child", mgl32.Vec3{})
	root.AddChild(child)
	s := sceneWithNodes(root)
	s.Constraints = append(s.Constraints, scene.AnchorToWorld{
		ID: "c", Node: "child", Point: mgl32.Vec3{1, 2, 3},
	})
	out, _ := Solve(s, DefaultOptions())
	p, _ := out.WorldPosition("child")
	assert.InDelta(t, 1, p.X(), 1e-4)
	assert.InDelta(t, 2, p.Y(), 1e-4)
	assert.InDelta(t, 3, p.Z(), 1e-4)
	// local position compensates for the parent offset
	assert.InDelta(t, -9, out.FindNode("child").Transform.Position.X(), 1e-4)
}

func TestAimAtNodeEuler(t *testing.T) {
	a := nodeAt("a", mgl32.Vec3{})
	a.Transform.Rotation = scene.EulerRotation{Angles: mgl32.Vec3{1, 1, 1}, Order: mgl32.XYZ}
	s := sceneWithNodes(a, nodeAt("target", mgl32.Vec3{1, 0, 0}))
	s.Constraints = append(s.Constraints, scene.AimAtNode{ID: "c", Node: "a", Target: "target"})

	out, report := Solve(s, DefaultOptions())
	rot := out.FindNode("a").Transform.Rotation.(scene.EulerRotation)
	assert.InDelta(t, 0, rot.Angles.X(), 1e-4)             // level target, no pitch
	assert.InDelta(t, mgl32.DegToRad(90), rot.Angles.Y(), 1e-4) // +X is a quarter turn of yaw
	assert.Zero(t, rot.Angles.Z())                         // roll zeroed
	assert.True(t, report.Converged)
}

func TestAimAtNodePitch(t *testing.T) {
	a := nodeAt("a", mgl32.Vec3{})
	a.Transform.Rotation = scene.EulerRotation{Order: mgl32.XYZ}
	s := sceneWithNodes(a, nodeAt("target", mgl32.Vec3{0, 1, 1}))
	s.Constraints = append(s.Constraints, scene.AimAtNode{ID: "c", Node: "a", Target: "target"})

	out, _ := Solve(s, DefaultOptions())
	rot := out.FindNode("a").Transform.Rotation.(scene.EulerRotation)
	assert.InDelta(t, mgl32.DegToRad(45), rot.Angles.X(), 1e-4)
	assert.InDelta(t, 0, rot.Angles.Y(), 1e-4)
}

func TestAimAtNodeQuaternionIsNoOp(t *testing.T) {
	a := nodeAt("a", mgl32.Vec3{})
	q := mgl32.QuatRotate(0.7, mgl32.Vec3{0, 0, 1})
	a.Transform.Rotation = scene.QuatRotation{Q: q}
	s := sceneWithNodes(a, nodeAt("target", mgl32.Vec3{1, 0, 0}))
	s.Constraints = append(s.Constraints, scene.AimAtNode{ID: "c", Node: "a", Target: "target"})

	out, report := Solve(s, DefaultOptions())
	rot, ok := out.FindNode("a").Transform.Rotation.(scene.QuatRotation)
	require.True(t, ok)
	assert.Equal(t, q, rot.Q)
	assert.True(t, report.Converged)
}

func TestConflictingConstraintsLastWins(t *testing.T) {
	s := sceneWithNodes(nodeAt("a", mgl32.Vec3{}))
	s.Constraints = append(s.Constraints,
		scene.AnchorToWorld{ID: "first", Node: "a", Point: mgl32.Vec3{1, 0, 0}},
		scene.AnchorToWorld{ID: "second", Node: "a", Point: mgl32.Vec3{-1, 0, 0}},
	)
	out, report := Solve(s, DefaultOptions())
	p, _ := out.WorldPosition("a")
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, p)
	assert.False(t, report.Converged)
	assert.Equal(t, DefaultOptions().MaxIterations, report.Iterations)
}

func TestMissingNodesAreSkipped(t *testing.T) {
	s := sceneWithNodes(nodeAt("a", mgl32.Vec3{1, 1, 1}))
	s.Constraints = append(s.Constraints,
		scene.AnchorToNode{ID: "c1", Node: "ghost", Anchor: "a"},
		scene.MaintainDistance{ID: "c2", Node: "a", Reference: "ghost", Distance: 2},
	)
	out, report := Solve(s, DefaultOptions())
	p, _ := out.WorldPosition("a")
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, p)
	assert.True(t, report.Converged)
}

func TestNoConstraintsConvergesImmediately(t *testing.T) {
	s := sceneWithNodes(nodeAt("a", mgl32.Vec3{}))
	_, report := Solve(s, DefaultOptions())
	assert.True(t, report.Converged)
	assert.Zero(t, report.Iterations)
}
