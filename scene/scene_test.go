package scene

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformMat4ComposesTRS(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Rotation = EulerRotation{Angles: mgl32.Vec3{0, mgl32.DegToRad(90), 0}, Order: mgl32.XYZ}
	tr.Scale = mgl32.Vec3{2, 2, 2}

	// Local +X, scaled then rotated then translated: (1,0,0) -> (2,0,0) ->
	// (0,0,-2) -> (1,2,1).
	p := tr.Mat4().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.InDelta(t, 1, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 1, p.Z(), 1e-5)
}

func TestWorldTransformComposesAncestors(t *testing.T) {
	s := NewScene("s")
	root := NewNode("root")
	root.Transform.Position = mgl32.Vec3{10, 0, 0}
	child := NewNode("child")
	child.Transform.Position = mgl32.Vec3{0, 5, 0}
	root.AddChild(child)
	require.NoError(t, s.AddNode("", root))

	p, ok := s.WorldPosition("child")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{10, 5, 0}, p)

	// Root nodes use identity as the implicit parent.
	p, ok = s.WorldPosition("root")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, p)
}

func TestWorldTransformHonorsParentScaleAndRotation(t *testing.T) {
	s := NewScene("s")
	root := NewNode("root")
	root.Transform.Rotation = EulerRotation{Angles: mgl32.Vec3{0, mgl32.DegToRad(90), 0}, Order: mgl32.XYZ}
	root.Transform.Scale = mgl32.Vec3{2, 2, 2}
	child := NewNode("child")
	child.Transform.Position = mgl32.Vec3{1, 0, 0}
	root.AddChild(child)
	require.NoError(t, s.AddNode("", root))

	p, ok := s.WorldPosition("child")
	require.True(t, ok)
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, -2, p.Z(), 1e-5)
}

func TestFindNodeAbsentIsNil(t *testing.T) {
	s := NewScene("s")
	require.NoError(t, s.AddNode("", NewNode("a")))
	assert.Nil(t, s.FindNode("missing"))
	assert.NotNil(t, s.FindNode("a"))
}

func TestAddNodeMissingParentFails(t *testing.T) {
	s := NewScene("s")
	err := s.AddNode("nope", NewNode("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestUpdateTransformMissingNodeFails(t *testing.T) {
	s := NewScene("s")
	err := s.UpdateTransform("ghost", NewTransform())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestRemoveNode(t *testing.T) {
	s := NewScene("s")
	root := NewNode("root")
	root.AddChild(NewNode("child"))
	require.NoError(t, s.AddNode("", root))

	require.NoError(t, s.RemoveNode("child"))
	assert.Nil(t, s.FindNode("child"))
	assert.Error(t, s.RemoveNode("child"))
}

func TestDeepHierarchyTraversal(t *testing.T) {
	// Hundreds of levels must not exhaust the stack; walk is iterative.
	s := NewScene("s")
	cur := NewNode("n0")
	require.NoError(t, s.AddNode("", cur))
	for i := 1; i < 600; i++ {
		next := NewNode(fmt.Sprintf("n%d", i))
		next.Transform.Position = mgl32.Vec3{0, 1, 0}
		cur.AddChild(next)
		cur = next
	}
	assert.Equal(t, 600, s.NodeCount())

	p, ok := s.WorldPosition("n599")
	require.True(t, ok)
	assert.InDelta(t, 599, p.Y(), 1e-2)
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewScene("s")
	n := NewNode("a")
	n.SetMeta(MetaStyle, map[string]interface{}{"bulk": 0.5})
	require.NoError(t, s.AddNode("", n))
	require.NoError(t, s.AddMesh(&Mesh{
		ID:       "m",
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:  []uint32{0, 1, 2},
	}))
	s.Constraints = append(s.Constraints, AnchorToWorld{ID: "c", Node: "a"})
	s.RecordOp("add_node", "a", nil)

	c := s.Clone()
	c.FindNode("a").Transform.Position = mgl32.Vec3{9, 9, 9}
	c.FindNode("a").Meta[MetaStyle].(map[string]interface{})["bulk"] = 1.0
	c.Meshes[0].Vertices[0] = mgl32.Vec3{7, 7, 7}

	assert.Equal(t, mgl32.Vec3{}, s.FindNode("a").Transform.Position)
	assert.Equal(t, 0.5, s.FindNode("a").Meta[MetaStyle].(map[string]interface{})["bulk"])
	assert.Equal(t, mgl32.Vec3{}, s.Meshes[0].Vertices[0])
	assert.Len(t, c.History, 1)
	assert.Len(t, c.Constraints, 1)
}

func TestMeshValidate(t *testing.T) {
	m := &Mesh{
		ID:       "m",
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:  []mgl32.Vec3{{0, 0, 1}},
		Indices:  []uint32{0, 1, 2},
	}
	assert.Error(t, m.Validate(), "normal count mismatch")

	m.Normals = nil
	m.Indices = []uint32{0, 1}
	assert.Error(t, m.Validate(), "indices not a multiple of 3")

	m.Indices = []uint32{0, 1, 7}
	assert.Error(t, m.Validate(), "index out of range")

	m.Indices = []uint32{0, 1, 2}
	assert.NoError(t, m.Validate())
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{ID: "m", Vertices: []mgl32.Vec3{{-1, 2, 0}, {3, -4, 5}}}
	b := m.ComputeBounds()
	assert.Equal(t, mgl32.Vec3{-1, -4, 0}, b.Min)
	assert.Equal(t, mgl32.Vec3{3, 2, 5}, b.Max)
	assert.Len(t, b.Corners(), 8)
}

func TestAttachmentLookup(t *testing.T) {
	n := NewNode("hand")
	n.Attachments = append(n.Attachments, Attachment{Name: "palm", Transform: TransformAt(mgl32.Vec3{0, 0.1, 0})})
	require.NotNil(t, n.AttachmentByName("palm"))
	assert.Nil(t, n.AttachmentByName("thumb"))
}

func TestHiddenFlag(t *testing.T) {
	n := NewNode("a")
	assert.False(t, n.Hidden())
	n.SetMeta(MetaVisible, false)
	assert.True(t, n.Hidden())
}
