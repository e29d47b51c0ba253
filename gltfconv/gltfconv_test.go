package gltfconv

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyforge/scenekit/scene"
)

func quadMesh(id string) *scene.Mesh {
	m := &scene.Mesh{
		ID:        id,
		Primitive: scene.PrimitivePlane,
		Vertices: []mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		},
		Normals: []mgl32.Vec3{
			{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		},
		UVs: []mgl32.Vec2{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	b := m.ComputeBounds()
	m.Bounds = &b
	return m
}

func sampleScene(t *testing.T) *scene.Scene {
	s := scene.NewScene("sample")
	require.NoError(t, s.AddMesh(quadMesh("quad")))
	require.NoError(t, s.AddMaterial(scene.NewMaterial("paint").WithBaseColor(0.5, 0.25, 0.125, 1)))

	root := scene.NewNode("root")
	root.Name = "Root"
	root.Transform.Position = mgl32.Vec3{1, 2, 3}
	require.NoError(t, s.AddNode("", root))

	child := scene.NewNode("panel")
	child.MeshID = "quad"
	child.MaterialID = "paint"
	child.Transform.Rotation = scene.EulerRotation{
		Angles: mgl32.Vec3{0, mgl32.DegToRad(90), 0},
		Order:  mgl32.XYZ,
	}
	child.Transform.Scale = mgl32.Vec3{2, 2, 2}
	child.SetMeta(scene.MetaTag, "wall")
	child.Attachments = []scene.Attachment{
		{Name: "handle", Transform: scene.TransformAt(mgl32.Vec3{0.5, 0.5, 0})},
	}
	require.NoError(t, s.AddNode("root", child))

	s.Camera = scene.NewCamera("cam")
	s.Camera.Position = mgl32.Vec3{0, 1, 8}
	s.Camera.Target = mgl32.Vec3{0, 1, 0}
	s.Lights = []scene.Light{
		{ID: "sun", Kind: scene.LightDirectional, Color: mgl32.Vec3{1, 1, 0.9}, Intensity: 2, Direction: mgl32.Vec3{0, -1, 0}},
	}
	s.Environment = map[string]interface{}{"preset": "studio"}
	return s
}

func TestExportImportRoundTrip(t *testing.T) {
	src := sampleScene(t)
	doc, err := Export(src)
	require.NoError(t, err)

	got, err := Import(doc)
	require.NoError(t, err)

	assert.Equal(t, "sample", got.ID)
	require.Equal(t, 1, len(got.Roots))

	root := got.FindNode("root")
	require.NotNil(t, root)
	assert.Equal(t, "Root", root.Name)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, root.Transform.Position)

	child := got.FindNode("panel")
	require.NotNil(t, child)
	assert.Equal(t, "quad", child.MeshID)
	assert.Equal(t, "paint", child.MaterialID)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, child.Transform.Scale)
	assert.Equal(t, "wall", child.Meta[scene.MetaTag])
	require.Len(t, child.Attachments, 1)
	assert.Equal(t, "handle", child.Attachments[0].Name)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, child.Attachments[0].Transform.Position)

	// Euler export becomes a quaternion on import; the rotations must agree
	// as matrices.
	want := scene.EulerRotation{Angles: mgl32.Vec3{0, mgl32.DegToRad(90), 0}, Order: mgl32.XYZ}.Mat4()
	gotMat := child.Transform.Rotation.Mat4()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, want[i], gotMat[i], 1e-5)
	}

	mesh := got.MeshByID("quad")
	require.NotNil(t, mesh)
	assert.Equal(t, scene.PrimitivePlane, mesh.Primitive)
	assert.Equal(t, quadMesh("quad").Vertices, mesh.Vertices)
	assert.Equal(t, quadMesh("quad").Indices, mesh.Indices)
	assert.Len(t, mesh.Normals, 4)
	assert.Len(t, mesh.UVs, 4)

	mat := got.MaterialByID("paint")
	require.NotNil(t, mat)
	require.NotNil(t, mat.BaseColor)
	assert.Equal(t, mgl32.Vec4{0.5, 0.25, 0.125, 1}, *mat.BaseColor)

	require.NotNil(t, got.Camera)
	assert.Equal(t, "cam", got.Camera.ID)
	assert.Equal(t, mgl32.Vec3{0, 1, 8}, got.Camera.Position)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, got.Camera.Target)

	require.Len(t, got.Lights, 1)
	assert.Equal(t, scene.LightDirectional, got.Lights[0].Kind)
	assert.Equal(t, float32(2), got.Lights[0].Intensity)

	assert.Equal(t, "studio", got.Environment["preset"])
}

func TestEncodeDecodeThroughBytes(t *testing.T) {
	src := sampleScene(t)
	doc, err := Export(src)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	assert.Contains(t, buf.String(), `"asset"`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "sample", got.ID)
	assert.Equal(t, src.NodeCount(), got.NodeCount())
	assert.NotNil(t, got.MeshByID("quad"))
	assert.NotNil(t, got.Camera)
}

func TestExportIsDeterministic(t *testing.T) {
	src := sampleScene(t)

	var a, b bytes.Buffer
	docA, err := Export(src)
	require.NoError(t, err)
	require.NoError(t, Encode(&a, docA))

	docB, err := Export(src)
	require.NoError(t, err)
	require.NoError(t, Encode(&b, docB))

	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestExportSplitsMeshPerMaterial(t *testing.T) {
	s := scene.NewScene("split")
	require.NoError(t, s.AddMesh(quadMesh("quad")))
	require.NoError(t, s.AddMaterial(scene.NewMaterial("red")))
	require.NoError(t, s.AddMaterial(scene.NewMaterial("blue")))

	a := scene.NewNode("a")
	a.MeshID, a.MaterialID = "quad", "red"
	b := scene.NewNode("b")
	b.MeshID, b.MaterialID = "quad", "blue"
	require.NoError(t, s.AddNode("", a))
	require.NoError(t, s.AddNode("", b))

	doc, err := Export(s)
	require.NoError(t, err)
	assert.Len(t, doc.Meshes, 2)

	got, err := Import(doc)
	require.NoError(t, err)
	assert.Equal(t, "red", got.FindNode("a").MaterialID)
	assert.Equal(t, "blue", got.FindNode("b").MaterialID)
}

func TestExportMissingMeshFails(t *testing.T) {
	s := scene.NewScene("bad")
	n := scene.NewNode("n")
	n.MeshID = "ghost"
	require.NoError(t, s.AddNode("", n))

	_, err := Export(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestImportMultiPrimitiveMeshSplitsChildren(t *testing.T) {
	doc, err := Export(sampleScene(t))
	require.NoError(t, err)

	// fold a second primitive into the quad mesh, as foreign exporters do
	quad := doc.Meshes[0]
	require.Len(t, quad.Primitives, 1)
	quad.Primitives = append(quad.Primitives, quad.Primitives[0])

	got, err := Import(doc)
	require.NoError(t, err)

	panel := got.FindNode("panel")
	require.NotNil(t, panel)
	require.Len(t, panel.Children, 1)
	assert.Equal(t, "panel_p1", panel.Children[0].ID)
	assert.NotEmpty(t, panel.Children[0].MeshID)
	assert.NotNil(t, got.MeshByID(panel.Children[0].MeshID))
}

func TestImportNonIndexedPrimitive(t *testing.T) {
	s := scene.NewScene("soup")
	tri := &scene.Mesh{
		ID:       "tri",
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:  []uint32{0, 1, 2},
	}
	require.NoError(t, s.AddMesh(tri))
	n := scene.NewNode("trinode")
	n.MeshID = "tri"
	require.NoError(t, s.AddNode("", n))

	doc, err := Export(s)
	require.NoError(t, err)
	doc.Meshes[0].Primitives[0].Indices = nil

	got, err := Import(doc)
	require.NoError(t, err)
	mesh := got.MeshByID("tri")
	require.NotNil(t, mesh)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
}

func TestImportPrimitiveWithoutPositionFails(t *testing.T) {
	doc, err := Export(sampleScene(t))
	require.NoError(t, err)
	delete(doc.Meshes[0].Primitives[0].Attributes, "POSITION")

	_, err = Import(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSITION")
}

func TestImportDecomposesMatrixTransform(t *testing.T) {
	doc, err := Export(sampleScene(t))
	require.NoError(t, err)

	// rewrite the root node as a matrix transform
	var root *gltf.Node
	for _, n := range doc.Nodes {
		if n.Name == "Root" {
			root = n
		}
	}
	require.NotNil(t, root)
	m := mgl32.Translate3D(4, 5, 6).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90))).
		Mul4(mgl32.Scale3D(2, 2, 2))
	root.Matrix = [16]float32(m)
	root.Translation = [3]float32{}
	root.Rotation = [4]float32{}
	root.Scale = [3]float32{}

	got, err := Import(doc)
	require.NoError(t, err)
	n := got.FindNode("root")
	require.NotNil(t, n)
	assert.InDelta(t, 4, n.Transform.Position.X(), 1e-5)
	assert.InDelta(t, 2, n.Transform.Scale.Y(), 1e-4)

	p := n.Transform.Mat4().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.InDelta(t, 4, p.X(), 1e-4)
	assert.InDelta(t, 5, p.Y(), 1e-4)
	assert.InDelta(t, 6-2, p.Z(), 1e-4)
}

func TestImportCurveMeshFromLineMode(t *testing.T) {
	s := scene.NewScene("curves")
	m := &scene.Mesh{
		ID:        "path",
		Primitive: scene.PrimitiveCurve,
		Vertices:  []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 1, 0}},
		Indices:   []uint32{0, 1, 1, 2},
	}
	require.NoError(t, s.AddMesh(m))
	n := scene.NewNode("pathnode")
	n.MeshID = "path"
	require.NoError(t, s.AddNode("", n))

	doc, err := Export(s)
	require.NoError(t, err)
	require.Len(t, doc.Meshes, 1)
	assert.Equal(t, gltf.PrimitiveLines, doc.Meshes[0].Primitives[0].Mode)

	got, err := Import(doc)
	require.NoError(t, err)
	assert.Equal(t, scene.PrimitiveCurve, got.MeshByID("path").Primitive)
}
