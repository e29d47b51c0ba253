package gltfconv

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/polyforge/scenekit/scene"
	"github.com/polyforge/scenekit/utils"
)

// Decode reads a glTF document (JSON or GLB) and imports it as a scene.
func Decode(r io.Reader) (*scene.Scene, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "gltf decode")
	}
	return Import(doc)
}

type importer struct {
	doc *gltf.Document
	sc  *scene.Scene

	// per gltf mesh index, the scene mesh ids of its primitives
	meshIDs     [][]string
	materialIDs []string
	usedMeshIDs map[string]bool
}

// Import converts a glTF document into a scene. Documents produced by Export
// round-trip exactly; foreign documents are accepted on a best-effort basis
// (multi-primitive meshes split into child nodes, matrix transforms are
// decomposed into TRS).
func Import(doc *gltf.Document) (*scene.Scene, error) {
	if len(doc.Scenes) == 0 {
		return nil, errors.Errorf("document has no scenes")
	}
	si := 0
	if doc.Scene != nil {
		si = int(*doc.Scene)
	}
	if si >= len(doc.Scenes) {
		return nil, errors.Errorf("default scene %d out of range (%d scenes)", si, len(doc.Scenes))
	}
	gs := doc.Scenes[si]

	name := gs.Name
	if name == "" {
		name = "imported"
	}
	im := &importer{
		doc:         doc,
		sc:          scene.NewScene(name),
		usedMeshIDs: make(map[string]bool),
	}

	if err := im.importMaterials(); err != nil {
		return nil, err
	}
	if err := im.importMeshes(); err != nil {
		return nil, err
	}

	for _, ni := range gs.Nodes {
		root, err := im.importNode(int(ni))
		if err != nil {
			return nil, err
		}
		im.sc.Roots = append(im.sc.Roots, root)
	}

	im.importSceneExtras(extrasMap(gs.Extras))
	return im.sc, nil
}

func (im *importer) importMaterials() error {
	im.materialIDs = make([]string, len(im.doc.Materials))
	for i, gm := range im.doc.Materials {
		id := gm.Name
		if id == "" {
			id = fmt.Sprintf("material_%d", i)
		}
		im.materialIDs[i] = id

		m := scene.NewMaterial(id)
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				m.SetBaseColor(mgl32.Vec4(*pbr.BaseColorFactor))
			}
			if pbr.MetallicFactor != nil {
				v := *pbr.MetallicFactor
				m.Metallic = &v
			}
			if pbr.RoughnessFactor != nil {
				v := *pbr.RoughnessFactor
				m.Roughness = &v
			}
		}
		if gm.EmissiveFactor != ([3]float32{}) {
			e := mgl32.Vec3(gm.EmissiveFactor)
			m.Emissive = &e
		}
		extras := extrasMap(gm.Extras)
		if textures, ok := extras["textures"].(map[string]interface{}); ok {
			m.Textures = make(map[string]string, len(textures))
			for slot, asset := range textures {
				if s, ok := asset.(string); ok {
					m.Textures[slot] = s
				}
			}
		}
		if meta, ok := extras["meta"].(map[string]interface{}); ok {
			m.Meta = meta
		}
		if err := im.sc.AddMaterial(m); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) importMeshes() error {
	im.meshIDs = make([][]string, len(im.doc.Meshes))
	for i, gm := range im.doc.Meshes {
		base := gm.Name
		if base == "" {
			base = fmt.Sprintf("mesh_%d", i)
		}
		tag, _ := extrasMap(gm.Extras)["primitive"].(string)

		ids := make([]string, len(gm.Primitives))
		for j, prim := range gm.Primitives {
			id := base
			if j > 0 {
				id = fmt.Sprintf("%s_p%d", base, j)
			}
			id = im.uniqueMeshID(id)
			ids[j] = id

			m, err := im.importPrimitive(id, tag, prim)
			if err != nil {
				return errors.Wrapf(err, "mesh %q primitive %d", base, j)
			}
			if err := im.sc.AddMesh(m); err != nil {
				return err
			}
		}
		im.meshIDs[i] = ids
	}
	return nil
}

func (im *importer) uniqueMeshID(id string) string {
	out := id
	for n := 1; im.usedMeshIDs[out]; n++ {
		out = fmt.Sprintf("%s_%d", id, n)
	}
	im.usedMeshIDs[out] = true
	return out
}

func (im *importer) importPrimitive(id, tag string, prim *gltf.Primitive) (*scene.Mesh, error) {
	posAcc, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(im.doc, im.doc.Accessors[posAcc], nil)
	if err != nil {
		return nil, errors.Wrapf(err, "read positions")
	}

	m := &scene.Mesh{ID: id, Primitive: tag}
	m.Vertices = make([]mgl32.Vec3, len(positions))
	for k, p := range positions {
		m.Vertices[k] = p
	}

	if acc, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(im.doc, im.doc.Accessors[acc], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "read normals")
		}
		m.Normals = make([]mgl32.Vec3, len(normals))
		for k, n := range normals {
			m.Normals[k] = n
		}
	}
	if acc, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(im.doc, im.doc.Accessors[acc], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "read texture coords")
		}
		m.UVs = make([]mgl32.Vec2, len(uvs))
		for k, uv := range uvs {
			m.UVs[k] = uv
		}
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(im.doc, im.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "read indices")
		}
		m.Indices = indices
	} else {
		m.Indices = make([]uint32, len(m.Vertices))
		for k := range m.Indices {
			m.Indices[k] = uint32(k)
		}
	}

	if prim.Mode == gltf.PrimitiveLines && m.Primitive == "" {
		m.Primitive = scene.PrimitiveCurve
	}
	b := m.ComputeBounds()
	m.Bounds = &b
	return m, nil
}

func (im *importer) importNode(idx int) (*scene.Node, error) {
	if idx >= len(im.doc.Nodes) {
		return nil, errors.Errorf("node index %d out of range", idx)
	}
	gn := im.doc.Nodes[idx]
	extras := extrasMap(gn.Extras)

	id, _ := extras["id"].(string)
	if id == "" {
		id = gn.Name
	}
	if id == "" {
		id = fmt.Sprintf("node_%d", idx)
	}
	n := scene.NewNode(id)
	if gn.Name != id {
		n.Name = gn.Name
	}
	n.Transform = nodeTransform(gn)
	if meta, ok := extras["meta"].(map[string]interface{}); ok {
		n.Meta = meta
	}
	if atts, ok := extras["attachments"].([]interface{}); ok {
		n.Attachments = importAttachments(atts)
	}

	if gn.Mesh != nil {
		mi := int(*gn.Mesh)
		if mi >= len(im.meshIDs) {
			return nil, errors.Errorf("node %q: mesh index %d out of range", id, mi)
		}
		gm := im.doc.Meshes[mi]
		n.MeshID = im.meshIDs[mi][0]
		n.MaterialID = im.primitiveMaterial(gm.Primitives[0])
		// extra primitives become synthetic children so each node keeps a
		// single mesh/material pair
		for j := 1; j < len(gm.Primitives); j++ {
			child := scene.NewNode(fmt.Sprintf("%s_p%d", id, j))
			child.MeshID = im.meshIDs[mi][j]
			child.MaterialID = im.primitiveMaterial(gm.Primitives[j])
			n.AddChild(child)
		}
	}

	for _, ci := range gn.Children {
		child, err := im.importNode(int(ci))
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func (im *importer) primitiveMaterial(prim *gltf.Primitive) string {
	if prim.Material == nil {
		return ""
	}
	mi := int(*prim.Material)
	if mi >= len(im.materialIDs) {
		return ""
	}
	return im.materialIDs[mi]
}

func (im *importer) importSceneExtras(extras map[string]interface{}) {
	if cam, ok := extras["camera"].(map[string]interface{}); ok {
		im.sc.Camera = importCamera(cam)
	}
	if lights, ok := extras["lights"].([]interface{}); ok {
		for _, raw := range lights {
			if lm, ok := raw.(map[string]interface{}); ok {
				im.sc.Lights = append(im.sc.Lights, importLight(lm))
			}
		}
	}
	if env, ok := extras["environment"].(map[string]interface{}); ok {
		im.sc.Environment = env
	}
}

func importCamera(m map[string]interface{}) *scene.Camera {
	id, _ := m["id"].(string)
	c := scene.NewCamera(id)
	if kind, _ := m["kind"].(string); kind == "orthographic" {
		c.Kind = scene.ProjectionOrthographic
	}
	c.FOVDegrees = floatField(m, "fov", c.FOVDegrees)
	c.OrthoHeight = floatField(m, "orthoHeight", c.OrthoHeight)
	c.Near = floatField(m, "near", c.Near)
	c.Far = floatField(m, "far", c.Far)
	c.Position = vec3Field(m, "position", c.Position)
	c.Target = vec3Field(m, "target", c.Target)
	c.Up = vec3Field(m, "up", c.Up)
	return c
}

func importLight(m map[string]interface{}) scene.Light {
	l := scene.Light{}
	l.ID, _ = m["id"].(string)
	switch kind, _ := m["kind"].(string); kind {
	case "directional":
		l.Kind = scene.LightDirectional
	case "ambient":
		l.Kind = scene.LightAmbient
	default:
		l.Kind = scene.LightPoint
	}
	l.Color = vec3Field(m, "color", mgl32.Vec3{})
	l.Intensity = floatField(m, "intensity", 0)
	l.Position = vec3Field(m, "position", mgl32.Vec3{})
	l.Direction = vec3Field(m, "direction", mgl32.Vec3{})
	return l
}

func importAttachments(raw []interface{}) []scene.Attachment {
	out := make([]scene.Attachment, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		a := scene.Attachment{Transform: scene.NewTransform()}
		a.Name, _ = m["name"].(string)
		a.Transform.Position = vec3Field(m, "position", mgl32.Vec3{})
		a.Transform.Scale = vec3Field(m, "scale", mgl32.Vec3{1, 1, 1})
		if q, ok := quatField(m, "rotation"); ok {
			a.Transform.Rotation = scene.QuatRotation{Q: q}
		}
		out = append(out, a)
	}
	return out
}

// nodeTransform prefers the explicit TRS properties and falls back to
// decomposing the matrix property.
func nodeTransform(gn *gltf.Node) scene.Transform {
	t := scene.NewTransform()
	if gn.Matrix != identityMatrix && gn.Matrix != ([16]float32{}) {
		return decomposeMatrix(mgl32.Mat4(gn.Matrix))
	}
	t.Position = mgl32.Vec3(gn.TranslationOrDefault())
	r := gn.RotationOrDefault()
	t.Rotation = scene.QuatRotation{Q: mgl32.Quat{
		W: float32(r[3]),
		V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
	}}
	t.Scale = mgl32.Vec3(gn.ScaleOrDefault())
	return t
}

func decomposeMatrix(m mgl32.Mat4) scene.Transform {
	t := scene.NewTransform()
	t.Position = m.Col(3).Vec3()

	cols := [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	for i := range cols {
		t.Scale[i] = cols[i].Len()
		cols[i] = utils.SafeNormalize(cols[i])
	}

	rot := mgl32.Mat4{
		cols[0][0], cols[0][1], cols[0][2], 0,
		cols[1][0], cols[1][1], cols[1][2], 0,
		cols[2][0], cols[2][1], cols[2][2], 0,
		0, 0, 0, 1,
	}
	t.Rotation = scene.QuatRotation{Q: mgl32.Mat4ToQuat(rot)}
	return t
}

var identityMatrix = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

func extrasMap(extras interface{}) map[string]interface{} {
	if m, ok := extras.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func floatField(m map[string]interface{}, key string, def float32) float32 {
	switch v := m[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	}
	return def
}

func vec3Field(m map[string]interface{}, key string, def mgl32.Vec3) mgl32.Vec3 {
	list, ok := m[key].([]interface{})
	if !ok || len(list) != 3 {
		return def
	}
	var out mgl32.Vec3
	for i, e := range list {
		f, ok := e.(float64)
		if !ok {
			return def
		}
		out[i] = float32(f)
	}
	return out
}

func quatField(m map[string]interface{}, key string) (mgl32.Quat, bool) {
	list, ok := m[key].([]interface{})
	if !ok || len(list) != 4 {
		return mgl32.Quat{}, false
	}
	var vals [4]float32
	for i, e := range list {
		f, ok := e.(float64)
		if !ok {
			return mgl32.Quat{}, false
		}
		vals[i] = float32(f)
	}
	return mgl32.Quat{W: vals[3], V: mgl32.Vec3{vals[0], vals[1], vals[2]}}, true
}
