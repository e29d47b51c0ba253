// Package gltfconv converts scenes to and from glTF 2.0 documents. Geometry,
// materials and the node hierarchy map onto native glTF structures; kernel
// state glTF has no slot for (camera look-at, lights, metadata, attachment
// sockets) rides along in extras so a round trip loses nothing.
package gltfconv

import (
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/polyforge/scenekit/scene"
)

// meshKey identifies one exported glTF mesh. glTF binds materials to
// primitives, so a scene mesh rendered with two materials becomes two
// document meshes.
type meshKey struct {
	mesh     string
	material string
}

type exporter struct {
	sc        *scene.Scene
	doc       *gltf.Document
	materials map[string]uint32
	meshes    map[meshKey]uint32
}

// Export converts a scene into a self-contained glTF document. The same
// scene always yields the same document: nodes are visited in tree order and
// pools in registration order.
func Export(sc *scene.Scene) (*gltf.Document, error) {
	e := &exporter{
		sc:        sc,
		doc:       gltf.NewDocument(),
		materials: make(map[string]uint32),
		meshes:    make(map[meshKey]uint32),
	}
	e.doc.Scenes[0].Name = sc.ID

	for _, m := range sc.Materials {
		e.materials[m.ID] = e.exportMaterial(m)
	}

	for _, root := range sc.Roots {
		idx, err := e.exportNode(root)
		if err != nil {
			return nil, err
		}
		e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, idx)
	}

	extras := make(map[string]interface{})
	if sc.Camera != nil {
		extras["camera"] = cameraExtras(sc.Camera)
	}
	if len(sc.Lights) > 0 {
		lights := make([]interface{}, len(sc.Lights))
		for i, l := range sc.Lights {
			lights[i] = lightExtras(l)
		}
		extras["lights"] = lights
	}
	if len(sc.Environment) > 0 {
		extras["environment"] = jsonifyMap(sc.Environment)
	}
	if len(extras) > 0 {
		e.doc.Scenes[0].Extras = extras
	}

	return e.doc, nil
}

func (e *exporter) exportNode(n *scene.Node) (uint32, error) {
	gn := &gltf.Node{
		Name:        nodeName(n),
		Translation: [3]float32(n.Transform.Position),
		Rotation:    rotationQuat(n.Transform.Rotation),
		Scale:       scaleOrOne(n.Transform.Scale),
		Extras:      nodeExtras(n),
	}
	idx := uint32(len(e.doc.Nodes))
	e.doc.Nodes = append(e.doc.Nodes, gn)

	if n.MeshID != "" {
		mi, err := e.meshIndex(n.MeshID, n.MaterialID)
		if err != nil {
			return 0, err
		}
		gn.Mesh = gltf.Index(mi)
	}

	for _, c := range n.Children {
		ci, err := e.exportNode(c)
		if err != nil {
			return 0, err
		}
		gn.Children = append(gn.Children, ci)
	}
	return idx, nil
}

func (e *exporter) meshIndex(meshID, materialID string) (uint32, error) {
	key := meshKey{mesh: meshID, material: materialID}
	if idx, ok := e.meshes[key]; ok {
		return idx, nil
	}

	m := e.sc.MeshByID(meshID)
	if m == nil {
		return 0, errors.Errorf("mesh %q not found in scene %q", meshID, e.sc.ID)
	}

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			"POSITION": modeler.WritePosition(e.doc, positions(m)),
		},
	}
	if len(m.Normals) > 0 {
		prim.Attributes["NORMAL"] = modeler.WriteNormal(e.doc, normals(m))
	}
	if len(m.UVs) > 0 {
		prim.Attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(e.doc, texCoords(m))
	}
	if len(m.Indices) > 0 {
		indices := modeler.WriteIndices(e.doc, append([]uint32(nil), m.Indices...))
		prim.Indices = gltf.Index(indices)
	}
	if m.Primitive == scene.PrimitiveCurve {
		prim.Mode = gltf.PrimitiveLines
	}
	if materialID != "" {
		mi, ok := e.materials[materialID]
		if !ok {
			return 0, errors.Errorf("material %q not found in scene %q", materialID, e.sc.ID)
		}
		prim.Material = gltf.Index(mi)
	}

	gm := &gltf.Mesh{
		Name:       meshID,
		Primitives: []*gltf.Primitive{prim},
	}
	if m.Primitive != "" {
		gm.Extras = map[string]interface{}{"primitive": m.Primitive}
	}

	idx := uint32(len(e.doc.Meshes))
	e.doc.Meshes = append(e.doc.Meshes, gm)
	e.meshes[key] = idx
	return idx, nil
}

func (e *exporter) exportMaterial(m *scene.Material) uint32 {
	gm := &gltf.Material{
		Name:        m.ID,
		DoubleSided: true,
	}
	pbr := &gltf.PBRMetallicRoughness{}
	if m.BaseColor != nil {
		color := new([4]float32)
		*color = [4]float32(*m.BaseColor)
		pbr.BaseColorFactor = color
	}
	if m.Metallic != nil {
		v := *m.Metallic
		pbr.MetallicFactor = &v
	}
	if m.Roughness != nil {
		v := *m.Roughness
		pbr.RoughnessFactor = &v
	}
	gm.PBRMetallicRoughness = pbr
	if m.Emissive != nil {
		gm.EmissiveFactor = [3]float32(*m.Emissive)
	}
	if len(m.Textures) > 0 || len(m.Meta) > 0 {
		extras := make(map[string]interface{})
		if len(m.Textures) > 0 {
			textures := make(map[string]interface{}, len(m.Textures))
			for slot, asset := range m.Textures {
				textures[slot] = asset
			}
			extras["textures"] = textures
		}
		if len(m.Meta) > 0 {
			extras["meta"] = jsonifyMap(m.Meta)
		}
		gm.Extras = extras
	}

	idx := uint32(len(e.doc.Materials))
	e.doc.Materials = append(e.doc.Materials, gm)
	return idx
}

// Encode writes the document as JSON glTF with the buffer embedded as a data
// URI, so the output is a single self-contained file.
func Encode(w io.Writer, doc *gltf.Document) error {
	for _, b := range doc.Buffers {
		b.EmbeddedResource()
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = false
	return errors.Wrapf(encoder.Encode(doc), "gltf encode")
}

// EncodeBinary writes the document as GLB.
func EncodeBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return errors.Wrapf(encoder.Encode(doc), "glb encode")
}

func nodeName(n *scene.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

func nodeExtras(n *scene.Node) interface{} {
	extras := map[string]interface{}{"id": n.ID}
	if len(n.Meta) > 0 {
		extras["meta"] = jsonifyMap(n.Meta)
	}
	if len(n.Attachments) > 0 {
		atts := make([]interface{}, len(n.Attachments))
		for i, a := range n.Attachments {
			atts[i] = map[string]interface{}{
				"name":     a.Name,
				"position": vec3List(a.Transform.Position),
				"rotation": quatList(rotationQuat(a.Transform.Rotation)),
				"scale":    vec3List(scaleOrOne(a.Transform.Scale)),
			}
		}
		extras["attachments"] = atts
	}
	return extras
}

func cameraExtras(c *scene.Camera) map[string]interface{} {
	return map[string]interface{}{
		"id":          c.ID,
		"kind":        c.Kind.String(),
		"fov":         float64(c.FOVDegrees),
		"orthoHeight": float64(c.OrthoHeight),
		"near":        float64(c.Near),
		"far":         float64(c.Far),
		"position":    vec3List(c.Position),
		"target":      vec3List(c.Target),
		"up":          vec3List(c.Up),
	}
}

func lightExtras(l scene.Light) map[string]interface{} {
	kind := "point"
	switch l.Kind {
	case scene.LightDirectional:
		kind = "directional"
	case scene.LightAmbient:
		kind = "ambient"
	}
	return map[string]interface{}{
		"id":        l.ID,
		"kind":      kind,
		"color":     vec3List(l.Color),
		"intensity": float64(l.Intensity),
		"position":  vec3List(l.Position),
		"direction": vec3List(l.Direction),
	}
}

func positions(m *scene.Mesh) [][3]float32 {
	out := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v
	}
	return out
}

func normals(m *scene.Mesh) [][3]float32 {
	out := make([][3]float32, len(m.Normals))
	for i, v := range m.Normals {
		out[i] = v
	}
	return out
}

func texCoords(m *scene.Mesh) [][2]float32 {
	out := make([][2]float32, len(m.UVs))
	for i, v := range m.UVs {
		out[i] = v
	}
	return out
}

func rotationQuat(r scene.Rotation) [4]float32 {
	if r == nil {
		return [4]float32{0, 0, 0, 1}
	}
	q := r.Quat()
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

func scaleOrOne(s [3]float32) [3]float32 {
	if s == ([3]float32{}) {
		return [3]float32{1, 1, 1}
	}
	return s
}

func vec3List(v [3]float32) []interface{} {
	return []interface{}{float64(v[0]), float64(v[1]), float64(v[2])}
}

func quatList(q [4]float32) []interface{} {
	return []interface{}{float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])}
}

// jsonifyMap rewrites a metadata bag using only JSON-native value types, so
// extras compare equal whether the document was round-tripped through bytes
// or handed over in memory.
func jsonifyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = jsonifyValue(v)
	}
	return out
}

func jsonifyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return jsonifyMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = jsonifyValue(e)
		}
		return out
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint32:
		return float64(t)
	default:
		return v
	}
}
