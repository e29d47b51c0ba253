package scene

import "github.com/go-gl/mathgl/mgl32"

// Clone deep-copies the scene. Solver and binding operations clone before
// mutating so callers keep the pre-mutation state ("returns new state"
// contract).
func (s *Scene) Clone() *Scene {
	out := &Scene{
		ID:          s.ID,
		Camera:      cloneCamera(s.Camera),
		Environment: cloneMeta(s.Environment),
	}
	if s.Roots != nil {
		out.Roots = make([]*Node, len(s.Roots))
		for i, r := range s.Roots {
			out.Roots[i] = cloneNode(r)
		}
	}
	if s.Meshes != nil {
		out.Meshes = make([]*Mesh, len(s.Meshes))
		for i, m := range s.Meshes {
			out.Meshes[i] = cloneMesh(m)
		}
	}
	if s.Materials != nil {
		out.Materials = make([]*Material, len(s.Materials))
		for i, m := range s.Materials {
			out.Materials[i] = cloneMaterial(m)
		}
	}
	if s.Lights != nil {
		out.Lights = append([]Light(nil), s.Lights...)
	}
	if s.Constraints != nil {
		// constraint kinds are plain value structs
		out.Constraints = append([]Constraint(nil), s.Constraints...)
	}
	if s.History != nil {
		out.History = make([]ConstructionOp, len(s.History))
		for i, op := range s.History {
			out.History[i] = ConstructionOp{Op: op.Op, Target: op.Target, Args: cloneMeta(op.Args)}
		}
	}
	return out
}

// cloneNode copies a subtree iteratively; see Walk for the stack-depth
// rationale.
func cloneNode(n *Node) *Node {
	root := copyNodeShallow(n)
	type frame struct {
		src *Node
		dst *Node
	}
	stack := []frame{{n, root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.src.Children == nil {
			continue
		}
		f.dst.Children = make([]*Node, len(f.src.Children))
		for i, c := range f.src.Children {
			cc := copyNodeShallow(c)
			f.dst.Children[i] = cc
			stack = append(stack, frame{c, cc})
		}
	}
	return root
}

func copyNodeShallow(n *Node) *Node {
	out := &Node{
		ID:         n.ID,
		Name:       n.Name,
		Transform:  n.Transform,
		MeshID:     n.MeshID,
		MaterialID: n.MaterialID,
		Meta:       cloneMeta(n.Meta),
	}
	if n.Attachments != nil {
		out.Attachments = append([]Attachment(nil), n.Attachments...)
	}
	return out
}

func cloneMesh(m *Mesh) *Mesh {
	out := &Mesh{ID: m.ID, Primitive: m.Primitive}
	if m.Vertices != nil {
		out.Vertices = append([]mgl32.Vec3(nil), m.Vertices...)
	}
	if m.Normals != nil {
		out.Normals = append([]mgl32.Vec3(nil), m.Normals...)
	}
	if m.UVs != nil {
		out.UVs = append([]mgl32.Vec2(nil), m.UVs...)
	}
	if m.Indices != nil {
		out.Indices = append([]uint32(nil), m.Indices...)
	}
	if m.Bounds != nil {
		b := *m.Bounds
		out.Bounds = &b
	}
	return out
}

func cloneMaterial(m *Material) *Material {
	out := &Material{ID: m.ID, Meta: cloneMeta(m.Meta)}
	if m.BaseColor != nil {
		c := *m.BaseColor
		out.BaseColor = &c
	}
	if m.Metallic != nil {
		v := *m.Metallic
		out.Metallic = &v
	}
	if m.Roughness != nil {
		v := *m.Roughness
		out.Roughness = &v
	}
	if m.Emissive != nil {
		e := *m.Emissive
		out.Emissive = &e
	}
	if m.Textures != nil {
		out.Textures = make(map[string]string, len(m.Textures))
		for k, v := range m.Textures {
			out.Textures[k] = v
		}
	}
	return out
}

func cloneCamera(c *Camera) *Camera {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// cloneMeta deep-copies a metadata bag; nested maps and slices are copied,
// everything else is treated as immutable.
func cloneMeta(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		out[k] = cloneMetaValue(v)
	}
	return out
}

func cloneMetaValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMeta(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneMetaValue(e)
		}
		return out
	default:
		return v
	}
}
