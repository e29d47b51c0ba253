package web

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/polyforge/scenekit/builder"
	"github.com/polyforge/scenekit/paramgraph"
	"github.com/polyforge/scenekit/scene"
	"github.com/polyforge/scenekit/utils"
)

// BuildRequest is the wire form of a room recipe.
type BuildRequest struct {
	Name        string             `json:"name,omitempty"`
	Floor       *builder.GridSpec  `json:"floor,omitempty"`
	Boxes       []builder.BoxSpec  `json:"boxes,omitempty"`
	Constraints []ConstraintSpec   `json:"constraints,omitempty"`
	Solve       bool               `json:"solve,omitempty"`
	Graph       *ParamGraphSpec    `json:"graph,omitempty"`
	Inputs      map[string]float32 `json:"inputs,omitempty"`
	Bindings    []BindingSpec      `json:"bindings,omitempty"`
}

// ConstraintSpec is the wire form of one constraint; Kind selects which of
// the optional fields apply.
type ConstraintSpec struct {
	Kind      string      `json:"kind"`
	ID        string      `json:"id,omitempty"`
	Node      string      `json:"node"`
	Anchor    string      `json:"anchor,omitempty"`
	Point     *mgl32.Vec3 `json:"point,omitempty"`
	Normal    *mgl32.Vec3 `json:"normal,omitempty"`
	Offset    float32     `json:"offset,omitempty"`
	Reference string      `json:"reference,omitempty"`
	Distance  float32     `json:"distance,omitempty"`
	Target    string      `json:"target,omitempty"`
}

func (c ConstraintSpec) ToConstraint() (scene.Constraint, error) {
	if c.Node == "" {
		return nil, errors.Errorf("constraint %q: node is required", c.Kind)
	}
	switch c.Kind {
	case "ANCHOR_TO_NODE":
		if c.Anchor == "" {
			return nil, errors.Errorf("ANCHOR_TO_NODE: anchor is required")
		}
		return scene.AnchorToNode{ID: c.ID, Node: c.Node, Anchor: c.Anchor}, nil
	case "ANCHOR_TO_WORLD":
		if c.Point == nil {
			return nil, errors.Errorf("ANCHOR_TO_WORLD: point is required")
		}
		return scene.AnchorToWorld{ID: c.ID, Node: c.Node, Point: *c.Point}, nil
	case "KEEP_ON_PLANE":
		if c.Normal == nil {
			return nil, errors.Errorf("KEEP_ON_PLANE: normal is required")
		}
		return scene.KeepOnPlane{ID: c.ID, Node: c.Node, Normal: *c.Normal, Offset: c.Offset}, nil
	case "MAINTAIN_DISTANCE":
		if c.Reference == "" {
			return nil, errors.Errorf("MAINTAIN_DISTANCE: reference is required")
		}
		return scene.MaintainDistance{ID: c.ID, Node: c.Node, Reference: c.Reference, Distance: c.Distance}, nil
	case "AIM_AT":
		if c.Target == "" {
			return nil, errors.Errorf("AIM_AT: target is required")
		}
		return scene.AimAtNode{ID: c.ID, Node: c.Node, Target: c.Target}, nil
	default:
		return nil, errors.Errorf("unknown constraint kind %q", c.Kind)
	}
}

// ParamGraphSpec is the wire form of a param graph.
type ParamGraphSpec struct {
	Nodes   []ParamNodeSpec   `json:"nodes"`
	Inputs  map[string]string `json:"inputs,omitempty"`
	Outputs map[string]string `json:"outputs,omitempty"`
}

type ParamNodeSpec struct {
	ID     string             `json:"id"`
	Kind   string             `json:"kind"`
	Inputs map[string]string  `json:"inputs,omitempty"`
	Params map[string]float32 `json:"params,omitempty"`
}

func (s *ParamGraphSpec) ToGraph() (*paramgraph.Graph, error) {
	g := paramgraph.NewGraph()
	for _, ns := range s.Nodes {
		if ns.ID == "" {
			return nil, errors.Errorf("param node has no id")
		}
		kind, err := paramgraph.OpKindFromName(ns.Kind)
		if err != nil {
			return nil, err
		}
		g.Add(&paramgraph.Node{ID: ns.ID, Kind: kind, Inputs: ns.Inputs, Params: ns.Params})
	}
	for name, node := range s.Inputs {
		g.Inputs[name] = node
	}
	for name, node := range s.Outputs {
		g.Outputs[name] = node
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// BindingSpec is the wire form of one graph-to-scene binding.
type BindingSpec struct {
	Kind     string `json:"kind"`
	Output   string `json:"output"`
	Node     string `json:"node,omitempty"`
	Material string `json:"material,omitempty"`
	Field    string `json:"field,omitempty"`
}

func (b BindingSpec) ToBinding() (paramgraph.Binding, error) {
	if b.Output == "" {
		return nil, errors.Errorf("binding %q: output is required", b.Kind)
	}
	switch b.Kind {
	case "NODE_POSITION_Y":
		return paramgraph.NodePositionY{Output: b.Output, Node: b.Node}, nil
	case "NODE_SCALE_UNIFORM":
		return paramgraph.NodeScaleUniform{Output: b.Output, Node: b.Node}, nil
	case "MATERIAL_COLOR":
		return paramgraph.MaterialColor{Output: b.Output, Material: b.Material}, nil
	case "CAMERA_DISTANCE":
		return paramgraph.CameraDistance{Output: b.Output}, nil
	case "AVATAR_STYLE_FIELD":
		return paramgraph.AvatarStyleField{Output: b.Output, Node: b.Node, Field: b.Field}, nil
	default:
		return nil, errors.Errorf("unknown binding kind %q", b.Kind)
	}
}

// toRecipe converts the request into a builder recipe. Solver options come
// from the server config when solving was requested.
func (r *BuildRequest) toRecipe(s *Server) (builder.Recipe, error) {
	recipe := builder.Recipe{
		Name:  r.Name,
		Floor: r.Floor,
		Boxes: r.Boxes,
	}
	for _, cs := range r.Constraints {
		c, err := cs.ToConstraint()
		if err != nil {
			return recipe, err
		}
		recipe.Constraints = append(recipe.Constraints, c)
	}
	if r.Solve {
		opts := s.solverOptions()
		recipe.Solver = &opts
	}
	if r.Graph != nil {
		g, err := r.Graph.ToGraph()
		if err != nil {
			return recipe, err
		}
		recipe.Graph = g
		if len(r.Inputs) > 0 {
			recipe.GraphInputs = make(map[string]paramgraph.Value, len(r.Inputs))
			for name, v := range r.Inputs {
				recipe.GraphInputs[name] = paramgraph.Scalar(v)
			}
		}
		for _, bs := range r.Bindings {
			b, err := bs.ToBinding()
			if err != nil {
				return recipe, err
			}
			recipe.Bindings = append(recipe.Bindings, b)
		}
	}
	return recipe, nil
}

// Outbound DTOs.

type SceneSummary struct {
	ID        string         `json:"id"`
	Nodes     int            `json:"nodes"`
	Meshes    int            `json:"meshes"`
	Materials int            `json:"materials"`
	Solver    *SolverSummary `json:"solver,omitempty"`
}

type SolverSummary struct {
	Iterations  int     `json:"iterations"`
	MaxDistance float32 `json:"maxDistance"`
	Converged   bool    `json:"converged"`
}

type NodeDTO struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Position   mgl32.Vec3 `json:"position"`
	Rotation   [4]float32 `json:"rotation"`
	Euler      mgl32.Vec3 `json:"euler"`
	Scale      mgl32.Vec3 `json:"scale"`
	MeshID     string     `json:"mesh,omitempty"`
	MaterialID string     `json:"material,omitempty"`
	Children   []NodeDTO  `json:"children,omitempty"`
}

type SceneDTO struct {
	ID        string                 `json:"id"`
	Roots     []NodeDTO              `json:"roots"`
	Meshes    []MeshDTO              `json:"meshes"`
	Materials []string               `json:"materials"`
	Camera    *CameraDTO             `json:"camera,omitempty"`
	Env       map[string]interface{} `json:"environment,omitempty"`
}

type MeshDTO struct {
	ID        string `json:"id"`
	Primitive string `json:"primitive,omitempty"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
}

type CameraDTO struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Position mgl32.Vec3 `json:"position"`
	Target   mgl32.Vec3 `json:"target"`
	FOV      float32    `json:"fov"`
}

func sceneSummary(sc *scene.Scene) SceneSummary {
	return SceneSummary{
		ID:        sc.ID,
		Nodes:     sc.NodeCount(),
		Meshes:    len(sc.Meshes),
		Materials: len(sc.Materials),
	}
}

func sceneDTO(sc *scene.Scene) SceneDTO {
	out := SceneDTO{ID: sc.ID, Env: sc.Environment}
	for _, r := range sc.Roots {
		out.Roots = append(out.Roots, nodeDTO(r))
	}
	for _, m := range sc.Meshes {
		out.Meshes = append(out.Meshes, MeshDTO{
			ID:        m.ID,
			Primitive: m.Primitive,
			Vertices:  len(m.Vertices),
			Triangles: m.TriangleCount(),
		})
	}
	for _, m := range sc.Materials {
		out.Materials = append(out.Materials, m.ID)
	}
	if sc.Camera != nil {
		out.Camera = &CameraDTO{
			ID:       sc.Camera.ID,
			Kind:     sc.Camera.Kind.String(),
			Position: sc.Camera.Position,
			Target:   sc.Camera.Target,
			FOV:      sc.Camera.FOVDegrees,
		}
	}
	return out
}

func nodeDTO(n *scene.Node) NodeDTO {
	var q mgl32.Quat
	if n.Transform.Rotation != nil {
		q = n.Transform.Rotation.Quat()
	} else {
		q = mgl32.QuatIdent()
	}
	out := NodeDTO{
		ID:         n.ID,
		Name:       n.Name,
		Position:   n.Transform.Position,
		Rotation:   [4]float32{q.V[0], q.V[1], q.V[2], q.W},
		Euler:      utils.QuatToEuler(q),
		Scale:      n.Transform.Scale,
		MeshID:     n.MeshID,
		MaterialID: n.MaterialID,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, nodeDTO(c))
	}
	return out
}
