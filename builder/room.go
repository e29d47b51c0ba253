package builder

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/polyforge/scenekit/paramgraph"
	"github.com/polyforge/scenekit/scene"
	"github.com/polyforge/scenekit/solver"
	"github.com/polyforge/scenekit/utils"
)

// GridSpec describes the floor of a room: a rows x cols grid of cells with a
// given spacing, centered at the origin.
type GridSpec struct {
	Rows    int     `json:"rows"`
	Cols    int     `json:"cols"`
	Spacing float32 `json:"spacing"`
}

func (g GridSpec) validate() error {
	if g.Rows < 1 || g.Cols < 1 {
		return errors.Errorf("grid %dx%d: needs at least one row and column", g.Rows, g.Cols)
	}
	if g.Spacing <= 0 {
		return errors.Errorf("grid spacing %g is not positive", g.Spacing)
	}
	return nil
}

// BoxSpec places one box in the room. Name is optional; unnamed boxes get a
// generated name.
type BoxSpec struct {
	Name     string     `json:"name,omitempty"`
	Size     mgl32.Vec3 `json:"size"`
	Position mgl32.Vec3 `json:"position"`
	Material string     `json:"material,omitempty"`
}

// Recipe is the declarative room description. Constraints, the param graph
// and its bindings are optional refinement stages applied after the static
// layout is built.
type Recipe struct {
	Name        string
	Floor       *GridSpec
	Boxes       []BoxSpec
	Constraints []scene.Constraint
	Graph       *paramgraph.Graph
	GraphInputs map[string]paramgraph.Value
	Bindings    []paramgraph.Binding
	Solver      *solver.Options
}

const (
	floorMaterial   = "floor_mat"
	defaultMaterial = "box_mat"
)

// BuildRoom validates the recipe eagerly and then assembles the scene:
// floor, boxes, constraints (solved when a solver option block is present),
// param graph bindings. Every stage is recorded in the construction history.
func BuildRoom(r Recipe) (*scene.Scene, *solver.Report, error) {
	if r.Floor == nil && len(r.Boxes) == 0 {
		return nil, nil, errors.Errorf("room recipe is empty: no floor and no boxes")
	}
	if r.Floor != nil {
		if err := r.Floor.validate(); err != nil {
			return nil, nil, err
		}
	}
	for i, b := range r.Boxes {
		if b.Size.X() <= 0 || b.Size.Y() <= 0 || b.Size.Z() <= 0 {
			return nil, nil, errors.Errorf("box %d (%q): size %v is not positive", i, b.Name, b.Size)
		}
	}

	sc := scene.NewScene(uuid.NewString())
	var names utils.RandomNameGenerator

	if err := sc.AddMaterial(scene.NewMaterial(floorMaterial).WithBaseColor(0.55, 0.55, 0.58, 1)); err != nil {
		return nil, nil, err
	}
	if err := sc.AddMaterial(scene.NewMaterial(defaultMaterial).WithBaseColor(0.8, 0.6, 0.4, 1)); err != nil {
		return nil, nil, err
	}

	if r.Floor != nil {
		width := float32(r.Floor.Cols) * r.Floor.Spacing
		depth := float32(r.Floor.Rows) * r.Floor.Spacing
		floor, err := PlaneMesh("floor", width, depth)
		if err != nil {
			return nil, nil, err
		}
		if err := sc.AddMesh(floor); err != nil {
			return nil, nil, err
		}
		n := scene.NewNode("floor")
		n.Name = "Floor"
		n.MeshID = floor.ID
		n.MaterialID = floorMaterial
		if err := sc.AddNode("", n); err != nil {
			return nil, nil, err
		}
		sc.RecordOp("create_floor", n.ID, map[string]interface{}{
			"rows": r.Floor.Rows, "cols": r.Floor.Cols, "spacing": r.Floor.Spacing,
		})
	}

	for i, b := range r.Boxes {
		name := b.Name
		if name == "" {
			name = names.RandomName()
		}
		id := fmt.Sprintf("box_%d", i)
		mesh, err := BoxMesh(id, b.Size)
		if err != nil {
			return nil, nil, err
		}
		if err := sc.AddMesh(mesh); err != nil {
			return nil, nil, err
		}
		material := b.Material
		if material == "" {
			material = defaultMaterial
		} else if sc.MaterialByID(material) == nil {
			return nil, nil, errors.Errorf("box %q: material %q not found", name, material)
		}

		n := scene.NewNode(id)
		n.Name = name
		n.MeshID = mesh.ID
		n.MaterialID = material
		// rest the box on the floor unless the recipe lifts it
		pos := b.Position
		if pos.Y() == 0 {
			pos[1] = b.Size.Y() / 2
		}
		n.Transform = scene.TransformAt(pos)
		if err := sc.AddNode("", n); err != nil {
			return nil, nil, err
		}
		sc.RecordOp("add_box", n.ID, map[string]interface{}{"name": name})
	}

	var report *solver.Report
	if len(r.Constraints) > 0 {
		sc.Constraints = append(sc.Constraints, r.Constraints...)
		sc.RecordOp("apply_constraints", sc.ID, map[string]interface{}{"count": len(r.Constraints)})
		if r.Solver != nil {
			solved, rep := solver.Solve(sc, *r.Solver)
			solved.RecordOp("solve", solved.ID, map[string]interface{}{
				"iterations": rep.Iterations, "converged": rep.Converged,
			})
			sc, report = solved, &rep
		}
	}

	if r.Graph != nil && len(r.Bindings) > 0 {
		results := r.Graph.Evaluate(r.GraphInputs)
		bound, err := paramgraph.ApplyBindings(sc, results, r.Bindings)
		if err != nil {
			return nil, nil, err
		}
		bound.RecordOp("evaluate_graph", bound.ID, map[string]interface{}{
			"bindings": len(r.Bindings),
		})
		sc = bound
	}

	if r.Name != "" {
		sc.Environment = map[string]interface{}{"room": r.Name}
	}
	sc.Camera = FrameShot(sc, "camera")
	return sc, report, nil
}
