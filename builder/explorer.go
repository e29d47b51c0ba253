package builder

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyforge/scenekit/curve"
	"github.com/polyforge/scenekit/paramgraph"
	"github.com/polyforge/scenekit/scene"
)

// VectorExplorerScene builds the demo scene served at startup: a quarter
// circle NURBS arc, a Bezier sweep, a curved NURBS patch and a grid of
// pillars whose heights come from a NOISE_1D param graph.
func VectorExplorerScene() (*scene.Scene, error) {
	sc := scene.NewScene("vector-explorer")

	for _, m := range []*scene.Material{
		scene.NewMaterial("arc_mat").WithBaseColor(0.9, 0.3, 0.2, 1),
		scene.NewMaterial("sweep_mat").WithBaseColor(0.2, 0.5, 0.9, 1),
		scene.NewMaterial("patch_mat").WithBaseColor(0.3, 0.8, 0.4, 1),
		scene.NewMaterial("pillar_mat").WithBaseColor(0.75, 0.75, 0.8, 1),
	} {
		if err := sc.AddMaterial(m); err != nil {
			return nil, err
		}
	}

	// quarter circle of radius 2, exact thanks to the sqrt(2)/2 middle weight
	w := math32.Sqrt(2) / 2
	arc := &curve.NURBSCurve{
		Degree: 2,
		Knots:  []float32{0, 0, 0, 1, 1, 1},
		Control: []curve.ControlPoint{
			{Point: mgl32.Vec3{2, 0, 0}, Weight: 1},
			{Point: mgl32.Vec3{2, 2, 0}, Weight: w},
			{Point: mgl32.Vec3{0, 2, 0}, Weight: 1},
		},
	}
	if err := addCurveNode(sc, "arc", "arc_mat", arc, 32); err != nil {
		return nil, err
	}

	sweep := &curve.Bezier{Control: []mgl32.Vec3{
		{-3, 0, -2}, {-1, 2.5, -2}, {1, -0.5, -2}, {3, 1.5, -2},
	}}
	if err := addCurveNode(sc, "sweep", "sweep_mat", sweep, 48); err != nil {
		return nil, err
	}

	patch := &curve.NURBSSurface{
		DegreeU: 2,
		DegreeV: 2,
		KnotsU:  []float32{0, 0, 0, 1, 1, 1},
		KnotsV:  []float32{0, 0, 0, 1, 1, 1},
		Control: patchControl(),
	}
	patchMesh, err := curve.TessellateSurface("patch", patch, 12, 12)
	if err != nil {
		return nil, err
	}
	if err := sc.AddMesh(patchMesh); err != nil {
		return nil, err
	}
	patchNode := scene.NewNode("patch")
	patchNode.MeshID = "patch"
	patchNode.MaterialID = "patch_mat"
	patchNode.Transform = scene.TransformAt(mgl32.Vec3{0, 0, 3})
	if err := sc.AddNode("", patchNode); err != nil {
		return nil, err
	}
	sc.RecordOp("tessellate_surface", "patch", map[string]interface{}{"u": 12, "v": 12})

	if err := addPillars(sc); err != nil {
		return nil, err
	}

	sc.Camera = FrameShot(sc, "camera")
	return sc, nil
}

func addCurveNode(sc *scene.Scene, id, material string, c curve.Curve, segments int) error {
	mesh, err := curve.TessellateCurve(id, c, segments)
	if err != nil {
		return err
	}
	if err := sc.AddMesh(mesh); err != nil {
		return err
	}
	n := scene.NewNode(id)
	n.MeshID = id
	n.MaterialID = material
	if err := sc.AddNode("", n); err != nil {
		return err
	}
	sc.RecordOp("tessellate_curve", id, map[string]interface{}{"segments": segments})
	return nil
}

func patchControl() [][]curve.ControlPoint {
	heights := [3][3]float32{
		{0, 0.4, 0},
		{0.4, 1.2, 0.4},
		{0, 0.4, 0},
	}
	grid := make([][]curve.ControlPoint, 3)
	for i := range grid {
		grid[i] = make([]curve.ControlPoint, 3)
		for j := range grid[i] {
			grid[i][j] = curve.ControlPoint{
				Point:  mgl32.Vec3{float32(i) - 1, heights[i][j], float32(j) - 1},
				Weight: 1,
			}
		}
	}
	return grid
}

// addPillars scatters a grid of thin boxes and drives their heights with a
// GRID_2D + NOISE_1D param graph.
func addPillars(sc *scene.Scene) error {
	g := paramgraph.NewGraph()
	g.Add(&paramgraph.Node{
		ID:     "grid",
		Kind:   paramgraph.OpGrid2D,
		Params: map[string]float32{"rows": 3, "cols": 3, "spacing": 1.2},
	})
	g.Add(&paramgraph.Node{
		ID:     "phase",
		Kind:   paramgraph.OpInput,
		Params: map[string]float32{"default": 0},
	})
	g.Add(&paramgraph.Node{
		ID:     "noise",
		Kind:   paramgraph.OpNoise1D,
		Inputs: map[string]string{"t": "phase"},
		Params: map[string]float32{"frequency": 1, "amplitude": 0.5},
	})
	g.Outputs["points"] = "grid"
	g.Outputs["wobble"] = "noise"

	results := g.Evaluate(nil)
	points, ok := results["points"].(paramgraph.Vectors)
	if !ok {
		return nil
	}
	wobble := paramgraph.ScalarOf(results["wobble"])

	for i, p := range points {
		height := 0.8 + 0.4*math32.Sin(float32(i)) + wobble
		if height < 0.2 {
			height = 0.2
		}
		id := fmt.Sprintf("pillar_%d", i)
		mesh, err := BoxMesh(id, mgl32.Vec3{0.2, height, 0.2})
		if err != nil {
			return err
		}
		if err := sc.AddMesh(mesh); err != nil {
			return err
		}
		n := scene.NewNode(id)
		n.MeshID = id
		n.MaterialID = "pillar_mat"
		n.Transform = scene.TransformAt(mgl32.Vec3{p.X() - 4, height / 2, p.Z()})
		if err := sc.AddNode("", n); err != nil {
			return err
		}
	}
	sc.RecordOp("scatter_pillars", sc.ID, map[string]interface{}{"count": len(points)})
	return nil
}
