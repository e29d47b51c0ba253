// Package solver satisfies scene constraints by bounded-iteration
// relaxation: every pass applies each constraint once, in list order, writing
// node transforms directly. It is not a general optimizer; conflicting
// constraints converge to whichever was applied last in the final pass, and
// that ordering is part of the contract.
package solver

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyforge/scenekit/scene"
	"github.com/polyforge/scenekit/utils"
)

type Options struct {
	MaxIterations     int
	DistanceTolerance float32
	// AngleTolerance is in radians.
	AngleTolerance float32
}

func DefaultOptions() Options {
	return Options{
		MaxIterations:     10,
		DistanceTolerance: 1e-3,
		AngleTolerance:    mgl32.DegToRad(0.5),
	}
}

// Report describes how the relaxation went. The solver never fails: an
// unsatisfiable set simply ends with Converged=false and the best state
// reached within the iteration budget.
type Report struct {
	Iterations  int
	MaxDistance float32
	MaxAngle    float32
	Converged   bool
}

// Solve returns a new scene whose node transforms satisfy the scene's
// constraints as closely as the iteration budget allows. The input scene is
// left untouched.
func Solve(sc *scene.Scene, opts Options) (*scene.Scene, Report) {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	if opts.DistanceTolerance <= 0 {
		opts.DistanceTolerance = DefaultOptions().DistanceTolerance
	}
	if opts.AngleTolerance <= 0 {
		opts.AngleTolerance = DefaultOptions().AngleTolerance
	}

	out := sc.Clone()
	report := Report{}
	if len(out.Constraints) == 0 {
		report.Converged = true
		return out, report
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		report.Iterations = iter + 1
		report.MaxDistance = 0
		report.MaxAngle = 0
		for _, c := range out.Constraints {
			dist, ang := apply(out, c)
			if dist > report.MaxDistance {
				report.MaxDistance = dist
			}
			if ang > report.MaxAngle {
				report.MaxAngle = ang
			}
		}
		if report.MaxDistance <= opts.DistanceTolerance && report.MaxAngle <= opts.AngleTolerance {
			report.Converged = true
			break
		}
	}
	return out, report
}

// apply runs one constraint, returning the position correction magnitude and
// the angular correction in radians. Unknown kinds and missing nodes
// contribute nothing.
func apply(sc *scene.Scene, c scene.Constraint) (float32, float32) {
	switch k := c.(type) {
	case scene.AnchorToNode:
		anchor, ok := sc.WorldPosition(k.Anchor)
		if !ok {
			return 0, 0
		}
		return setWorldPosition(sc, k.Node, anchor), 0

	case scene.AnchorToWorld:
		return setWorldPosition(sc, k.Node, k.Point), 0

	case scene.KeepOnPlane:
		n := utils.SafeNormalize(k.Normal)
		if n.Len() == 0 {
			return 0, 0
		}
		p, ok := sc.WorldPosition(k.Node)
		if !ok {
			return 0, 0
		}
		moved := p.Sub(n.Mul(p.Dot(n) - k.Offset))
		return setWorldPosition(sc, k.Node, moved), 0

	case scene.MaintainDistance:
		ref, ok := sc.WorldPosition(k.Reference)
		if !ok {
			return 0, 0
		}
		p, ok := sc.WorldPosition(k.Node)
		if !ok {
			return 0, 0
		}
		dir := utils.SafeNormalize(p.Sub(ref))
		if dir.Len() == 0 {
			// coincident points: pick an arbitrary direction
			dir = mgl32.Vec3{0, 1, 0}
		}
		return setWorldPosition(sc, k.Node, ref.Add(dir.Mul(k.Distance))), 0

	case scene.AimAtNode:
		return 0, aimAt(sc, k)

	default:
		return 0, 0
	}
}

// setWorldPosition writes a world-space position into the node's local
// transform through the inverse parent world matrix, and returns how far the
// node moved.
func setWorldPosition(sc *scene.Scene, id string, world mgl32.Vec3) float32 {
	node := sc.FindNode(id)
	if node == nil {
		return 0
	}
	cur, _ := sc.WorldPosition(id)
	correction := world.Sub(cur).Len()

	local := world
	if parent := sc.Parent(id); parent != nil {
		pw, _ := sc.WorldTransform(parent.ID)
		local = pw.Inv().Mul4x1(world.Vec4(1)).Vec3()
	}
	node.Transform.Position = local
	return correction
}

// aimAt recomputes yaw/pitch from the direction to the target and zeroes
// roll. Quaternion rotations are a documented no-op: the Euler-only update
// rule has no equivalent there, so the node is left untouched rather than
// given a wrong orientation.
func aimAt(sc *scene.Scene, k scene.AimAtNode) float32 {
	node := sc.FindNode(k.Node)
	if node == nil {
		return 0
	}
	rot, ok := node.Transform.Rotation.(scene.EulerRotation)
	if !ok {
		return 0
	}
	target, tok := sc.WorldPosition(k.Target)
	pos, pok := sc.WorldPosition(k.Node)
	if !tok || !pok {
		return 0
	}
	dir := utils.SafeNormalize(target.Sub(pos))
	if dir.Len() == 0 {
		return 0
	}

	yaw := math32.Atan2(dir.X(), dir.Z())
	pitch := math32.Atan2(dir.Y(), math32.Sqrt(dir.X()*dir.X()+dir.Z()*dir.Z()))

	next := scene.EulerRotation{Angles: mgl32.Vec3{pitch, yaw, 0}, Order: rot.Order}
	correction := maxAngleDelta(rot.Angles, next.Angles)
	node.Transform.Rotation = next
	return correction
}

func maxAngleDelta(a, b mgl32.Vec3) float32 {
	m := float32(0)
	for i := 0; i < 3; i++ {
		d := math32.Abs(utils.WrapAngle(a[i] - b[i]))
		if d > m {
			m = d
		}
	}
	return m
}
