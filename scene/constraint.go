package scene

import "github.com/go-gl/mathgl/mgl32"

// Constraint is a closed union of declarative constraint kinds consumed by
// the solver. The solver type switches over the concrete types; kinds it does
// not recognize are skipped, never treated as errors.
type Constraint interface {
	// ConstraintID identifies the constraint for history/reporting.
	ConstraintID() string
	// TargetNode is the id of the node the constraint moves.
	TargetNode() string

	constraint()
}

// AnchorToNode snaps the target node's position onto another node's position.
type AnchorToNode struct {
	ID     string
	Node   string
	Anchor string
}

func (c AnchorToNode) ConstraintID() string { return c.ID }
func (c AnchorToNode) TargetNode() string   { return c.Node }
func (AnchorToNode) constraint()            {}

// AnchorToWorld snaps the target node's position onto a fixed world point.
type AnchorToWorld struct {
	ID    string
	Node  string
	Point mgl32.Vec3
}

func (c AnchorToWorld) ConstraintID() string { return c.ID }
func (c AnchorToWorld) TargetNode() string   { return c.Node }
func (AnchorToWorld) constraint()            {}

// KeepOnPlane projects the target node onto the plane dot(p, Normal) = Offset.
type KeepOnPlane struct {
	ID     string
	Node   string
	Normal mgl32.Vec3
	Offset float32
}

func (c KeepOnPlane) ConstraintID() string { return c.ID }
func (c KeepOnPlane) TargetNode() string   { return c.Node }
func (KeepOnPlane) constraint()            {}

// MaintainDistance moves the target node along the line to Reference until
// their distance equals Distance.
type MaintainDistance struct {
	ID        string
	Node      string
	Reference string
	Distance  float32
}

func (c MaintainDistance) ConstraintID() string { return c.ID }
func (c MaintainDistance) TargetNode() string   { return c.Node }
func (MaintainDistance) constraint()            {}

// AimAtNode recomputes the target node's yaw/pitch so it faces Target.
// Only Euler rotations are supported; quaternion nodes are left untouched.
type AimAtNode struct {
	ID     string
	Node   string
	Target string
}

func (c AimAtNode) ConstraintID() string { return c.ID }
func (c AimAtNode) TargetNode() string   { return c.Node }
func (AimAtNode) constraint()            {}
