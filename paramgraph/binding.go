package paramgraph

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/polyforge/scenekit/scene"
	"github.com/polyforge/scenekit/utils"
)

// Binding routes one named graph output onto a scene property. The closed
// set of kinds mirrors the scene properties the platform drives.
type Binding interface {
	// OutputName is the graph output the binding consumes.
	OutputName() string

	binding()
}

// NodePositionY writes a scalar into the node's local Y position.
type NodePositionY struct {
	Output string
	Node   string
}

func (b NodePositionY) OutputName() string { return b.Output }
func (NodePositionY) binding()             {}

// NodeScaleUniform writes a scalar into all three scale components.
type NodeScaleUniform struct {
	Output string
	Node   string
}

func (b NodeScaleUniform) OutputName() string { return b.Output }
func (NodeScaleUniform) binding()             {}

// MaterialColor writes a vector (or grayscale scalar) into the material's
// base color.
type MaterialColor struct {
	Output   string
	Material string
}

func (b MaterialColor) OutputName() string { return b.Output }
func (MaterialColor) binding()             {}

// CameraDistance rescales the camera position along the existing eye->target
// vector to the requested distance. No-op when the current distance is zero.
type CameraDistance struct {
	Output string
}

func (b CameraDistance) OutputName() string { return b.Output }
func (CameraDistance) binding()             {}

// AvatarStyleField stashes a scalar into the node's style-parameter bag and
// marks it dirty for a later re-application pass. It deliberately does not
// rebuild geometry itself.
type AvatarStyleField struct {
	Output string
	Node   string
	Field  string
}

func (b AvatarStyleField) OutputName() string { return b.Output }
func (AvatarStyleField) binding()             {}

// ApplyBindings applies computed outputs onto a clone of the scene. Outputs
// missing from results contribute nothing; missing binding targets are
// errors because the caller named a node/material that must exist.
func ApplyBindings(sc *scene.Scene, results map[string]Value, bindings []Binding) (*scene.Scene, error) {
	out := sc.Clone()
	for _, b := range bindings {
		v, ok := results[b.OutputName()]
		if !ok {
			continue
		}
		if err := applyBinding(out, v, b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func applyBinding(sc *scene.Scene, v Value, b Binding) error {
	switch k := b.(type) {
	case NodePositionY:
		n := sc.FindNode(k.Node)
		if n == nil {
			return errors.Errorf("binding %q: node %q not found", k.Output, k.Node)
		}
		n.Transform.Position[1] = ScalarOf(v)

	case NodeScaleUniform:
		n := sc.FindNode(k.Node)
		if n == nil {
			return errors.Errorf("binding %q: node %q not found", k.Output, k.Node)
		}
		s := ScalarOf(v)
		n.Transform.Scale = mgl32.Vec3{s, s, s}

	case MaterialColor:
		m := sc.MaterialByID(k.Material)
		if m == nil {
			return errors.Errorf("binding %q: material %q not found", k.Output, k.Material)
		}
		m.SetBaseColor(colorOf(v))

	case CameraDistance:
		if sc.Camera == nil {
			return errors.Errorf("binding %q: scene %q has no camera", k.Output, sc.ID)
		}
		cam := sc.Camera
		dir := cam.Position.Sub(cam.Target)
		if dir.Len() == 0 {
			return nil
		}
		cam.Position = cam.Target.Add(utils.SafeNormalize(dir).Mul(ScalarOf(v)))

	case AvatarStyleField:
		n := sc.FindNode(k.Node)
		if n == nil {
			return errors.Errorf("binding %q: node %q not found", k.Output, k.Node)
		}
		style, ok := n.Meta[scene.MetaStyle].(map[string]interface{})
		if !ok {
			style = make(map[string]interface{})
		}
		style[k.Field] = ScalarOf(v)
		n.SetMeta(scene.MetaStyle, style)
		n.SetMeta(scene.MetaStyleDirty, true)
	}
	return nil
}

// colorOf maps a value onto an RGBA color: vectors are RGB with alpha 1,
// scalars are grayscale.
func colorOf(v Value) mgl32.Vec4 {
	if isVectorValued(v) {
		rgb := VectorOf(v)
		return mgl32.Vec4{rgb[0], rgb[1], rgb[2], 1}
	}
	s := ScalarOf(v)
	return mgl32.Vec4{s, s, s, 1}
}
