package curve

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Curve kinds accepted by Spec.
const (
	KindPolyline = "polyline"
	KindBezier   = "bezier"
	KindNURBS    = "nurbs"
)

// WeightedPoint is the wire form of a NURBS control point. A zero weight in
// the payload is treated as "unset" and defaults to 1.
type WeightedPoint struct {
	Point  mgl32.Vec3 `json:"point"`
	Weight float32    `json:"weight,omitempty"`
}

// Spec is the declarative boundary form of a curve: a kind plus exactly one
// payload matching that kind. Build validates eagerly before any geometry is
// produced.
type Spec struct {
	Kind string `json:"kind"`

	// polyline payload
	Points []mgl32.Vec3 `json:"points,omitempty"`
	// bezier payload
	Control []mgl32.Vec3 `json:"control,omitempty"`
	// nurbs payload
	Degree   int             `json:"degree,omitempty"`
	Knots    []float32       `json:"knots,omitempty"`
	Weighted []WeightedPoint `json:"weighted,omitempty"`
}

func (s *Spec) Build() (Curve, error) {
	switch s.Kind {
	case KindPolyline:
		if len(s.Points) == 0 {
			return nil, errors.Errorf("polyline spec has no points")
		}
		if s.Control != nil || s.Weighted != nil {
			return nil, errors.Errorf("polyline spec carries a foreign payload")
		}
		return &Polyline{Points: s.Points}, nil

	case KindBezier:
		if len(s.Control) == 0 {
			return nil, errors.Errorf("bezier spec has no control points")
		}
		if s.Points != nil || s.Weighted != nil {
			return nil, errors.Errorf("bezier spec carries a foreign payload")
		}
		return &Bezier{Control: s.Control}, nil

	case KindNURBS:
		if len(s.Weighted) == 0 {
			return nil, errors.Errorf("nurbs spec has no weighted control points")
		}
		if s.Points != nil || s.Control != nil {
			return nil, errors.Errorf("nurbs spec carries a foreign payload")
		}
		c := &NURBSCurve{
			Degree:  s.Degree,
			Knots:   s.Knots,
			Control: make([]ControlPoint, len(s.Weighted)),
		}
		for i, wp := range s.Weighted {
			w := wp.Weight
			if w == 0 {
				w = 1
			}
			c.Control[i] = ControlPoint{Point: wp.Point, Weight: w}
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, errors.Errorf("unknown curve kind %q", s.Kind)
	}
}
