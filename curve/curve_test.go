package curve

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3, eps float64) {
	t.Helper()
	assert.InDelta(t, want.X(), got.X(), eps)
	assert.InDelta(t, want.Y(), got.Y(), eps)
	assert.InDelta(t, want.Z(), got.Z(), eps)
}

func quarterCircle() *NURBSCurve {
	w := float32(math.Sqrt(2) / 2)
	return &NURBSCurve{
		Degree: 2,
		Knots:  []float32{0, 0, 0, 1, 1, 1},
		Control: []ControlPoint{
			{Point: mgl32.Vec3{1, 0, 0}, Weight: 1},
			{Point: mgl32.Vec3{1, 1, 0}, Weight: w},
			{Point: mgl32.Vec3{0, 1, 0}, Weight: 1},
		},
	}
}

func TestEndpointsExactForAllKinds(t *testing.T) {
	first := mgl32.Vec3{-1, 0, 2}
	last := mgl32.Vec3{3, 1, -1}
	curves := map[string]Curve{
		"polyline": &Polyline{Points: []mgl32.Vec3{first, {0, 5, 0}, last}},
		"bezier":   &Bezier{Control: []mgl32.Vec3{first, {4, 4, 4}, {-2, 0, 1}, last}},
		"nurbs": &NURBSCurve{
			Degree: 2,
			Knots:  []float32{0, 0, 0, 0.5, 1, 1, 1},
			Control: []ControlPoint{
				{Point: first, Weight: 1},
				{Point: mgl32.Vec3{1, 2, 3}, Weight: 2},
				{Point: mgl32.Vec3{0, -1, 0}, Weight: 0.5},
				{Point: last, Weight: 1},
			},
		},
	}
	for name, c := range curves {
		t.Run(name, func(t *testing.T) {
			assertVec3(t, first, c.Point(0), 1e-4)
			assertVec3(t, last, c.Point(1), 1e-4)
		})
	}
}

func TestNURBSQuarterCircle(t *testing.T) {
	p := quarterCircle().Point(0.5)
	assert.InDelta(t, 0.7071, p.X(), 1e-4)
	assert.InDelta(t, 0.7071, p.Y(), 1e-4)

	// every sample lies on the unit circle
	c := quarterCircle()
	for i := 0; i <= 16; i++ {
		p := c.Point(float32(i) / 16)
		assert.InDelta(t, 1, math.Hypot(float64(p.X()), float64(p.Y())), 1e-4)
	}
}

func TestPolylineParameterization(t *testing.T) {
	p := &Polyline{Points: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}}
	// t=0.25 is halfway along the first of two segments
	assertVec3(t, mgl32.Vec3{0.5, 0, 0}, p.Point(0.25), 1e-5)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, p.Point(0.5), 1e-5)
	assertVec3(t, mgl32.Vec3{1, 0.5, 0}, p.Point(0.75), 1e-5)
	// out-of-range parameters clamp
	assertVec3(t, mgl32.Vec3{0, 0, 0}, p.Point(-1), 1e-5)
	assertVec3(t, mgl32.Vec3{1, 1, 0}, p.Point(2), 1e-5)
}

func TestPolylineDegenerate(t *testing.T) {
	empty := &Polyline{}
	assert.Equal(t, mgl32.Vec3{}, empty.Point(0.5))
	single := &Polyline{Points: []mgl32.Vec3{{2, 3, 4}}}
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, single.Point(0.7))
}

func TestBezierMidpointQuadratic(t *testing.T) {
	b := &Bezier{Control: []mgl32.Vec3{{0, 0, 0}, {1, 2, 0}, {2, 0, 0}}}
	// B(0.5) = 0.25 p0 + 0.5 p1 + 0.25 p2
	assertVec3(t, mgl32.Vec3{1, 1, 0}, b.Point(0.5), 1e-5)
	// evaluation must not mutate the control polygon
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, b.Control[0])
}

func TestNURBSValidate(t *testing.T) {
	c := quarterCircle()
	require.NoError(t, c.Validate())

	bad := *c
	bad.Knots = []float32{0, 0, 0, 1, 1}
	assert.Error(t, bad.Validate())

	bad = *c
	bad.Knots = []float32{0, 0, 1, 0, 1, 1}
	assert.Error(t, bad.Validate())
}

func TestSurfaceEndpointsAndCenter(t *testing.T) {
	// bilinear patch over [0,2]x[0,2]
	grid := func(x, y, z float32) ControlPoint {
		return ControlPoint{Point: mgl32.Vec3{x, y, z}, Weight: 1}
	}
	s := &NURBSSurface{
		DegreeU: 1,
		DegreeV: 1,
		KnotsU:  []float32{0, 0, 1, 1},
		KnotsV:  []float32{0, 0, 1, 1},
		Control: [][]ControlPoint{
			{grid(0, 0, 0), grid(0, 0, 2)},
			{grid(2, 0, 0), grid(2, 0, 2)},
		},
	}
	require.NoError(t, s.Validate())
	assertVec3(t, mgl32.Vec3{0, 0, 0}, s.Point(0, 0), 1e-4)
	assertVec3(t, mgl32.Vec3{2, 0, 2}, s.Point(1, 1), 1e-4)
	assertVec3(t, mgl32.Vec3{1, 0, 1}, s.Point(0.5, 0.5), 1e-4)
}

func TestTessellateCurve(t *testing.T) {
	m, err := TessellateCurve("c", &Polyline{Points: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}}, 4)
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 5)
	assert.Len(t, m.Indices, 8)
	assert.Equal(t, "curve", m.Primitive)
	require.NotNil(t, m.Bounds)

	_, err = TessellateCurve("c", &Polyline{}, 0)
	assert.Error(t, err)
}

func TestTessellateSurface(t *testing.T) {
	s := &NURBSSurface{
		DegreeU: 1,
		DegreeV: 1,
		KnotsU:  []float32{0, 0, 1, 1},
		KnotsV:  []float32{0, 0, 1, 1},
		Control: [][]ControlPoint{
			{{Point: mgl32.Vec3{0, 0, 0}, Weight: 1}, {Point: mgl32.Vec3{0, 0, 1}, Weight: 1}},
			{{Point: mgl32.Vec3{1, 0, 0}, Weight: 1}, {Point: mgl32.Vec3{1, 0, 1}, Weight: 1}},
		},
	}
	m, err := TessellateSurface("s", s, 2, 3)
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 3*4)
	assert.Len(t, m.UVs, 3*4)
	assert.Len(t, m.Indices, 2*3*6)
	require.NoError(t, m.Validate())

	_, err = TessellateSurface("s", s, 0, 3)
	assert.Error(t, err)
}

func TestSpecBuild(t *testing.T) {
	ok := &Spec{Kind: KindPolyline, Points: []mgl32.Vec3{{0, 0, 0}, {1, 1, 1}}}
	c, err := ok.Build()
	require.NoError(t, err)
	assert.IsType(t, &Polyline{}, c)

	_, err = (&Spec{Kind: KindPolyline}).Build()
	assert.Error(t, err, "empty payload")

	_, err = (&Spec{Kind: KindBezier, Control: []mgl32.Vec3{{0, 0, 0}}, Points: []mgl32.Vec3{{1, 1, 1}}}).Build()
	assert.Error(t, err, "two payloads")

	_, err = (&Spec{Kind: "spiral"}).Build()
	assert.Error(t, err, "unknown kind")

	nurbs := &Spec{
		Kind:   KindNURBS,
		Degree: 2,
		Knots:  []float32{0, 0, 0, 1, 1, 1},
		Weighted: []WeightedPoint{
			{Point: mgl32.Vec3{1, 0, 0}},
			{Point: mgl32.Vec3{1, 1, 0}, Weight: float32(math.Sqrt(2) / 2)},
			{Point: mgl32.Vec3{0, 1, 0}},
		},
	}
	c, err = nurbs.Build()
	require.NoError(t, err)
	p := c.Point(0.5)
	assert.InDelta(t, 0.7071, p.X(), 1e-4)
}
