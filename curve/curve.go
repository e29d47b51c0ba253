// Package curve evaluates polyline, Bezier and NURBS curves and NURBS
// surfaces, and tessellates them into line/triangle meshes. It shares the
// scene vector primitives but is otherwise independent of the scene graph.
package curve

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyforge/scenekit/utils"
)

// Curve maps a normalized parameter t in [0,1] to a 3D point. Evaluation at
// t=0 and t=1 returns the first/last control point exactly for every kind.
type Curve interface {
	Point(t float32) mgl32.Vec3
}

// Polyline interpolates linearly over its points with uniform segment
// parameterization: the integer part of t*(n-1) selects the segment, the
// fraction interpolates within it.
type Polyline struct {
	Points []mgl32.Vec3
}

func (p *Polyline) Point(t float32) mgl32.Vec3 {
	switch len(p.Points) {
	case 0:
		return mgl32.Vec3{}
	case 1:
		return p.Points[0]
	}
	t = utils.Clamp01(t)
	f := t * float32(len(p.Points)-1)
	i := int(f)
	if i >= len(p.Points)-1 {
		return p.Points[len(p.Points)-1]
	}
	frac := f - float32(i)
	a, b := p.Points[i], p.Points[i+1]
	return a.Add(b.Sub(a).Mul(frac))
}

// Bezier evaluates an arbitrary-degree Bezier curve with de Casteljau's
// algorithm on a working copy of the control points.
type Bezier struct {
	Control []mgl32.Vec3
}

func (b *Bezier) Point(t float32) mgl32.Vec3 {
	switch len(b.Control) {
	case 0:
		return mgl32.Vec3{}
	case 1:
		return b.Control[0]
	}
	t = utils.Clamp01(t)
	work := append([]mgl32.Vec3(nil), b.Control...)
	for k := len(work) - 1; k > 0; k-- {
		for i := 0; i < k; i++ {
			work[i] = work[i].Mul(1 - t).Add(work[i+1].Mul(t))
		}
	}
	return work[0]
}
