package curve

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/polyforge/scenekit/utils"
)

// ControlPoint is a weighted NURBS control point.
type ControlPoint struct {
	Point  mgl32.Vec3
	Weight float32
}

// NURBSCurve is a rational B-spline curve. The knot vector must be
// nondecreasing with len(Knots) == len(Control) + Degree + 1 (The NURBS Book
// relation between degree, control count and knot count).
type NURBSCurve struct {
	Degree  int
	Knots   []float32
	Control []ControlPoint
}

func (c *NURBSCurve) Validate() error {
	if c.Degree < 1 {
		return errors.Errorf("nurbs curve degree %d is not positive", c.Degree)
	}
	if len(c.Control) < c.Degree+1 {
		return errors.Errorf("nurbs curve needs at least %d control points for degree %d, got %d",
			c.Degree+1, c.Degree, len(c.Control))
	}
	if len(c.Knots) != len(c.Control)+c.Degree+1 {
		return errors.Errorf("nurbs curve knot count %d != control %d + degree %d + 1",
			len(c.Knots), len(c.Control), c.Degree)
	}
	for i := 1; i < len(c.Knots); i++ {
		if c.Knots[i] < c.Knots[i-1] {
			return errors.Errorf("nurbs curve knot vector decreases at index %d", i)
		}
	}
	return nil
}

// Point evaluates the curve. The normalized parameter is remapped into the
// valid knot domain [knots[degree], knots[n-degree]].
func (c *NURBSCurve) Point(t float32) mgl32.Vec3 {
	if len(c.Control) == 0 {
		return mgl32.Vec3{}
	}
	lo := c.Knots[c.Degree]
	hi := c.Knots[len(c.Knots)-1-c.Degree]
	u := lo + utils.Clamp01(t)*(hi-lo)

	n := len(c.Control) - 1
	span := findSpan(n, c.Degree, u, c.Knots)
	basis := basisFuns(span, u, c.Degree, c.Knots)

	var acc mgl32.Vec3
	var wsum float32
	for i := 0; i <= c.Degree; i++ {
		cp := c.Control[span-c.Degree+i]
		bw := basis[i] * cp.Weight
		acc = acc.Add(cp.Point.Mul(bw))
		wsum += bw
	}
	// Dividing by a weight sum of exactly 1 only adds rounding noise, and a
	// zero sum (all-zero weights) must not divide at all.
	if wsum != 0 && wsum != 1 {
		acc = acc.Mul(1 / wsum)
	}
	return acc
}

// findSpan locates the knot span containing u (The NURBS Book A2.1).
// n is the highest control point index.
func findSpan(n, degree int, u float32, knots []float32) int {
	if u >= knots[n+1] {
		return n
	}
	if u <= knots[degree] {
		return degree
	}
	low, high := degree, n+1
	mid := (low + high) / 2
	for u < knots[mid] || u >= knots[mid+1] {
		if u < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// basisFuns computes the degree+1 non-vanishing basis function values at u
// for the given span (The NURBS Book A2.2, Cox-de Boor triangular table).
func basisFuns(span int, u float32, degree int, knots []float32) []float32 {
	out := make([]float32, degree+1)
	left := make([]float32, degree+1)
	right := make([]float32, degree+1)
	out[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		saved := float32(0)
		for r := 0; r < j; r++ {
			temp := out[r] / (right[r+1] + left[j-r])
			out[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		out[j] = saved
	}
	return out
}
