package paramgraph

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/polyforge/scenekit/utils"
)

func (ev *evaluator) applyOp(n *Node) Value {
	switch n.Kind {
	case OpConstant:
		return Scalar(n.param("value", 0))

	case OpInput:
		if v, ok := ev.overrides[n.ID]; ok {
			return v
		}
		return Scalar(n.param("default", 0))

	case OpAdd:
		return binaryOp(ev.input(n, "a"), ev.input(n, "b"), func(a, b float32) float32 { return a + b })

	case OpMultiply:
		return binaryOp(ev.input(n, "a"), ev.input(n, "b"), func(a, b float32) float32 { return a * b })

	case OpRemap:
		inLo := n.param("in_lo", 0)
		inHi := n.param("in_hi", 1)
		outLo := n.param("out_lo", 0)
		outHi := n.param("out_hi", 1)
		return mapElements(ev.input(n, "value"), func(v float32) float32 {
			span := inHi - inLo
			if math32.Abs(span) < 1e-9 {
				// degenerate input range collapses to the output's lower bound
				return outLo
			}
			return utils.Lerp(outLo, outHi, (v-inLo)/span)
		})

	case OpClamp:
		lo := n.param("min", 0)
		hi := n.param("max", 1)
		return mapElements(ev.input(n, "value"), func(v float32) float32 {
			if v < lo {
				return lo
			}
			if v > hi {
				return hi
			}
			return v
		})

	case OpVectorCompose:
		return vectorCompose(ev.input(n, "x"), ev.input(n, "y"), ev.input(n, "z"))

	case OpGrid2D:
		return grid2D(n)

	case OpRandomFloat:
		return randomFloats(n)

	case OpNoise1D:
		freq := n.param("frequency", 1)
		amp := n.param("amplitude", 1)
		return mapElements(ev.input(n, "t"), func(v float32) float32 {
			return noise1D(v, freq, amp)
		})

	default:
		return Scalar(0)
	}
}

// binaryOp applies f element-wise with hold-last broadcasting. Vector-valued
// operands promote both sides to vector lists and apply f per component.
func binaryOp(a, b Value, f func(x, y float32) float32) Value {
	if isVectorValued(a) || isVectorValued(b) {
		va, aSingle := vectors(a)
		vb, bSingle := vectors(b)
		n := len(va)
		if len(vb) > n {
			n = len(vb)
		}
		out := make([]mgl32.Vec3, n)
		for i := 0; i < n; i++ {
			x := holdLastVec(va, i)
			y := holdLastVec(vb, i)
			out[i] = mgl32.Vec3{f(x[0], y[0]), f(x[1], y[1]), f(x[2], y[2])}
		}
		if n == 1 && aSingle && bSingle {
			return Vector(out[0])
		}
		return Vectors(out)
	}

	sa, aScalar := scalars(a)
	sb, bScalar := scalars(b)
	if aScalar && bScalar {
		return Scalar(f(holdLast(sa, 0), holdLast(sb, 0)))
	}
	n := len(sa)
	if len(sb) > n {
		n = len(sb)
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = f(holdLast(sa, i), holdLast(sb, i))
	}
	return Sequence(out)
}

func holdLastVec(s []mgl32.Vec3, i int) mgl32.Vec3 {
	if len(s) == 0 {
		return mgl32.Vec3{}
	}
	if i >= len(s) {
		return s[len(s)-1]
	}
	return s[i]
}

// mapElements applies f to every scalar element, preserving the value shape.
func mapElements(v Value, f func(float32) float32) Value {
	switch t := v.(type) {
	case Scalar:
		return Scalar(f(float32(t)))
	case Sequence:
		out := make([]float32, len(t))
		for i, e := range t {
			out[i] = f(e)
		}
		return Sequence(out)
	case Vector:
		return Vector{f(t[0]), f(t[1]), f(t[2])}
	case Vectors:
		out := make([]mgl32.Vec3, len(t))
		for i, e := range t {
			out[i] = mgl32.Vec3{f(e[0]), f(e[1]), f(e[2])}
		}
		return Vectors(out)
	default:
		return Scalar(0)
	}
}

func vectorCompose(x, y, z Value) Value {
	sx, xScalar := scalars(x)
	sy, yScalar := scalars(y)
	sz, zScalar := scalars(z)
	if xScalar && yScalar && zScalar {
		return Vector{holdLast(sx, 0), holdLast(sy, 0), holdLast(sz, 0)}
	}
	n := len(sx)
	if len(sy) > n {
		n = len(sy)
	}
	if len(sz) > n {
		n = len(sz)
	}
	out := make([]mgl32.Vec3, n)
	for i := 0; i < n; i++ {
		out[i] = mgl32.Vec3{holdLast(sx, i), holdLast(sy, i), holdLast(sz, i)}
	}
	return Vectors(out)
}

// grid2D produces a rows x cols point grid on the XZ plane centered at the
// origin.
func grid2D(n *Node) Value {
	rows := int(n.param("rows", 1))
	cols := int(n.param("cols", 1))
	spacing := n.param("spacing", 1)
	if rows < 1 || cols < 1 {
		return Vectors(nil)
	}
	out := make([]mgl32.Vec3, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, mgl32.Vec3{
				(float32(c) - float32(cols-1)/2) * spacing,
				0,
				(float32(r) - float32(rows-1)/2) * spacing,
			})
		}
	}
	return Vectors(out)
}

// randomFloats is deterministic per (seed, count, range).
func randomFloats(n *Node) Value {
	count := int(n.param("count", 1))
	lo := n.param("lo", 0)
	hi := n.param("hi", 1)
	if count < 1 {
		return Sequence(nil)
	}
	rng := rand.New(rand.NewSource(int64(n.param("seed", 0))))
	out := make([]float32, count)
	for i := range out {
		out[i] = lo + rng.Float32()*(hi-lo)
	}
	return Sequence(out)
}

// noise1D is a deterministic periodic stand-in with the same interface as a
// real 1D noise source, not true Perlin noise.
func noise1D(t, freq, amp float32) float32 {
	p := 2 * math32.Pi * freq * t
	return amp * (0.6*math32.Sin(p) +
		0.3*math32.Sin(2*p+1.7) +
		0.1*math32.Sin(4*p+4.2))
}
