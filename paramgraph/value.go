// Package paramgraph evaluates small dataflow graphs of operator nodes into
// named outputs and binds the results onto scene properties.
package paramgraph

import "github.com/go-gl/mathgl/mgl32"

// Value is the closed union of types flowing through the graph: a scalar, a
// scalar sequence, a vector or a vector sequence. Operators accept scalars
// wherever they accept sequences.
type Value interface {
	value()
}

type Scalar float32

type Sequence []float32

type Vector mgl32.Vec3

type Vectors []mgl32.Vec3

func (Scalar) value()   {}
func (Sequence) value() {}
func (Vector) value()   {}
func (Vectors) value()  {}

// ScalarOf unwraps a value to a single float: sequences yield their first
// element, vectors their X component. Used when a result lands on a scalar
// scene property.
func ScalarOf(v Value) float32 {
	switch t := v.(type) {
	case Scalar:
		return float32(t)
	case Sequence:
		if len(t) == 0 {
			return 0
		}
		return t[0]
	case Vector:
		return t[0]
	case Vectors:
		if len(t) == 0 {
			return 0
		}
		return t[0][0]
	default:
		return 0
	}
}

// VectorOf unwraps a value to a single vector: scalars broadcast to all
// components, sequences fill components with hold-last semantics.
func VectorOf(v Value) mgl32.Vec3 {
	switch t := v.(type) {
	case Vector:
		return mgl32.Vec3(t)
	case Vectors:
		if len(t) == 0 {
			return mgl32.Vec3{}
		}
		return t[0]
	case Scalar:
		return mgl32.Vec3{float32(t), float32(t), float32(t)}
	case Sequence:
		if len(t) == 0 {
			return mgl32.Vec3{}
		}
		var out mgl32.Vec3
		for i := 0; i < 3; i++ {
			out[i] = holdLast(t, i)
		}
		return out
	default:
		return mgl32.Vec3{}
	}
}

// holdLast indexes a sequence, repeating the final element past the end.
func holdLast(s []float32, i int) float32 {
	if len(s) == 0 {
		return 0
	}
	if i >= len(s) {
		return s[len(s)-1]
	}
	return s[i]
}

func isVectorValued(v Value) bool {
	switch v.(type) {
	case Vector, Vectors:
		return true
	}
	return false
}

// scalars converts a scalar-valued Value to a sequence plus a flag telling
// whether it was a plain scalar.
func scalars(v Value) ([]float32, bool) {
	switch t := v.(type) {
	case Scalar:
		return []float32{float32(t)}, true
	case Sequence:
		return t, false
	default:
		return nil, false
	}
}

// vectors converts any Value to a vector list plus a single-element flag.
func vectors(v Value) ([]mgl32.Vec3, bool) {
	switch t := v.(type) {
	case Vector:
		return []mgl32.Vec3{mgl32.Vec3(t)}, true
	case Vectors:
		return t, false
	case Scalar:
		f := float32(t)
		return []mgl32.Vec3{{f, f, f}}, true
	case Sequence:
		out := make([]mgl32.Vec3, len(t))
		for i, f := range t {
			out[i] = mgl32.Vec3{f, f, f}
		}
		return out, len(t) <= 1
	default:
		return nil, true
	}
}
