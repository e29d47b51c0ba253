package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Walk visits every node depth-first in child order, passing the ancestor
// chain (root first, excluding the node itself). The traversal uses an
// explicit stack so rigs hundreds of bones deep cannot exhaust the goroutine
// stack. Returning false from visit stops the walk.
func (s *Scene) Walk(visit func(n *Node, ancestors []*Node) bool) {
	type frame struct {
		node  *Node
		depth int
	}
	stack := make([]frame, 0, 64)
	for i := len(s.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{s.Roots[i], 0})
	}
	chain := make([]*Node, 0, 32)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		chain = chain[:f.depth]
		if !visit(f.node, chain) {
			return
		}
		chain = append(chain, f.node)
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
}

// WalkWorld visits every node with its composed world matrix.
func (s *Scene) WalkWorld(visit func(n *Node, world mgl32.Mat4) bool) {
	type frame struct {
		node   *Node
		parent mgl32.Mat4
	}
	stack := make([]frame, 0, 64)
	for i := len(s.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{s.Roots[i], mgl32.Ident4()})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		world := f.parent.Mul4(f.node.Transform.Mat4())
		if !visit(f.node, world) {
			return
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], world})
		}
	}
}

// FindNode returns the node with the given id, or nil. Absence is not an
// error for queries.
func (s *Scene) FindNode(id string) *Node {
	var found *Node
	s.Walk(func(n *Node, _ []*Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Parent returns the parent of the node with the given id, or nil for roots
// and unknown ids.
func (s *Scene) Parent(id string) *Node {
	var parent *Node
	s.Walk(func(n *Node, ancestors []*Node) bool {
		if n.ID == id {
			if len(ancestors) > 0 {
				parent = ancestors[len(ancestors)-1]
			}
			return false
		}
		return true
	})
	return parent
}

// WorldTransform composes the node's local matrix with every ancestor's.
// Root nodes use identity as the implicit parent. The second return is false
// when the node is not in the scene.
func (s *Scene) WorldTransform(id string) (mgl32.Mat4, bool) {
	world := mgl32.Ident4()
	ok := false
	s.WalkWorld(func(n *Node, w mgl32.Mat4) bool {
		if n.ID == id {
			world, ok = w, true
			return false
		}
		return true
	})
	return world, ok
}

// WorldPosition returns the world-space origin of the node.
func (s *Scene) WorldPosition(id string) (mgl32.Vec3, bool) {
	w, ok := s.WorldTransform(id)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return w.Col(3).Vec3(), true
}

// Flatten returns every node in depth-first order.
func (s *Scene) Flatten() []*Node {
	out := make([]*Node, 0, 32)
	s.Walk(func(n *Node, _ []*Node) bool {
		out = append(out, n)
		return true
	})
	return out
}
