package scene

import (
	"github.com/pkg/errors"
)

// Scene is the aggregate the whole kernel operates on: a forest of nodes plus
// flat mesh/material pools referenced by id. Scenes are value-like; mutating
// operations clone first and return the new state.
type Scene struct {
	ID          string
	Roots       []*Node
	Meshes      []*Mesh
	Materials   []*Material
	Camera      *Camera
	Lights      []Light
	Constraints []Constraint
	History     []ConstructionOp
	Environment map[string]interface{}
}

func NewScene(id string) *Scene {
	return &Scene{ID: id}
}

func (s *Scene) MeshByID(id string) *Mesh {
	for _, m := range s.Meshes {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Scene) MaterialByID(id string) *Material {
	for _, m := range s.Materials {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// AddMesh registers a mesh after validating its invariants.
func (s *Scene) AddMesh(m *Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if s.MeshByID(m.ID) != nil {
		return errors.Errorf("mesh %q already registered", m.ID)
	}
	s.Meshes = append(s.Meshes, m)
	return nil
}

func (s *Scene) AddMaterial(m *Material) error {
	if m.ID == "" {
		return errors.Errorf("material has no id")
	}
	if s.MaterialByID(m.ID) != nil {
		return errors.Errorf("material %q already registered", m.ID)
	}
	s.Materials = append(s.Materials, m)
	return nil
}

// AddNode attaches n under the parent with the given id, or as a new root
// when parentID is empty. Missing parents are an error: the caller asked for
// a specific attachment point that does not exist.
func (s *Scene) AddNode(parentID string, n *Node) error {
	if n.ID == "" {
		return errors.Errorf("node has no id")
	}
	if s.FindNode(n.ID) != nil {
		return errors.Errorf("node %q already in scene", n.ID)
	}
	if parentID == "" {
		s.Roots = append(s.Roots, n)
		return nil
	}
	parent := s.FindNode(parentID)
	if parent == nil {
		return errors.Errorf("parent node %q not found", parentID)
	}
	parent.AddChild(n)
	return nil
}

// UpdateTransform replaces the transform of an existing node.
func (s *Scene) UpdateTransform(id string, t Transform) error {
	n := s.FindNode(id)
	if n == nil {
		return errors.Errorf("node %q not found", id)
	}
	n.Transform = t
	return nil
}

// RemoveNode detaches the node (and its subtree) from the forest.
func (s *Scene) RemoveNode(id string) error {
	for i, r := range s.Roots {
		if r.ID == id {
			s.Roots = append(s.Roots[:i], s.Roots[i+1:]...)
			return nil
		}
	}
	var parent *Node
	idx := -1
	s.Walk(func(n *Node, _ []*Node) bool {
		for i, c := range n.Children {
			if c.ID == id {
				parent, idx = n, i
				return false
			}
		}
		return true
	})
	if parent == nil {
		return errors.Errorf("node %q not found", id)
	}
	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	return nil
}

// NodeCount returns the number of nodes in the forest.
func (s *Scene) NodeCount() int {
	count := 0
	s.Walk(func(*Node, []*Node) bool {
		count++
		return true
	})
	return count
}
