package paramgraph

import (
	"sort"

	"github.com/pkg/errors"
)

// OpKind enumerates the closed set of operator kinds.
type OpKind int

const (
	OpConstant OpKind = iota
	OpInput
	OpAdd
	OpMultiply
	OpRemap
	OpClamp
	OpVectorCompose
	OpGrid2D
	OpRandomFloat
	OpNoise1D
)

var opKindNames = map[OpKind]string{
	OpConstant:      "CONSTANT",
	OpInput:         "INPUT",
	OpAdd:           "ADD",
	OpMultiply:      "MULTIPLY",
	OpRemap:         "REMAP",
	OpClamp:         "CLAMP",
	OpVectorCompose: "VECTOR_COMPOSE",
	OpGrid2D:        "GRID_2D",
	OpRandomFloat:   "RANDOM_FLOAT",
	OpNoise1D:       "NOISE_1D",
}

func (k OpKind) String() string {
	if s, ok := opKindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// OpKindFromName resolves the wire name of an operator kind.
func OpKindFromName(name string) (OpKind, error) {
	for k, n := range opKindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown param op kind %q", name)
}

// Node is one operator of the graph. Inputs maps slot names to producing
// node ids; Params holds kind-specific static parameters.
type Node struct {
	ID     string
	Kind   OpKind
	Inputs map[string]string
	Params map[string]float32
}

func (n *Node) param(key string, def float32) float32 {
	if v, ok := n.Params[key]; ok {
		return v
	}
	return def
}

// Graph is a set of operator nodes with externally exposed named inputs and
// outputs (both maps of exposed name to node id).
type Graph struct {
	Nodes   map[string]*Node
	Inputs  map[string]string
	Outputs map[string]string
}

func NewGraph() *Graph {
	return &Graph{
		Nodes:   make(map[string]*Node),
		Inputs:  make(map[string]string),
		Outputs: make(map[string]string),
	}
}

func (g *Graph) Add(n *Node) *Graph {
	g.Nodes[n.ID] = n
	return g
}

// Evaluate resolves every exposed output, honoring overrides keyed by
// exposed input name. Evaluation never fails: missing producers contribute
// zero and cycles break to an uncached 0.0.
func (g *Graph) Evaluate(overrides map[string]Value) map[string]Value {
	ev := &evaluator{
		graph:     g,
		memo:      make(map[string]Value),
		visiting:  make(map[string]bool),
		overrides: make(map[string]Value),
	}
	// route exposed-name overrides to their input nodes
	for name, nodeID := range g.Inputs {
		if v, ok := overrides[name]; ok {
			ev.overrides[nodeID] = v
		}
	}
	out := make(map[string]Value, len(g.Outputs))
	for name, nodeID := range g.Outputs {
		out[name] = ev.resolve(nodeID)
	}
	return out
}

// Validate reports true dependency cycles explicitly. Evaluation tolerates
// them silently; this exists so authoring surfaces can warn instead of
// shipping graphs that quietly produce zeros.
func (g *Graph) Validate() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.Nodes))

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var visit func(id string) error
	visit = func(id string) error {
		n, ok := g.Nodes[id]
		if !ok {
			return nil
		}
		switch color[id] {
		case gray:
			return errors.Errorf("param graph cycle through node %q", id)
		case black:
			return nil
		}
		color[id] = gray
		slots := make([]string, 0, len(n.Inputs))
		for slot := range n.Inputs {
			slots = append(slots, slot)
		}
		sort.Strings(slots)
		for _, slot := range slots {
			if err := visit(n.Inputs[slot]); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

type evaluator struct {
	graph     *Graph
	memo      map[string]Value
	visiting  map[string]bool
	overrides map[string]Value // keyed by node id
}

// resolve computes a node's value with memoization. A node seen while it is
// still being resolved is a cycle; it yields a neutral 0.0 that is not
// cached, so other paths to the node still evaluate normally.
func (ev *evaluator) resolve(id string) Value {
	if v, ok := ev.memo[id]; ok {
		return v
	}
	if ev.visiting[id] {
		return Scalar(0)
	}
	n, ok := ev.graph.Nodes[id]
	if !ok {
		return Scalar(0)
	}
	ev.visiting[id] = true
	v := ev.applyOp(n)
	delete(ev.visiting, id)
	ev.memo[id] = v
	return v
}

func (ev *evaluator) input(n *Node, slot string) Value {
	producer, ok := n.Inputs[slot]
	if !ok {
		return Scalar(0)
	}
	return ev.resolve(producer)
}
