package scene

// ConstructionOp is one entry of the append-only construction history kept
// for provenance and debugging. The kernel records ops but never replays
// them.
type ConstructionOp struct {
	Op     string
	Target string
	Args   map[string]interface{}
}

// RecordOp appends a construction op to the history.
func (s *Scene) RecordOp(op, target string, args map[string]interface{}) {
	s.History = append(s.History, ConstructionOp{Op: op, Target: target, Args: args})
}
