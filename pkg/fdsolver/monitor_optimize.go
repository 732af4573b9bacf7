package fdsolver

// ObjectiveMonitor implements optimization on top of plain enumeration:
// each accepted solution becomes the incumbent, and any later solution at
// the same or worse objective value is rejected, so every accepted solution
// improves on the previous one and Best is the optimum once the tree is
// exhausted. It does not tighten the objective variable's domain, so
// subtrees that cannot beat the incumbent are still searched. Minimize and
// maximize share the same mechanism with the comparison flipped.
type ObjectiveMonitor struct {
	EmbeddableMonitor

	obj      *IntVar
	minimize bool

	hasIncumbent bool
	best         int64
}

// NewObjectiveMonitor builds a branch-and-bound monitor over obj. minimize
// selects the improvement direction.
func NewObjectiveMonitor(obj *IntVar, minimize bool) *ObjectiveMonitor {
	return &ObjectiveMonitor{obj: obj, minimize: minimize}
}

// HasIncumbent and Best report the best solution seen so far, valid only
// after at least one AtSolution call.
func (m *ObjectiveMonitor) HasIncumbent() bool { return m.hasIncumbent }
func (m *ObjectiveMonitor) Best() int64        { return m.best }

func (m *ObjectiveMonitor) AtSolution(s *Solver) bool {
	v := m.obj.Value()
	if m.hasIncumbent && ((m.minimize && v >= m.best) || (!m.minimize && v <= m.best)) {
		return false
	}
	m.hasIncumbent = true
	m.best = v
	return true
}
