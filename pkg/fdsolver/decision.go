package fdsolver

import "strconv"

// Decision is one branch point in the search tree: applying it tightens the
// model toward a value, refuting it tightens the model away from that
// value. The search driver owns choosing which half to try first and the
// bookkeeping to retry the other half after a Fail; Decision itself is pure
// domain surgery.
type Decision interface {
	// Apply performs the "try this" branch, e.g. var == value.
	Apply(s *Solver)
	// Refute performs the complementary branch, e.g. var != value.
	Refute(s *Solver)
	// String names the decision for tracing/monitors.
	String() string
}

// DecisionBuilder produces the sequence of Decisions that make up a search.
// Next is called repeatedly by the search driver; it returns ok == false
// once the builder has nothing left to branch on, at which point the
// current state is a solution candidate.
type DecisionBuilder interface {
	Next(s *Solver) (dec Decision, ok bool)
}

// assignDecision implements the classic var == value / var != value split.
type assignDecision struct {
	v   *IntVar
	val int64
}

func (d *assignDecision) Apply(s *Solver)  { d.v.SetValue(d.val) }
func (d *assignDecision) Refute(s *Solver) { d.v.RemoveValue(d.val) }
func (d *assignDecision) String() string   { return d.v.Name() + "==" + strconv.FormatInt(d.val, 10) }

// splitDecision implements a domain-splitting branch: try the lower half
// first, then the upper half. Used by decision builders that bisect large
// domains rather than enumerating every value.
type splitDecision struct {
	v   *IntVar
	mid int64
}

func (d *splitDecision) Apply(s *Solver)  { d.v.SetMax(d.mid) }
func (d *splitDecision) Refute(s *Solver) { d.v.SetMin(d.mid + 1) }
func (d *splitDecision) String() string   { return d.v.Name() + "<=" + strconv.FormatInt(d.mid, 10) }
