package fdsolver

// Assignment is a snapshot of every variable's bound value at an AtSolution
// state, keyed by variable name. It outlives the search: unlike the live
// IntVars it is copied from, an Assignment is never undone by backtracking.
type Assignment map[string]int64

func (s *Solver) snapshotAssignment() Assignment {
	a := make(Assignment, len(s.vars))
	for _, v := range s.vars {
		if v.Bound() {
			a[v.Name()] = v.Value()
		}
	}
	return a
}

// Value looks up a variable's value in the assignment by name, returning
// (0, false) if absent.
func (a Assignment) Value(name string) (int64, bool) {
	v, ok := a[name]
	return v, ok
}
