package fdsolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// allDifferentConstraint lets the tests below exercise the full kernel loop
// (Post, InitialPropagate, Queue fixpoint, search, backtrack) using the
// simplest global constraint expressible with only fdsolver's own primitives.
func allDifferentConstraint(vars []*IntVar) Constraint {
	c := &ConstraintFunc{}
	c.PostFunc = func(s *Solver) {
		for i, v := range vars {
			i := i
			d := s.MakeDemon("alldiff", PriorityNormal, func(s *Solver) error {
				if !vars[i].Bound() {
					return nil
				}
				val := vars[i].Value()
				for j, other := range vars {
					if j == i {
						continue
					}
					other.RemoveValue(val)
				}
				return nil
			})
			v.When(EventBound, d)
		}
	}
	c.InitialFunc = func(s *Solver) {
		for i, v := range vars {
			if !v.Bound() {
				continue
			}
			val := v.Value()
			for j, other := range vars {
				if j == i {
					continue
				}
				other.RemoveValue(val)
			}
		}
	}
	return c
}

func TestThreeVarAllDifferentFindsAllSolutions(t *testing.T) {
	s := NewSolver()
	a := s.NewIntVar("a", 1, 3)
	b := s.NewIntVar("b", 1, 3)
	c := s.NewIntVar("c", 1, 3)
	s.AddConstraint(allDifferentConstraint([]*IntVar{a, b, c}))

	builder := NewFirstUnboundMin([]*IntVar{a, b, c})
	solutions := s.Solve(builder, 0)

	require.Len(t, solutions, 6, "3 distinct values over 3 slots have 3! permutations")
	seen := map[[3]int64]bool{}
	for _, sol := range solutions {
		av, _ := sol.Value("a")
		bv, _ := sol.Value("b")
		cv, _ := sol.Value("c")
		require.NotEqual(t, av, bv)
		require.NotEqual(t, av, cv)
		require.NotEqual(t, bv, cv)
		seen[[3]int64{av, bv, cv}] = true
	}
	require.Len(t, seen, 6)
}

func TestInfeasibleModelYieldsNoSolutions(t *testing.T) {
	s := NewSolver()
	a := s.NewIntVar("a", 1, 1)
	b := s.NewIntVar("b", 1, 1)
	s.AddConstraint(allDifferentConstraint([]*IntVar{a, b}))

	builder := NewFirstUnboundMin([]*IntVar{a, b})
	solutions := s.Solve(builder, 0)
	require.Empty(t, solutions)
}

func TestBacktrackingSequenceRestoresDomains(t *testing.T) {
	s := NewSolver()
	a := s.NewIntVar("a", 1, 2)
	b := s.NewIntVar("b", 1, 2)
	s.AddConstraint(allDifferentConstraint([]*IntVar{a, b}))

	s.NewSearch(NewFirstUnboundMin([]*IntVar{a, b}))
	require.True(t, s.NextSolution())
	first := s.snapshotAssignment()

	require.True(t, s.NextSolution())
	second := s.snapshotAssignment()
	require.NotEqual(t, first, second)

	require.False(t, s.NextSolution())
	s.EndSearch()
	require.Equal(t, OutsideSearch, s.State())
}

func TestReversibilityStressManyBacktracks(t *testing.T) {
	s := NewSolver()
	vars := make([]*IntVar, 4)
	for i := range vars {
		vars[i] = s.NewIntVar("v", 1, 4)
	}
	s.AddConstraint(allDifferentConstraint(vars))

	solutions := s.Solve(NewFirstUnboundMin(vars), 0)
	require.Len(t, solutions, 24, "4! permutations")
}

func TestLimitMonitorStopsSearch(t *testing.T) {
	s := NewSolver()
	vars := make([]*IntVar, 4)
	for i := range vars {
		vars[i] = s.NewIntVar("v", 1, 4)
	}
	s.AddConstraint(allDifferentConstraint(vars))
	s.SetLimit(NewLimitMonitor(0, 0, 3))

	solutions := s.Solve(NewFirstUnboundMin(vars), 0)
	require.Len(t, solutions, 3)
}

func TestObjectiveMonitorFindsOptimum(t *testing.T) {
	s := NewSolver()
	a := s.NewIntVar("a", 1, 5)
	b := s.NewIntVar("b", 1, 5)
	obj := s.NewIntVar("obj", 0, 10)

	sumConstraint := &ConstraintFunc{}
	sumConstraint.PostFunc = func(s *Solver) {
		fn := func(s *Solver) error {
			obj.SetRange(a.Min()+b.Min(), a.Max()+b.Max())
			return nil
		}
		d := s.MakeDemon("sum", PriorityNormal, fn)
		a.When(EventBoundTightenedMin, d)
		a.When(EventBoundTightenedMax, d)
		b.When(EventBoundTightenedMin, d)
		b.When(EventBoundTightenedMax, d)
	}
	sumConstraint.InitialFunc = func(s *Solver) {
		obj.SetRange(a.Min()+b.Min(), a.Max()+b.Max())
	}
	s.AddConstraint(sumConstraint)

	om := NewObjectiveMonitor(obj, true)
	s.AddMonitor(om)
	s.Solve(NewFirstUnboundMin([]*IntVar{a, b}), 0)

	require.True(t, om.HasIncumbent())
	require.Equal(t, int64(2), om.Best())
}

func TestCheckAssignmentRequiresAllBound(t *testing.T) {
	s := NewSolver()
	a := s.NewIntVar("a", 1, 3)
	s.NewIntVar("b", 1, 3)
	require.False(t, s.CheckAssignment())
	a.SetValue(1)
}
