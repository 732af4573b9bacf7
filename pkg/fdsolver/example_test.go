package fdsolver_test

import (
	"fmt"

	"github.com/gitrdm/gokanfd/pkg/fdsolver"
)

// ExampleSolver_Solve builds two variables bound apart by a hand-rolled
// disequality constraint and enumerates every solution.
func ExampleSolver_Solve() {
	s := fdsolver.NewSolver()
	a := s.NewIntVar("a", 1, 2)
	b := s.NewIntVar("b", 1, 2)

	notEqual := &fdsolver.ConstraintFunc{
		PostFunc: func(s *fdsolver.Solver) {
			demon := s.MakeDemon("notEqual", fdsolver.PriorityNormal, func(s *fdsolver.Solver) error {
				if a.Bound() && b.Bound() && a.Value() == b.Value() {
					return fdsolver.ErrDomainEmpty
				}
				return nil
			})
			a.When(fdsolver.EventBound, demon)
			b.When(fdsolver.EventBound, demon)
		},
		InitialFunc: func(s *fdsolver.Solver) {},
	}
	s.AddConstraint(notEqual)

	builder := fdsolver.NewFirstUnboundMin([]*fdsolver.IntVar{a, b})
	solutions := s.Solve(builder, 0)
	fmt.Println(len(solutions))
	// Output: 2
}

// ExampleSolver_AddConstraint shows that posting a constraint against an
// already-unsatisfiable pair of singleton domains leaves the Solver
// permanently Infeasible rather than panicking, and that Solve then
// returns no solutions.
func ExampleSolver_AddConstraint() {
	s := fdsolver.NewSolver()
	a := s.NewIntVar("a", 1, 1)
	b := s.NewIntVar("b", 1, 1)

	bindSame := fdsolver.ConstraintFunc{
		PostFunc: func(s *fdsolver.Solver) {},
		InitialFunc: func(s *fdsolver.Solver) {
			b.SetValue(a.Value())
			b.RemoveValue(a.Value())
		},
	}
	s.AddConstraint(&bindSame)

	fmt.Println(s.State())
	solutions := s.Solve(fdsolver.NewFirstUnboundMin([]*fdsolver.IntVar{a, b}), 0)
	fmt.Println(len(solutions))
	// Output:
	// Infeasible
	// 0
}
