package constraints_test

import (
	"fmt"

	"github.com/gitrdm/gokanfd/pkg/constraints"
	"github.com/gitrdm/gokanfd/pkg/fdsolver"
)

// ExampleAllDifferent enumerates every 3-permutation of {1,2,3} using
// AllDifferent's forward-checking propagator.
func ExampleAllDifferent() {
	s := fdsolver.NewSolver()
	vars := make([]*fdsolver.IntVar, 3)
	for i := range vars {
		vars[i] = s.NewIntVar(fmt.Sprintf("v%d", i), 1, 3)
	}
	s.AddConstraint(constraints.NewAllDifferent(vars))

	solutions := s.Solve(fdsolver.NewFirstUnboundMin(vars), 0)
	fmt.Println(len(solutions))
	// Output: 6
}

// ExampleNewLinearSum posts weights·picks = total and reads back the only
// combination that satisfies it once two of the three variables are bound.
func ExampleNewLinearSum() {
	s := fdsolver.NewSolver()
	a := s.NewIntVar("a", 0, 3)
	b := s.NewIntVar("b", 0, 3)
	total := s.NewIntVar("total", 5, 5)

	sum, err := constraints.NewLinearSum([]*fdsolver.IntVar{a, b}, []int64{1, 1}, total)
	if err != nil {
		fmt.Println(err)
		return
	}
	s.AddConstraint(sum)

	a.SetValue(2)
	s.Propagate()
	fmt.Println(b.Min(), b.Max())
	// Output: 3 3
}
