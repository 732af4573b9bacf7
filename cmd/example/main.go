// Package main demonstrates the finite-domain kernel through a handful of
// small models: plain search, branch-and-bound optimization, and a
// portfolio race over independent solvers.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"

	"github.com/gitrdm/gokanfd/internal/parallel"
	"github.com/gitrdm/gokanfd/pkg/constraints"
	"github.com/gitrdm/gokanfd/pkg/fdsolver"
)

func main() {
	fmt.Println("=== gokanfd examples ===")
	fmt.Println()

	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()

	nQueens(8, zl)
	knapsack()
	portfolioRace()
}

// nQueens solves the n-queens puzzle with AllDifferent over columns and
// the two diagonals, printing the first two solutions. It wires a zerolog writer
// through fdsolver.WithZerologWriter so enter_search/solution/exit_search
// events land on stderr alongside the puzzle output.
func nQueens(n int, zl zerolog.Logger) {
	fmt.Printf("1. %d-Queens:\n", n)

	s := fdsolver.NewSolver(fdsolver.WithZerologWriter(zl, logiface.LevelInformational))
	cols := make([]*fdsolver.IntVar, n)
	diagUp := make([]*fdsolver.IntVar, n)
	diagDown := make([]*fdsolver.IntVar, n)
	for i := 0; i < n; i++ {
		cols[i] = s.NewIntVar(fmt.Sprintf("col%d", i), 0, int64(n-1))
		diagUp[i] = s.NewIntVar(fmt.Sprintf("up%d", i), int64(-i), int64(n-1-i))
		diagDown[i] = s.NewIntVar(fmt.Sprintf("down%d", i), int64(i), int64(i+n-1))
	}

	s.AddConstraint(constraints.NewAllDifferent(cols))
	for i := 0; i < n; i++ {
		// diagUp[i] = cols[i] - i, diagDown[i] = cols[i] + i
		upSum, _ := constraints.NewLinearSum([]*fdsolver.IntVar{diagUp[i], cols[i]}, []int64{1, -1}, s.NewIntConst(int64(-i)))
		downSum, _ := constraints.NewLinearSum([]*fdsolver.IntVar{diagDown[i], cols[i]}, []int64{1, -1}, s.NewIntConst(int64(i)))
		s.AddConstraint(upSum)
		s.AddConstraint(downSum)
	}
	s.AddConstraint(constraints.NewAllDifferent(diagUp))
	s.AddConstraint(constraints.NewAllDifferent(diagDown))

	builder := fdsolver.NewSmallestDomainMin(cols)
	solutions := s.Solve(builder, 2)
	fmt.Printf("   found %d solution(s) (capped at 2 for brevity)\n", len(solutions))
	for _, sol := range solutions {
		row := make([]int64, n)
		for i := range row {
			v, _ := sol.Value(fmt.Sprintf("col%d", i))
			row[i] = v
		}
		fmt.Printf("   columns: %v\n", row)
	}
	fmt.Println()
}

// knapsack demonstrates branch-and-bound optimization via ObjectiveMonitor:
// pick a subset of items maximizing value subject to a weight cap.
func knapsack() {
	fmt.Println("2. 0/1 Knapsack (branch-and-bound):")

	weights := []int64{2, 3, 4, 5}
	values := []int64{3, 4, 5, 8}
	const capacity = 8

	s := fdsolver.NewSolver()
	picks := make([]*fdsolver.IntVar, len(weights))
	for i := range picks {
		picks[i] = s.NewBoolVar(fmt.Sprintf("pick%d", i))
	}
	weightTotal := s.NewIntVar("weight", 0, capacity)
	valueTotal := s.NewIntVar("value", 0, sumOf(values))

	weightSum, _ := constraints.NewLinearSum(picks, weights, weightTotal)
	valueSum, _ := constraints.NewLinearSum(picks, values, valueTotal)
	s.AddConstraint(weightSum)
	s.AddConstraint(valueSum)

	om := fdsolver.NewObjectiveMonitor(valueTotal, false)
	s.AddMonitor(om)

	builder := fdsolver.NewFirstUnboundMin(picks)
	s.Solve(builder, 0)

	fmt.Printf("   best achievable value under capacity %d: %d\n", capacity, om.Best())
	fmt.Println()
}

func sumOf(vs []int64) int64 {
	var total int64
	for _, v := range vs {
		total += v
	}
	return total
}

// portfolioRace launches three independently-seeded solvers over the same
// model (six columns under AllDifferent, with no diagonal constraints) and
// reports whichever finds a solution first.
func portfolioRace() {
	fmt.Println("3. Portfolio race (3 seeds, 6 all-different columns):")

	factory := func(seed int64) parallel.SolverFactory {
		return func() (*fdsolver.Solver, fdsolver.DecisionBuilder) {
			s := fdsolver.NewSolver(fdsolver.WithRandomSeed(seed))
			n := 6
			cols := make([]*fdsolver.IntVar, n)
			for i := range cols {
				cols[i] = s.NewIntVar(fmt.Sprintf("col%d", i), 0, int64(n-1))
			}
			s.AddConstraint(constraints.NewAllDifferent(cols))
			return s, fdsolver.NewFirstUnboundMin(cols)
		}
	}

	result, found, stats, err := parallel.RacePortfolio(context.Background(), []parallel.SolverFactory{
		factory(1), factory(2), factory(3),
	})
	if err != nil {
		fmt.Printf("   portfolio error: %v\n", err)
		return
	}
	fmt.Printf("   found=%v workers_launched=%d wall=%v\n", found, stats.Launched, stats.WallTime())
	if found {
		fmt.Printf("   one winning assignment: %v\n", result)
	}
	fmt.Println()
}
