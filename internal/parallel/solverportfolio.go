package parallel

import (
	"context"

	"github.com/gitrdm/gokanfd/pkg/fdsolver"
)

// SolverFactory builds one portfolio member's solver and decision builder.
// Each call must return a fresh Solver; factories are typically closures
// over a shared model-building function with a different random seed or
// variable ordering baked in per member.
type SolverFactory func() (*fdsolver.Solver, fdsolver.DecisionBuilder)

// SolveWorker adapts a SolverFactory into a Worker that returns the first
// solution its solver finds. The ctx is honored by calling InterruptSolve
// when it is cancelled, so a winning sibling stops the rest of the
// portfolio at their next node boundary instead of letting them search on.
func SolveWorker(factory SolverFactory) Worker[fdsolver.Assignment] {
	return func(ctx context.Context) (fdsolver.Assignment, bool, error) {
		s, builder := factory()

		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				s.InterruptSolve()
			case <-done:
			}
		}()

		s.NewSearch(builder)
		defer s.EndSearch()
		if !s.NextSolution() {
			return nil, false, nil
		}
		return s.CurrentAssignment(), true, nil
	}
}

// RacePortfolio runs one independent solver per factory and returns the
// first solution found across the whole portfolio.
func RacePortfolio(ctx context.Context, factories []SolverFactory) (fdsolver.Assignment, bool, *PortfolioStats, error) {
	stats := NewPortfolioStats()
	workers := make([]Worker[fdsolver.Assignment], len(factories))
	for i, f := range factories {
		workers[i] = SolveWorker(f)
	}
	result, found, err := Race(ctx, stats, workers)
	return result, found, stats, err
}
