package parallel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokanfd/internal/parallel"
	"github.com/gitrdm/gokanfd/pkg/fdsolver"
)

func allDifferentFunc(vars []*fdsolver.IntVar) fdsolver.Constraint {
	c := &fdsolver.ConstraintFunc{}
	c.PostFunc = func(s *fdsolver.Solver) {
		for i := range vars {
			i := i
			d := s.MakeDemon("alldiff", fdsolver.PriorityNormal, func(s *fdsolver.Solver) error {
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
			vars[i].When(fdsolver.EventBound, d)
		}
	}
	c.InitialFunc = func(s *fdsolver.Solver) {
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

func factoryWithSeed(seed int64) parallel.SolverFactory {
	return func() (*fdsolver.Solver, fdsolver.DecisionBuilder) {
		s := fdsolver.NewSolver(fdsolver.WithRandomSeed(seed))
		a := s.NewIntVar("a", 1, 3)
		b := s.NewIntVar("b", 1, 3)
		c := s.NewIntVar("c", 1, 3)
		s.AddConstraint(allDifferentFunc([]*fdsolver.IntVar{a, b, c}))
		return s, fdsolver.NewFirstUnboundMin([]*fdsolver.IntVar{a, b, c})
	}
}

func TestRacePortfolioFindsSolution(t *testing.T) {
	factories := []parallel.SolverFactory{
		factoryWithSeed(1),
		factoryWithSeed(2),
		factoryWithSeed(3),
	}
	result, found, stats, err := parallel.RacePortfolio(context.Background(), factories)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, result, 3)
	require.GreaterOrEqual(t, stats.Launched, int64(3))
}

func TestRacePortfolioInfeasibleYieldsNotFound(t *testing.T) {
	infeasible := func() (*fdsolver.Solver, fdsolver.DecisionBuilder) {
		s := fdsolver.NewSolver()
		a := s.NewIntVar("a", 1, 1)
		b := s.NewIntVar("b", 1, 1)
		s.AddConstraint(allDifferentFunc([]*fdsolver.IntVar{a, b}))
		return s, fdsolver.NewFirstUnboundMin([]*fdsolver.IntVar{a, b})
	}
	_, found, _, err := parallel.RacePortfolio(context.Background(), []parallel.SolverFactory{infeasible, infeasible})
	require.NoError(t, err)
	require.False(t, found)
}

func TestRacePropagatesWorkerError(t *testing.T) {
	boom := errors.New("boom")
	workers := []parallel.Worker[int]{
		func(ctx context.Context) (int, bool, error) { return 0, false, boom },
		func(ctx context.Context) (int, bool, error) { return 0, false, nil },
	}
	_, found, err := parallel.Race(context.Background(), parallel.NewPortfolioStats(), workers)
	require.False(t, found)
	require.ErrorIs(t, err, boom)
}

func TestCollectGathersAllResults(t *testing.T) {
	workers := []parallel.Worker[int]{
		func(ctx context.Context) (int, bool, error) { return 1, true, nil },
		func(ctx context.Context) (int, bool, error) { return 2, true, nil },
		func(ctx context.Context) (int, bool, error) { return 0, false, nil },
	}
	results, err := parallel.Collect(context.Background(), parallel.NewPortfolioStats(), workers)
	require.NoError(t, err)
	require.ElementsMatch(t, []int{1, 2}, results)
}
