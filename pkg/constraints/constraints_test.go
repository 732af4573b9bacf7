package constraints_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokanfd/pkg/constraints"
	"github.com/gitrdm/gokanfd/pkg/fdsolver"
)

func TestEqualPropagatesBothWays(t *testing.T) {
	s := fdsolver.NewSolver()
	x := s.NewIntVar("x", 1, 10)
	y := s.NewIntVar("y", 5, 8)
	s.AddConstraint(&constraints.Equal{X: x, Y: y})

	require.Equal(t, int64(5), x.Min())
	require.Equal(t, int64(8), x.Max())
}

func TestNotEqualRemovesBoundValue(t *testing.T) {
	s := fdsolver.NewSolver()
	x := s.NewIntVar("x", 1, 1)
	y := s.NewIntVar("y", 1, 2)
	s.AddConstraint(&constraints.NotEqual{X: x, Y: y})

	require.Equal(t, int64(2), y.Min())
	require.True(t, y.Bound())
}

func TestLessOrEqualTightensBothBounds(t *testing.T) {
	s := fdsolver.NewSolver()
	x := s.NewIntVar("x", 1, 10)
	y := s.NewIntVar("y", 1, 5)
	s.AddConstraint(&constraints.LessOrEqual{X: x, Y: y})

	require.Equal(t, int64(5), x.Max())
	require.Equal(t, int64(1), y.Min())
}

func TestLinearSumBoundsPropagation(t *testing.T) {
	s := fdsolver.NewSolver()
	a := s.NewIntVar("a", 0, 5)
	b := s.NewIntVar("b", 0, 5)
	total := s.NewIntVar("total", 0, 100)

	ls, err := constraints.NewLinearSum([]*fdsolver.IntVar{a, b}, []int64{1, 2}, total)
	require.NoError(t, err)
	s.AddConstraint(ls)

	require.Equal(t, int64(0), total.Min())
	require.Equal(t, int64(15), total.Max())

	total.SetMax(5)
	s.Propagate()
	require.LessOrEqual(t, b.Max(), int64(2))
}

func TestLinearSumRejectsMismatchedLengths(t *testing.T) {
	s := fdsolver.NewSolver()
	a := s.NewIntVar("a", 0, 5)
	total := s.NewIntVar("total", 0, 10)
	_, err := constraints.NewLinearSum([]*fdsolver.IntVar{a}, []int64{1, 2}, total)
	require.ErrorIs(t, err, constraints.ErrLinearSumLength)
}

func TestAllDifferentForwardChecks(t *testing.T) {
	s := fdsolver.NewSolver()
	a := s.NewIntVar("a", 1, 1)
	b := s.NewIntVar("b", 1, 2)
	c := s.NewIntVar("c", 1, 2)
	s.AddConstraint(constraints.NewAllDifferent([]*fdsolver.IntVar{a, b, c}))

	require.False(t, b.Contains(1))
	require.False(t, c.Contains(1))
}

func TestElementLinksIndexAndResult(t *testing.T) {
	s := fdsolver.NewSolver()
	idx := s.NewIntVar("idx", 0, 3)
	result := s.NewIntVar("result", 0, 100)
	values := []int64{10, 20, 30, 40}

	el, err := constraints.NewElement(idx, values, result)
	require.NoError(t, err)
	s.AddConstraint(el)

	require.Equal(t, int64(10), result.Min())
	require.Equal(t, int64(40), result.Max())

	idx.SetValue(2)
	s.Propagate()
	require.True(t, result.Bound())
	require.Equal(t, int64(30), result.Value())
}
