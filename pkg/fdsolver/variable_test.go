package fdsolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutations performed at stamp 0 (before any PushMarker) never need a trail
// entry regardless of no-op-ness, since nothing ever backtracks past the
// root: that is what AddConstraint's InitialPropagate relies on. These
// tests push a marker first so the stamp under test is one a backtrack can
// actually land on, the same as a demon running mid-search.

func TestIntVarNoOpMutationSkipsTrail(t *testing.T) {
	s := NewSolver()
	v := s.NewIntVar("v", 1, 10)
	s.trail.PushMarker(0)

	mark := s.trail.Len()
	v.SetMin(1) // already satisfied: must not push a trail entry
	require.Equal(t, mark, s.trail.Len())

	v.SetMin(5) // real change, still within the same stamp
	require.Equal(t, mark+1, s.trail.Len())
	require.Equal(t, int64(5), v.Min())
}

func TestIntVarNoOpThenRealChangeSameStampTrailsOnce(t *testing.T) {
	s := NewSolver()
	v := s.NewIntVar("v", 1, 10)
	s.trail.PushMarker(0)

	mark := s.trail.Len()
	v.RemoveValue(20) // not even in the domain: no-op
	v.SetMin(1)       // already satisfied: no-op
	v.SetMax(10)      // already satisfied: no-op
	require.Equal(t, mark, s.trail.Len())

	v.SetMin(3) // first real change this stamp
	require.Equal(t, mark+1, s.trail.Len())

	v.SetMax(7) // second real change, same stamp: still one entry
	require.Equal(t, mark+1, s.trail.Len())
}

func TestIntVarMutationRestoresOnBacktrackEvenAfterLeadingNoOp(t *testing.T) {
	s := NewSolver()
	v := s.NewIntVar("v", 1, 10)

	outer := s.trail.PushMarker(0)
	v.SetMin(1) // no-op at this new stamp
	v.SetMin(4) // real change
	require.Equal(t, int64(4), v.Min())

	s.trail.PopTo(outer)
	require.Equal(t, int64(1), v.Min())
}
