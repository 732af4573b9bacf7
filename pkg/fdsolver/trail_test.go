package fdsolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrailSaveValueAndPopTo(t *testing.T) {
	clock := &stampClock{}
	trail := &Trail{clock: clock}
	x := int64(1)

	mark := trail.PushMarker(0)
	trail.SaveValue(&x)
	x = 42
	require.Equal(t, int64(42), x)

	trail.PopTo(mark)
	require.Equal(t, int64(1), x)
}

func TestTrailAllocClosedOnPop(t *testing.T) {
	clock := &stampClock{}
	trail := &Trail{clock: clock}
	closed := false
	mark := trail.PushMarker(0)
	trail.RegisterAlloc(closerFunc(func() { closed = true }))
	trail.PopTo(mark)
	require.True(t, closed)
}

type closerFunc func()

func (f closerFunc) Close() { f() }

func TestTrailNestedMarkers(t *testing.T) {
	clock := &stampClock{}
	trail := &Trail{clock: clock}
	a := int64(1)
	b := int64(1)

	outer := trail.PushMarker(0)
	trail.SaveValue(&a)
	a = 2

	inner := trail.PushMarker(1)
	trail.SaveValue(&b)
	b = 2

	trail.PopTo(inner)
	require.Equal(t, int64(2), a)
	require.Equal(t, int64(1), b)

	trail.PopTo(outer)
	require.Equal(t, int64(1), a)
}

func TestRevIntDedupesWithinStamp(t *testing.T) {
	clock := &stampClock{}
	trail := &Trail{clock: clock}
	r := newRevInt(5)
	trail.PushMarker(0)

	now := clock.now()
	mark := trail.Len()
	r.set(trail, now, 6)
	r.set(trail, now, 7)
	require.Equal(t, mark+1, trail.Len(), "second write in the same stamp should not add a new entry")
	require.Equal(t, int64(7), r.get())
}

// TestTrailSaveObjectRestoresDeepState exercises the eager form of object
// save directly: IntVar.apply uses the deferred saveObjectSnapshot variant
// instead (see variable.go), but SaveObject remains the Trail's documented
// save_object primitive, usable by any reversible, not just a Domain
// reached through an IntVar.
func TestTrailSaveObjectRestoresDeepState(t *testing.T) {
	clock := &stampClock{}
	trail := &Trail{clock: clock}
	d := NewDomainRange(1, 10)

	mark := trail.PushMarker(0)
	trail.SaveObject(d)
	d.setMin(5)
	d.setMax(8)
	require.Equal(t, int64(5), d.Min())

	trail.PopTo(mark)
	require.Equal(t, int64(1), d.Min())
	require.Equal(t, int64(10), d.Max())
}
