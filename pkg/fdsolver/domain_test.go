package fdsolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDomainRangeBasics(t *testing.T) {
	d := NewDomainRange(1, 5)
	require.Equal(t, int64(1), d.Min())
	require.Equal(t, int64(5), d.Max())
	require.Equal(t, int64(5), d.Size())
	require.False(t, d.Bound())
	require.True(t, d.Contains(3))
	require.False(t, d.Contains(6))
}

func TestDomainSetMinMax(t *testing.T) {
	d := NewDomainRange(1, 10)
	events, emptied := d.setMin(4)
	require.False(t, emptied)
	require.True(t, events.kind.has(EventBoundTightenedMin))
	require.Equal(t, int64(4), d.Min())

	events, emptied = d.setMax(8)
	require.False(t, emptied)
	require.True(t, events.kind.has(EventBoundTightenedMax))
	require.Equal(t, int64(8), d.Max())
	require.Equal(t, int64(5), d.Size())
}

func TestDomainRemoveValueInterior(t *testing.T) {
	d := NewDomainRange(1, 5)
	events, emptied := d.removeValue(3)
	require.False(t, emptied)
	require.True(t, events.kind.has(EventValueRemoved))
	require.False(t, d.Contains(3))
	require.Equal(t, int64(4), d.Size())
	require.Equal(t, int64(1), d.Min())
	require.Equal(t, int64(5), d.Max())
}

func TestDomainRemoveValueAtBoundMovesMin(t *testing.T) {
	d := NewDomainRange(1, 5)
	_, emptied := d.removeValue(1)
	require.False(t, emptied)
	require.Equal(t, int64(2), d.Min())
}

func TestDomainSetValueToSingleton(t *testing.T) {
	d := NewDomainRange(1, 10)
	events, emptied := d.setValue(7)
	require.False(t, emptied)
	require.True(t, events.kind.has(EventBound))
	require.True(t, d.Bound())
	require.Equal(t, int64(7), d.SingletonValue())
}

func TestDomainSetMinAboveMaxEmpties(t *testing.T) {
	d := NewDomainRange(1, 5)
	_, emptied := d.setMin(6)
	require.True(t, emptied)
}

func TestDomainSnapshotRestore(t *testing.T) {
	d := NewDomainRange(1, 10)
	snap := d.snapshot()
	d.setMin(5)
	d.setMax(8)
	require.Equal(t, int64(5), d.Min())
	d.restore(snap)
	require.Equal(t, int64(1), d.Min())
	require.Equal(t, int64(10), d.Max())
}

func TestDomainOverflowRepresentation(t *testing.T) {
	d := NewDomainRange(0, domainDensifyThreshold+100)
	require.Nil(t, d.bitset)
	_, emptied := d.removeValue(50)
	require.False(t, emptied)
	require.False(t, d.Contains(50))
	require.True(t, d.Contains(51))
}

func TestDomainValuesConstructor(t *testing.T) {
	d := NewDomainValues([]int64{2, 4, 8})
	require.Equal(t, int64(2), d.Min())
	require.Equal(t, int64(8), d.Max())
	require.Equal(t, int64(3), d.Size())
	require.False(t, d.Contains(3))
}

func TestDomainHoleIterAfterSweep(t *testing.T) {
	d := NewDomainRange(1, 5)
	d.beginSweep(1)
	d.removeValue(3)
	var holes []int64
	d.HoleIter(func(v int64) { holes = append(holes, v) })
	require.Equal(t, []int64{3}, holes)
}
