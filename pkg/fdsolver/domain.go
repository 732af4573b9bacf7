package fdsolver

import (
	"fmt"
	"math/bits"
)

// domainDensifyThreshold is the span (max-min+1) below which a Domain uses
// a dense bitset representation. Above it, Domain falls back to a
// bounds-only representation with an overflow set of removed interior
// values. This resolves the Open Question in spec.md §9 ("whether
// remove_value on a large sparse domain eagerly densifies or keeps the
// bounds+holes representation"): this implementation picks the
// representation once, at construction time, from the initial span, and
// never switches afterward, matching the original's fixed threshold
// on size() rather than a dynamic re-densification policy, because a
// representation that can change shape mid-search would need its own
// trail entries to undo the *shape* change, not just the values, which
// spec.md does not call for.
const domainDensifyThreshold = 1 << 16

// Domain is a reversible, ordered finite set of integers, per spec.md §3.
// All values live in [MinValidValue, MaxValidValue]; constructors clamp
// bounds into that range.
//
// A Domain is owned by exactly one IntVar and mutated only through it.
// IntVar is responsible for trailing the Domain (via the reversible
// interface below) before the first mutation in a given stamp, for
// translating Domain-reported changes into Events, and for calling Fail
// when a mutation would empty the domain. Domain itself never touches the
// Trail, the Queue, or Fail: it is the "pure data structure" spec.md §4.1
// calls the Trail, and this package keeps that purity for Domain too.
type Domain struct {
	minV, maxV int64
	sizeV      int64

	// Dense representation: bitset indexed by value-lo. Nil in overflow
	// mode.
	lo     int64
	bitset []uint64

	// Overflow representation: holes holds interior values removed from
	// [minV, maxV]. Nil in dense mode. A value is a member iff
	// minV <= v <= maxV and v is not in holes.
	holes map[int64]struct{}

	// Sweep-local shadow state, valid only for the duration of one
	// propagation sweep (spec.md §3's old_min/old_max/hole-buffer
	// fields). Reset by clearSweep once the Queue drains.
	sweepStamp   Stamp
	oldMin       int64
	oldMax       int64
	removedHoles []int64

	// trailStamp is the stamp at which this Domain last pushed a trail
	// entry, distinct from sweepStamp: a Domain can begin a sweep (to
	// capture old_min/old_max for later demons) without ever touching the
	// trail, if every mutation attempted during the sweep turned out to be
	// a no-op. See IntVar.apply.
	trailStamp Stamp
}

// NewDomainRange creates a Domain containing every integer in [lo, hi]
// inclusive. Panics if lo > hi; Solver.NewIntVar passes that panic on to
// its caller unchanged.
func NewDomainRange(lo, hi int64) *Domain {
	lo = clampToValidRange(lo)
	hi = clampToValidRange(hi)
	if lo > hi {
		panic("fdsolver: NewDomainRange requires lo <= hi")
	}
	d := &Domain{minV: lo, maxV: hi, sizeV: hi - lo + 1}
	span := hi - lo + 1
	if span <= domainDensifyThreshold {
		d.lo = lo
		d.bitset = make([]uint64, (span+63)/64)
		for i := int64(0); i < span; i++ {
			d.bitset[i/64] |= 1 << uint(i%64)
		}
	} else {
		d.holes = make(map[int64]struct{})
	}
	return d
}

// NewDomainValues creates a Domain containing exactly the given values.
// Panics if values is empty.
func NewDomainValues(values []int64) *Domain {
	if len(values) == 0 {
		panic("fdsolver: NewDomainValues requires at least one value")
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	d := NewDomainRange(lo, hi)
	set := make(map[int64]struct{}, len(values))
	for _, v := range values {
		set[clampToValidRange(v)] = struct{}{}
	}
	// Remove everything in [lo,hi] not present in set.
	if d.bitset != nil {
		for v := lo; v <= hi; v++ {
			if _, ok := set[v]; !ok {
				d.clearBit(v)
			}
		}
	} else {
		for v := lo; v <= hi; v++ {
			if _, ok := set[v]; !ok {
				d.holes[v] = struct{}{}
			}
		}
	}
	d.recomputeBoundsAfterBulkEdit()
	return d
}

// --- pure readers ---

func (d *Domain) Min() int64 { return d.minV }
func (d *Domain) Max() int64 { return d.maxV }
func (d *Domain) Size() int64 { return d.sizeV }
func (d *Domain) Bound() bool { return d.sizeV == 1 }

func (d *Domain) Contains(v int64) bool {
	if v < d.minV || v > d.maxV {
		return false
	}
	if d.bitset != nil {
		return d.testBit(v)
	}
	_, excluded := d.holes[v]
	return !excluded
}

// SingletonValue returns the sole member of a bound domain. Behavior is
// undefined (it returns Min()) if the domain is not bound.
func (d *Domain) SingletonValue() int64 { return d.minV }

func (d *Domain) String() string {
	if d.Bound() {
		return fmt.Sprintf("{%d}", d.minV)
	}
	if d.sizeV == d.maxV-d.minV+1 {
		return fmt.Sprintf("{%d..%d}", d.minV, d.maxV)
	}
	return fmt.Sprintf("{%d..%d \\ %d holes}", d.minV, d.maxV, (d.maxV-d.minV+1)-d.sizeV)
}

// --- bitset helpers (dense mode only) ---

func (d *Domain) testBit(v int64) bool {
	i := v - d.lo
	return d.bitset[i/64]&(1<<uint(i%64)) != 0
}

func (d *Domain) clearBit(v int64) {
	i := v - d.lo
	d.bitset[i/64] &^= 1 << uint(i%64)
}

// nextSetBitFrom returns the smallest value >= from that is set, or
// (0, false) if none exists up to d.maxV's word range.
func (d *Domain) nextSetBitFrom(from int64) (int64, bool) {
	if from < d.lo {
		from = d.lo
	}
	i := from - d.lo
	wordIdx := int(i / 64)
	bitOff := uint(i % 64)
	if wordIdx >= len(d.bitset) {
		return 0, false
	}
	word := d.bitset[wordIdx] >> bitOff
	if word != 0 {
		return from + int64(bits.TrailingZeros64(word)), true
	}
	for w := wordIdx + 1; w < len(d.bitset); w++ {
		if d.bitset[w] != 0 {
			return d.lo + int64(w)*64 + int64(bits.TrailingZeros64(d.bitset[w])), true
		}
	}
	return 0, false
}

// prevSetBitFrom returns the largest value <= from that is set, or
// (0, false) if none exists.
func (d *Domain) prevSetBitFrom(from int64) (int64, bool) {
	if from > d.lo+int64(len(d.bitset))*64-1 {
		from = d.lo + int64(len(d.bitset))*64 - 1
	}
	i := from - d.lo
	wordIdx := int(i / 64)
	bitOff := uint(i % 64)
	if wordIdx < 0 {
		return 0, false
	}
	mask := uint64(1)<<(bitOff+1) - 1
	if bitOff == 63 {
		mask = ^uint64(0)
	}
	word := d.bitset[wordIdx] & mask
	if word != 0 {
		return d.lo + int64(wordIdx)*64 + int64(63-bits.LeadingZeros64(word)), true
	}
	for w := wordIdx - 1; w >= 0; w-- {
		if d.bitset[w] != 0 {
			return d.lo + int64(w)*64 + int64(63-bits.LeadingZeros64(d.bitset[w])), true
		}
	}
	return 0, false
}

// --- mutators ---
//
// Every mutator below returns an eventMask describing what fired, and a
// bool "emptied" reporting whether the domain now has zero members. The
// caller (IntVar) is responsible for calling Fail when emptied is true;
// Domain itself never fails, per this file's header comment.
//
// Per spec.md §4.3's edge-case policy, a mutator that would be a no-op
// (the requested bound is already satisfied, or the value is already
// absent) returns an empty eventMask and must not be treated by the caller
// as having touched the trail.

func (d *Domain) setMin(m int64) (events eventMask, emptied bool) {
	if m <= d.minV {
		return events, false
	}
	if m > d.maxV {
		return events, true
	}
	if d.bitset != nil {
		removed := d.collectAndClearRange(d.minV, m-1)
		d.minV = m
		if nv, ok := d.nextSetBitFrom(m); ok {
			d.minV = nv
		}
		d.recomputeSizeDense()
		d.noteHoles(removed)
	} else {
		for v := range d.holes {
			if v < m {
				delete(d.holes, v)
			}
		}
		d.minV = m
		for {
			if _, excluded := d.holes[d.minV]; excluded {
				delete(d.holes, d.minV)
				d.minV++
				continue
			}
			break
		}
		d.sizeV = d.maxV - d.minV + 1 - int64(len(d.holes))
	}
	events.add(EventBoundTightenedMin)
	events.add(EventDomainChanged)
	if d.sizeV == 0 {
		return events, true
	}
	if d.sizeV == 1 {
		events.add(EventBound)
	}
	return events, false
}

func (d *Domain) setMax(m int64) (events eventMask, emptied bool) {
	if m >= d.maxV {
		return events, false
	}
	if m < d.minV {
		return events, true
	}
	if d.bitset != nil {
		removed := d.collectAndClearRange(m+1, d.maxV)
		d.maxV = m
		if pv, ok := d.prevSetBitFrom(m); ok {
			d.maxV = pv
		}
		d.recomputeSizeDense()
		d.noteHoles(removed)
	} else {
		for v := range d.holes {
			if v > m {
				delete(d.holes, v)
			}
		}
		d.maxV = m
		for {
			if _, excluded := d.holes[d.maxV]; excluded {
				delete(d.holes, d.maxV)
				d.maxV--
				continue
			}
			break
		}
		d.sizeV = d.maxV - d.minV + 1 - int64(len(d.holes))
	}
	events.add(EventBoundTightenedMax)
	events.add(EventDomainChanged)
	if d.sizeV == 0 {
		return events, true
	}
	if d.sizeV == 1 {
		events.add(EventBound)
	}
	return events, false
}

func (d *Domain) setRange(lo, hi int64) (events eventMask, emptied bool) {
	ev1, empty1 := d.setMin(lo)
	events.add(ev1.kind)
	if empty1 {
		return events, true
	}
	ev2, empty2 := d.setMax(hi)
	events.add(ev2.kind)
	return events, empty2
}

func (d *Domain) setValue(v int64) (events eventMask, emptied bool) {
	return d.setRange(v, v)
}

func (d *Domain) removeValue(v int64) (events eventMask, emptied bool) {
	if !d.Contains(v) {
		return events, false
	}
	if v == d.minV {
		return d.setMin(v + 1)
	}
	if v == d.maxV {
		return d.setMax(v - 1)
	}
	if d.bitset != nil {
		d.clearBit(v)
		d.sizeV--
	} else {
		d.holes[v] = struct{}{}
		d.sizeV--
	}
	d.noteHoles([]int64{v})
	events.add(EventValueRemoved)
	events.add(EventDomainChanged)
	if d.sizeV == 1 {
		events.add(EventBound)
	}
	return events, false
}

func (d *Domain) removeInterval(lo, hi int64) (events eventMask, emptied bool) {
	if hi < lo {
		return events, false
	}
	if lo <= d.minV && hi >= d.maxV {
		return events, true
	}
	if lo <= d.minV {
		return d.setMin(hi + 1)
	}
	if hi >= d.maxV {
		return d.setMax(lo - 1)
	}
	var removed []int64
	for v := lo; v <= hi; v++ {
		if d.Contains(v) {
			removed = append(removed, v)
		}
	}
	if len(removed) == 0 {
		return events, false
	}
	if d.bitset != nil {
		for _, v := range removed {
			d.clearBit(v)
		}
	} else {
		for _, v := range removed {
			d.holes[v] = struct{}{}
		}
	}
	d.sizeV -= int64(len(removed))
	d.noteHoles(removed)
	events.add(EventValueRemoved)
	events.add(EventDomainChanged)
	if d.sizeV == 1 {
		events.add(EventBound)
	}
	return events, false
}

func (d *Domain) removeValues(vs []int64) (events eventMask, emptied bool) {
	for _, v := range vs {
		ev, empty := d.removeValue(v)
		events.add(ev.kind)
		if empty {
			return events, true
		}
	}
	return events, false
}

func (d *Domain) setValues(vs []int64) (events eventMask, emptied bool) {
	if len(vs) == 0 {
		return events, true
	}
	keep := make(map[int64]struct{}, len(vs))
	lo, hi := vs[0], vs[0]
	for _, v := range vs {
		keep[v] = struct{}{}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	var toRemove []int64
	d.IterateValues(func(v int64) {
		if _, ok := keep[v]; !ok {
			toRemove = append(toRemove, v)
		}
	})
	return d.removeValues(toRemove)
}

// collectAndClearRange clears bits for values in [lo,hi] in dense mode and
// returns the values that had been set (for hole-buffer bookkeeping).
func (d *Domain) collectAndClearRange(lo, hi int64) []int64 {
	var removed []int64
	for v := lo; v <= hi; v++ {
		if v >= d.lo && v < d.lo+int64(len(d.bitset))*64 && d.testBit(v) {
			removed = append(removed, v)
			d.clearBit(v)
		}
	}
	return removed
}

func (d *Domain) recomputeSizeDense() {
	count := int64(0)
	for _, w := range d.bitset {
		count += int64(bits.OnesCount64(w))
	}
	d.sizeV = count
}

func (d *Domain) recomputeBoundsAfterBulkEdit() {
	if d.bitset != nil {
		if nv, ok := d.nextSetBitFrom(d.lo); ok {
			d.minV = nv
		}
		if pv, ok := d.prevSetBitFrom(d.lo + int64(len(d.bitset))*64 - 1); ok {
			d.maxV = pv
		}
		d.recomputeSizeDense()
	} else {
		d.sizeV = d.maxV - d.minV + 1 - int64(len(d.holes))
	}
}

// noteHoles appends to the sweep-local removed-value buffer. Call sites
// pass only genuinely-removed values (post no-op filtering), matching
// spec.md's "hole iterator... enumerates values removed since this demon
// was last notified".
func (d *Domain) noteHoles(removed []int64) {
	d.removedHoles = append(d.removedHoles, removed...)
}

// --- sweep shadow state, spec.md §4.4 ---

// beginSweep captures old_min/old_max the first time a Domain is touched
// during stamp now. Called by IntVar before any mutator above.
func (d *Domain) beginSweep(now Stamp) {
	if d.sweepStamp == now {
		return
	}
	d.sweepStamp = now
	d.oldMin = d.minV
	d.oldMax = d.maxV
	d.removedHoles = d.removedHoles[:0]
}

// OldMin, OldMax and HoleIter are callable only from within a demon the
// variable has scheduled in the current stamp; outside that context the
// hole iterator is empty and old_min/old_max equal the current bounds,
// per spec.md §4.4's iteration contract.
func (d *Domain) OldMin() int64 { return d.oldMin }
func (d *Domain) OldMax() int64 { return d.oldMax }

// HoleIter enumerates values removed since the sweep began.
func (d *Domain) HoleIter(f func(v int64)) {
	for _, v := range d.removedHoles {
		f(v)
	}
}

// clearSweep drops the shadow state once the Queue has fully drained,
// per spec.md §4.4 ("When the queue drains, the old/new snapshot is
// cleared").
func (d *Domain) clearSweep() {
	d.oldMin = d.minV
	d.oldMax = d.maxV
	d.removedHoles = nil
	d.sweepStamp = 0
}

// IterateValues enumerates every current member in ascending order. Safe
// to use outside a demon; the caller must not mutate the domain while
// iterating (spec.md §4.4).
func (d *Domain) IterateValues(f func(v int64)) {
	if d.bitset != nil {
		v := d.minV
		for v <= d.maxV {
			nv, ok := d.nextSetBitFrom(v)
			if !ok || nv > d.maxV {
				return
			}
			f(nv)
			v = nv + 1
		}
		return
	}
	for v := d.minV; v <= d.maxV; v++ {
		if _, excluded := d.holes[v]; !excluded {
			f(v)
		}
	}
}

// --- reversible interface, for Trail.SaveObject ---

type domainSnapshot struct {
	minV, maxV, sizeV int64
	bitset            []uint64
	holes             map[int64]struct{}
}

func (d *Domain) snapshot() any {
	snap := domainSnapshot{minV: d.minV, maxV: d.maxV, sizeV: d.sizeV}
	if d.bitset != nil {
		snap.bitset = append([]uint64(nil), d.bitset...)
	}
	if d.holes != nil {
		snap.holes = make(map[int64]struct{}, len(d.holes))
		for v := range d.holes {
			snap.holes[v] = struct{}{}
		}
	}
	return snap
}

func (d *Domain) restore(state any) {
	snap := state.(domainSnapshot)
	d.minV, d.maxV, d.sizeV = snap.minV, snap.maxV, snap.sizeV
	d.bitset = snap.bitset
	d.holes = snap.holes
}
