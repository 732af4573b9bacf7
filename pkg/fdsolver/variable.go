package fdsolver

// Variable is the public read interface IntVar implements (including the
// 0/1 variables NewBoolVar creates). It exists so generic code can range
// over a solver's variables through identity, name and domain alone.
type Variable interface {
	ID() int
	Domain() *Domain
	Name() string
}

// listenerList holds the demons watching one event kind on one variable.
// A plain slice is sufficient: demons are only ever appended (at post()
// time, before search starts) and never removed, so there is no need for
// the arena-index indirection the Design Notes call for on the
// constraint/variable cross-reference graph in general. Here the only
// "pointer" stored is the Demon itself, owned by its posting constraint,
// and Variables never own Constraints, so no cycle exists.
type listenerList []*Demon

// IntVar is a finite-domain integer variable: a Domain plus the four
// listener lists from spec.md §3 (range, domain, bind, performed). The
// "performed" list is unused here and lives on IntervalVar instead, which
// embeds an IntVar per bound.
type IntVar struct {
	id     int
	name   string
	domain *Domain
	solver *Solver

	onRange  listenerList // BoundTightened(min) or BoundTightened(max)
	onDomain listenerList // ValueRemoved or BoundTightened (any domain change)
	onBind   listenerList // Bound (domain became a singleton)
}

func newIntVar(s *Solver, id int, name string, d *Domain) *IntVar {
	return &IntVar{id: id, name: name, domain: d, solver: s}
}

func (v *IntVar) ID() int          { return v.id }
func (v *IntVar) Name() string     { return v.name }
func (v *IntVar) Domain() *Domain  { return v.domain }
func (v *IntVar) Min() int64       { return v.domain.Min() }
func (v *IntVar) Max() int64       { return v.domain.Max() }
func (v *IntVar) Size() int64      { return v.domain.Size() }
func (v *IntVar) Bound() bool      { return v.domain.Bound() }
func (v *IntVar) Contains(x int64) bool { return v.domain.Contains(x) }

// Value returns the bound value. Panics if the variable is not bound; per
// spec.md's framing, callers that want a safe path should check Bound()
// first, the same contract IntervalVar's performed-flag accessors rely on.
func (v *IntVar) Value() int64 {
	if !v.domain.Bound() {
		panic("fdsolver: Value called on unbound IntVar " + v.name)
	}
	return v.domain.SingletonValue()
}

func (v *IntVar) String() string {
	return v.name + v.domain.String()
}

// When registers a demon on one of this variable's event lists, per
// spec.md §6's constraint-facing contract (`var.when(event, demon)`).
// EventBound demons also fire for any coarser event that implies binding,
// by virtue of being checked during dispatch (see notify), not by being
// duplicated across lists.
func (v *IntVar) When(kind EventKind, d *Demon) {
	switch kind {
	case EventBoundTightenedMin, EventBoundTightenedMax:
		v.onRange = append(v.onRange, d)
	case EventBound:
		v.onBind = append(v.onBind, d)
	default:
		v.onDomain = append(v.onDomain, d)
	}
}

// beginMutation starts the sweep shadow state for the current stamp (if not
// already started) and returns the stamp for apply to use. It does not
// touch the trail: whether this mutation needs a trail entry is only known
// once the mutator below has run, since a no-op mutation must not push one
// (spec.md's set_min/set_max no-op policy).
func (v *IntVar) beginMutation() Stamp {
	now := v.solver.stamp.now()
	v.domain.beginSweep(now)
	return now
}

// notify dispatches events to the right listener lists and enqueues their
// demons, per spec.md §4.4's "on each mutation... enqueues every demon
// whose event mask matches" and §5's ordering guarantee (range before
// domain before bind, mirroring Bound-tightening -> Value-removal ->
// aggregate).
func (v *IntVar) notify(events eventMask) {
	if events.empty() {
		return
	}
	q := v.solver.queue
	if events.kind.has(EventBoundTightenedMin) || events.kind.has(EventBoundTightenedMax) {
		for _, d := range v.onRange {
			q.Enqueue(d)
		}
	}
	if events.kind.has(EventDomainChanged) {
		for _, d := range v.onDomain {
			q.Enqueue(d)
		}
	}
	if events.kind.has(EventBound) {
		for _, d := range v.onBind {
			q.Enqueue(d)
		}
	}
}

// apply runs a Domain mutator, trailing/notifying/failing as appropriate.
// Every exported mutator below (SetMin, SetMax, ...) is a one-line wrapper
// around this. A mutator that turns out to be a no-op (empty eventMask,
// domain not emptied) pushes nothing onto the trail and fires no events,
// even on the first touch of a fresh stamp.
func (v *IntVar) apply(mutate func() (eventMask, bool)) {
	now := v.beginMutation()
	needsSnapshot := v.domain.trailStamp != now
	var snap any
	if needsSnapshot {
		snap = v.domain.snapshot()
	}
	events, emptied := mutate()
	if needsSnapshot && (!events.empty() || emptied) {
		v.solver.trail.saveObjectSnapshot(v.domain, snap)
		v.domain.trailStamp = now
	}
	if emptied {
		fail(ErrDomainEmpty)
	}
	v.notify(events)
}

func (v *IntVar) SetMin(m int64) {
	v.apply(func() (eventMask, bool) { return v.domain.setMin(m) })
}

func (v *IntVar) SetMax(m int64) {
	v.apply(func() (eventMask, bool) { return v.domain.setMax(m) })
}

func (v *IntVar) SetRange(lo, hi int64) {
	v.apply(func() (eventMask, bool) { return v.domain.setRange(lo, hi) })
}

func (v *IntVar) SetValue(val int64) {
	v.apply(func() (eventMask, bool) { return v.domain.setValue(val) })
}

func (v *IntVar) RemoveValue(val int64) {
	v.apply(func() (eventMask, bool) { return v.domain.removeValue(val) })
}

func (v *IntVar) RemoveInterval(lo, hi int64) {
	v.apply(func() (eventMask, bool) { return v.domain.removeInterval(lo, hi) })
}

func (v *IntVar) RemoveValues(vs []int64) {
	v.apply(func() (eventMask, bool) { return v.domain.removeValues(vs) })
}

func (v *IntVar) SetValues(vs []int64) {
	v.apply(func() (eventMask, bool) { return v.domain.setValues(vs) })
}

// OldMin, OldMax and HoleIter are callable only from within a demon this
// variable has scheduled during the current stamp (spec.md §4.4).
func (v *IntVar) OldMin() int64                { return v.domain.OldMin() }
func (v *IntVar) OldMax() int64                { return v.domain.OldMax() }
func (v *IntVar) HoleIter(f func(val int64))   { v.domain.HoleIter(f) }
func (v *IntVar) IterateValues(f func(int64))  { v.domain.IterateValues(f) }
