package fdsolver

// Package-level trail implementation.
//
// The Trail is the reversible undo log that makes every mutation a Solver
// performs during search undoable on backtrack (spec.md §4.1). It is a
// process-wide structure owned by the Solver for its lifetime; Variables,
// Constraints, and any reversible client state register their undo
// information here rather than maintaining their own backtracking logic.
//
// The trail never fails: it is a pure data structure. Saves requested while
// the Queue is frozen (mid-failure cleanup) are still honored.

// trailEntryKind tags the variant of one trail entry. Go has no tagged-union
// sum type, so this mirrors spec.md §3's "one of (a)..(e)" with a closed
// enum plus per-kind fields on a single struct; the set of propagators is
// closed (entries are only ever produced by this package and by
// RegisterAlloc/AddReversibleAction calls from clients), so a tagged variant
// is preferable here to a trait object per the Design Notes.
type trailEntryKind uint8

const (
	entryPrimitive trailEntryKind = iota
	entryObject
	entryAlloc
	entryMarker
	entryAction
)

// reversible is implemented by any value that can snapshot and restore its
// own state. save_object records a reversible's snapshot; pop_to restores
// it. This is the "stored closure" form of object save from spec.md §3(b).
type reversible interface {
	// snapshot returns an opaque copy of the receiver's current state.
	snapshot() any
	// restore replaces the receiver's current state with a previously
	// returned snapshot.
	restore(state any)
}

// trailEntry is one undo record. Exactly one of the kind-specific fields is
// meaningful, selected by kind.
type trailEntry struct {
	kind trailEntryKind

	// entryPrimitive: addr is the cell to restore, primValue is the value
	// to write back into it.
	addr      *int64
	primValue int64

	// entryObject: obj is the reversible whose restore method is invoked
	// with objState.
	obj      reversible
	objState any

	// entryAlloc: alloc is dropped (via its Close) on pop.
	alloc allocation

	// entryAction: action is invoked with no arguments on pop.
	action func()

	// entryMarker: level is an opaque tag supplied by push_marker, echoed
	// back to callers that want to identify which level a marker belongs
	// to (e.g. the search driver's root sentinel vs. per-decision markers).
	level int
}

// allocation is an owned resource a client handed to the trail via
// RegisterAlloc. Close runs when the trail pops past the point the
// allocation was registered at.
type allocation interface {
	Close()
}

// Trail is the reversible undo log. It is not safe for concurrent use; like
// the rest of the Solver, it is mutated only on the Solver's owning
// goroutine (spec.md §5).
type Trail struct {
	entries []trailEntry
	clock   *stampClock
}

func newTrail(clock *stampClock) *Trail {
	return &Trail{clock: clock}
}

// Len reports the number of live entries.
func (t *Trail) Len() int {
	return len(t.entries)
}

// SaveValue records addr's current value so it can be restored by a later
// PopTo. O(1). Idempotent within one stamp: callers that already called
// SaveValue on the same cell during the current stamp should not call it
// again. Reversible integer cells enforce this themselves (see revInt.set)
// by checking their own last-write stamp before delegating here.
func (t *Trail) SaveValue(addr *int64) {
	t.entries = append(t.entries, trailEntry{
		kind:      entryPrimitive,
		addr:      addr,
		primValue: *addr,
	})
}

// SaveObject records a deep snapshot of a reversible's state.
func (t *Trail) SaveObject(obj reversible) {
	t.entries = append(t.entries, trailEntry{
		kind:     entryObject,
		obj:      obj,
		objState: obj.snapshot(),
	})
}

// saveObjectSnapshot records a snapshot obtained earlier via obj.snapshot(),
// for callers that must capture state before a tentative mutation but only
// want to commit the trail entry once the mutation is known to have changed
// something (see IntVar.apply).
func (t *Trail) saveObjectSnapshot(obj reversible, state any) {
	t.entries = append(t.entries, trailEntry{
		kind:     entryObject,
		obj:      obj,
		objState: state,
	})
}

// RegisterAlloc takes ownership of alloc: it is Close()d when the trail
// pops past this point, in reverse registration order, after every other
// entry in the popped range (spec.md §4.1: "allocations are dropped last in
// a node").
func (t *Trail) RegisterAlloc(alloc allocation) {
	t.entries = append(t.entries, trailEntry{kind: entryAlloc, alloc: alloc})
}

// AddReversibleAction pushes a closure to run on pop. Used by clients that
// cannot express their undo as a scalar or object save.
func (t *Trail) AddReversibleAction(cb func()) {
	t.entries = append(t.entries, trailEntry{kind: entryAction, action: cb})
}

// PushMarker writes a sentinel entry delimiting one search level and
// returns its index, to be passed back to PopTo. Advances the stamp clock.
func (t *Trail) PushMarker(levelTag int) int {
	idx := len(t.entries)
	t.entries = append(t.entries, trailEntry{kind: entryMarker, level: levelTag})
	t.clock.advance()
	return idx
}

// PopTo undoes every entry above index, in LIFO order, and advances the
// stamp clock. Allocations registered in the undone range are Close()d
// after all primitive/object/action entries in that range have been
// reversed, so their destructors observe fully-restored state.
func (t *Trail) PopTo(index int) {
	var pendingAllocs []allocation
	for i := len(t.entries) - 1; i >= index; i-- {
		e := t.entries[i]
		switch e.kind {
		case entryPrimitive:
			*e.addr = e.primValue
		case entryObject:
			e.obj.restore(e.objState)
		case entryAction:
			e.action()
		case entryAlloc:
			pendingAllocs = append(pendingAllocs, e.alloc)
		case entryMarker:
			// nothing to undo; the marker only delimits a level.
		}
	}
	t.entries = t.entries[:index]
	t.clock.advance()

	for _, a := range pendingAllocs {
		a.Close()
	}
}

// revInt is a reversible int64 cell for scalar state (Domain and IntVar
// are trailed through object snapshots instead), implementing the "check
// self.stamp < solver.stamp before saving" rule from spec.md §4.2 so that
// repeated writes within one node collapse into a single trail entry. A
// fresh cell counts as written at stamp 0, so writes made before the first
// PushMarker are never trailed.
type revInt struct {
	value     int64
	lastWrite Stamp
}

func newRevInt(v int64) revInt {
	return revInt{value: v}
}

func (r *revInt) get() int64 {
	return r.value
}

// set writes a new value, saving the pre-node value to the trail the first
// time this cell is touched in the current stamp.
func (r *revInt) set(trail *Trail, now Stamp, v int64) {
	if r.value == v {
		return
	}
	if r.lastWrite != now {
		trail.SaveValue(&r.value)
		r.lastWrite = now
	}
	r.value = v
}
