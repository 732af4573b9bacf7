package fdsolver

// Queue is the priority FIFO of pending demons driving propagation to
// fixpoint, per spec.md §4.5. It is a process-wide structure owned by the
// Solver; Constraints never hold their own queues.
//
// Three strict-priority FIFOs back the queue. Demons at a higher priority
// are always observed before any lower-priority demon of the same event
// (spec.md §5's ordering guarantee); within one priority bucket, demons
// run in the order they were enqueued.
type Queue struct {
	buckets    [numPriorities][]*Demon
	heads      [numPriorities]int // index of next demon to pop, to avoid O(n) slice-shifting
	frozen     bool
	failAction func()
	clock      *stampClock
}

func newQueue(clock *stampClock) *Queue {
	return &Queue{clock: clock}
}

// Enqueue schedules d to run. Deduplicated by stamp: if d was already
// enqueued during the current stamp and has not yet run, this is a no-op.
// Inhibited demons are never enqueued.
func (q *Queue) Enqueue(d *Demon) {
	if d.inhibited {
		return
	}
	now := q.clock.now()
	if d.lastEnq == now {
		for _, pending := range q.buckets[d.priority][q.heads[d.priority]:] {
			if pending == d {
				return
			}
		}
	}
	d.lastEnq = now
	q.buckets[d.priority] = append(q.buckets[d.priority], d)
}

// Empty reports whether all three buckets are drained, the fixpoint
// condition from spec.md §4.5.
func (q *Queue) Empty() bool {
	for p := 0; p < numPriorities; p++ {
		if q.heads[p] < len(q.buckets[p]) {
			return false
		}
	}
	return true
}

// Len reports the total number of demons currently pending, across all
// priorities.
func (q *Queue) Len() int {
	n := 0
	for p := 0; p < numPriorities; p++ {
		n += len(q.buckets[p]) - q.heads[p]
	}
	return n
}

// pop removes and returns the next demon to run, in strict priority order.
// Returns nil if the queue is empty.
func (q *Queue) pop() *Demon {
	for p := 0; p < numPriorities; p++ {
		if q.heads[p] < len(q.buckets[p]) {
			d := q.buckets[p][q.heads[p]]
			q.buckets[p][q.heads[p]] = nil
			q.heads[p]++
			return d
		}
	}
	return nil
}

// reset drops all pending work. Called after a Fail unwinds the stack, so
// a partially-drained queue from the failed node never leaks into the next
// one.
func (q *Queue) reset() {
	for p := 0; p < numPriorities; p++ {
		q.buckets[p] = q.buckets[p][:0]
		q.heads[p] = 0
	}
	q.frozen = false
}

// Freeze suspends demon execution so a constraint can batch several
// mutations (each of which still enqueues normally) before any demon
// actually runs. runToFixpoint is a no-op while frozen.
func (q *Queue) Freeze() {
	q.frozen = true
}

// Unfreeze resumes demon execution. It does not itself drain the queue;
// call Solver.Propagate afterward.
func (q *Queue) Unfreeze() {
	q.frozen = false
}

// SetFailAction installs a one-shot hook invoked by Fail before it unwinds,
// used by clients to clean up per-variable scratch state that lives
// outside the trail. The hook fires at most once per Fail and is cleared
// automatically afterward.
func (q *Queue) SetFailAction(cb func()) {
	q.failAction = cb
}

// ClearFailAction removes a previously installed fail action without
// invoking it.
func (q *Queue) ClearFailAction() {
	q.failAction = nil
}

// runToFixpoint repeatedly pops the highest-priority pending demon and
// invokes it until all three buckets are empty (spec.md §4.5: "Fixpoint is
// reached when all three buckets are empty"). Demon callbacks mutate
// Variables, which may enqueue further demons; those are observed by this
// same loop, at the correct priority, because Enqueue always appends to
// the live bucket slices this loop is iterating with index cursors (not
// snapshots).
//
// If a demon calls Fail, the failAction hook (if any) runs, the queue is
// reset, and the failSignal panic propagates to the caller. Exactly one
// frame up, the search driver, is expected to recover it.
func (q *Queue) runToFixpoint(s *Solver) {
	if q.frozen {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(failSignal); ok {
				if q.failAction != nil {
					cb := q.failAction
					q.failAction = nil
					cb()
				}
				q.reset()
				panic(sig)
			}
			panic(r)
		}
	}()

	for {
		d := q.pop()
		if d == nil {
			return
		}
		if d.inhibited {
			continue
		}
		if err := d.fn(s); err != nil {
			fail(err)
		}
	}
}
