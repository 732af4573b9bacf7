// Package fdsolver implements a reversible finite-domain constraint
// propagation kernel: a Trail/Queue/stamp clock triple giving Variables
// and Constraints their backtracking semantics, and a Solver search driver
// built on top.
//
//go:generate go run ../../scripts/generate_examples_manifest -pkg . -out examples_index.json
package fdsolver

import (
	"math/rand"
	"sync/atomic"
)

// SearchState enumerates the Solver's top-level state machine, per the
// state names a caller observes across NewSearch/NextSolution/EndSearch.
type SearchState int

const (
	OutsideSearch SearchState = iota
	InSearch
	AtSolution
	NoMoreSolutions
	Infeasible
)

func (st SearchState) String() string {
	switch st {
	case OutsideSearch:
		return "OutsideSearch"
	case InSearch:
		return "InSearch"
	case AtSolution:
		return "AtSolution"
	case NoMoreSolutions:
		return "NoMoreSolutions"
	case Infeasible:
		return "Infeasible"
	default:
		return "Unknown"
	}
}

// solverConfig holds the options a SolverOption may set, built up before
// NewSolver constructs the Solver itself: defaults first, functional
// options layered on top.
type solverConfig struct {
	logger     *log
	randomSeed int64
}

func defaultSolverConfig() *solverConfig {
	return &solverConfig{
		logger:     disabledLogger(),
		randomSeed: 42,
	}
}

// SolverOption configures a Solver at construction time.
type SolverOption func(*solverConfig)

// WithRandomSeed seeds the Solver's internal PRNG, used by randomized
// decision builders and tie-breaking.
func WithRandomSeed(seed int64) SolverOption {
	return func(c *solverConfig) { c.randomSeed = seed }
}

// Solver is the propagation engine and reversible search kernel: it owns
// every Variable, Constraint, and IntervalVar created against it, plus the
// Trail, Queue, and stamp clock that give them their reversible semantics.
type Solver struct {
	trail *Trail
	queue *Queue
	stamp *stampClock
	log   *log

	vars      []*IntVar
	intervals []*IntervalVar
	nextID    int

	rng *rand.Rand

	state    SearchState
	monitors []Monitor
	stats    *SolverStats

	decisionBuilder DecisionBuilder

	// interrupted is set from another goroutine to request that the
	// current search stop at the next node boundary, per the
	// cross-thread InterruptSolve contract.
	interrupted atomic.Bool

	// frames backs the iterative depth-first search loop; replacing
	// recursion with an explicit stack avoids Go-stack growth concerns
	// on deep search trees.
	frames []searchFrame
}

type searchFrame struct {
	dec     Decision
	tried   bool // Apply already attempted, next resume is Refute
	mark    int  // trail marker to pop back to before Refute
}

// NewSolver builds an empty Solver ready for variable and constraint
// registration.
func NewSolver(opts ...SolverOption) *Solver {
	cfg := defaultSolverConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	clock := &stampClock{}
	s := &Solver{
		trail: &Trail{clock: clock},
		stamp: clock,
		log:   cfg.logger,
		rng:   rand.New(rand.NewSource(cfg.randomSeed)),
		stats: newSolverStats(),
	}
	s.queue = newQueue(clock)
	s.monitors = append(s.monitors, &statsMonitor{stats: s.stats})
	return s
}

// Stats returns the Solver's lock-free search counters.
func (s *Solver) Stats() *SolverStats { return s.stats }

// State reports the current top-level search state.
func (s *Solver) State() SearchState { return s.state }

// AddMonitor registers an additional search observer. Monitors observe in
// registration order; the built-in stats monitor always runs first.
func (s *Solver) AddMonitor(m Monitor) { s.monitors = append(s.monitors, m) }

// SetLimit registers a LimitMonitor; a thin alias for AddMonitor kept for
// callers that want to name their intent, since PeriodicCheck is the
// generic mechanism any Monitor (not just LimitMonitor) can use to stop
// search.
func (s *Solver) SetLimit(m *LimitMonitor) {
	s.AddMonitor(m)
}

// InterruptSolve requests the current (or next) search stop at the next
// node boundary. Safe to call from any goroutine.
func (s *Solver) InterruptSolve() { s.interrupted.Store(true) }

func (s *Solver) checkInterrupted() bool { return s.interrupted.Load() }

// --- Variable construction -------------------------------------------------

// NewIntVar creates a new finite-domain integer variable ranging over
// [lo, hi].
func (s *Solver) NewIntVar(name string, lo, hi int64) *IntVar {
	id := s.nextID
	s.nextID++
	v := newIntVar(s, id, name, NewDomainRange(lo, hi))
	s.vars = append(s.vars, v)
	return v
}

// NewIntVarFromSet creates a new finite-domain integer variable whose
// initial domain is exactly the given (not necessarily contiguous) values.
func (s *Solver) NewIntVarFromSet(name string, values []int64) *IntVar {
	id := s.nextID
	s.nextID++
	v := newIntVar(s, id, name, NewDomainValues(values))
	s.vars = append(s.vars, v)
	return v
}

// NewBoolVar creates a 0/1 IntVar.
func (s *Solver) NewBoolVar(name string) *IntVar {
	return s.NewIntVar(name, 0, 1)
}

// NewIntConst creates an IntVar permanently bound to val, useful for
// passing literal values to constraints that expect a Variable.
func (s *Solver) NewIntConst(val int64) *IntVar {
	return s.NewIntVar("const", val, val)
}

// NewIntervalVar creates an interval variable with the given bounds on
// start and duration; the end variable's bounds are derived and then
// tightened by the interval's own propagation demon. performed sets the
// initial tri-valued state.
func (s *Solver) NewIntervalVar(name string, startMin, startMax, durMin, durMax int64, performed Performed) *IntervalVar {
	id := s.nextID
	s.nextID++
	start := s.NewIntVar(name+".start", startMin, startMax)
	duration := s.NewIntVar(name+".duration", durMin, durMax)
	end := s.NewIntVar(name+".end",
		saturatingAdd(startMin, durMin),
		saturatingAdd(startMax, durMax),
	)
	perf := s.NewIntVar(name+".performed", 0, 2)
	if performed != PerformedMaybe {
		perf.SetValue(int64(performed))
	}
	iv := &IntervalVar{
		id: id, name: name, solver: s,
		start: start, duration: duration, end: end, performed: perf,
		optional: performed == PerformedMaybe,
	}
	s.intervals = append(s.intervals, iv)
	iv.postDurationConstraint(s)
	return iv
}

// Vars returns every IntVar registered against this Solver, in creation
// order (this includes the synthetic start/duration/end/performed
// variables backing each IntervalVar).
func (s *Solver) Vars() []*IntVar { return s.vars }

// --- Demon / constraint registration ---------------------------------------

// MakeDemon constructs a Demon bound to fn at the given priority, named for
// tracing. Constraints call this from Post to build the demons they then
// attach to variables via IntVar.When.
func (s *Solver) MakeDemon(name string, priority Priority, fn DemonFunc) *Demon {
	return newDemon(name, priority, fn)
}

// AddConstraint posts c (registering its demons) and runs its initial
// propagation, then drains the queue to a joint fixpoint. Constraints must
// be added before search starts.
//
// If c's InitialPropagate (or a demon it triggers during the fixpoint)
// detects the model is already inconsistent, the resulting Fail is caught
// here rather than escaping to the caller: the Solver enters Infeasible
// state permanently, and every later AddConstraint/NewSearch/NextSolution
// call returns without visiting any decision, per the documented
// already-infeasible-model contract.
func (s *Solver) AddConstraint(c Constraint) {
	if s.state == Infeasible {
		return
	}
	for _, m := range s.monitors {
		m.BeginInitialPropagate(s)
	}
	failed := s.runProtected(func() {
		c.Post(s)
		c.InitialPropagate(s)
		s.queue.runToFixpoint(s)
	})
	for _, m := range s.monitors {
		m.EndInitialPropagate(s)
	}
	if failed {
		s.state = Infeasible
		s.reportFail(nil)
	}
}

// Propagate drains the queue to a joint fixpoint. Most callers never need
// this directly, since AddConstraint and the search driver already call it
// at the right points; it is exposed for callers that mutate a variable
// outside of search (e.g. tightening a bound between solves) and need
// those consequences applied before inspecting other variables.
func (s *Solver) Propagate() {
	s.queue.runToFixpoint(s)
}

// --- Search driver -----------------------------------------------------------

// NewSearch begins a search using b to produce decisions, entering
// InSearch state and running the initial fixpoint. If the model was
// already marked Infeasible by an earlier AddConstraint, this still
// notifies monitors of EnterSearch but leaves state at Infeasible and
// never runs a fixpoint or visits a decision: NextSolution will return
// false immediately.
func (s *Solver) NewSearch(b DecisionBuilder) {
	s.decisionBuilder = b
	s.frames = s.frames[:0]
	s.log.Info().Int(`vars`, len(s.vars)).Log(`enter_search`)
	for _, m := range s.monitors {
		m.EnterSearch(s)
	}
	if s.state == Infeasible {
		return
	}
	s.state = InSearch
	s.runFixpointOrFail()
}

// EndSearch leaves search mode, discarding any remaining alternatives by
// popping the trail back to the pre-search marker of the first frame (if
// any remain). The state returns to OutsideSearch, except that an
// Infeasible Solver stays Infeasible.
func (s *Solver) EndSearch() {
	if len(s.frames) > 0 {
		s.trail.PopTo(s.frames[0].mark)
		s.frames = s.frames[:0]
	}
	if s.state != Infeasible {
		s.state = OutsideSearch
	}
	s.stats.finish()
	s.log.Info().
		Int64(`branches`, s.stats.Branches()).
		Int64(`failures`, s.stats.Failures()).
		Int64(`solutions`, s.stats.Solutions()).
		Log(`exit_search`)
	for _, m := range s.monitors {
		m.ExitSearch(s)
	}
}

// runFixpointOrFail drains the queue; if a demon fails, it converts the
// panic into a backtrack by calling backtrack(). If backtracking also
// cannot recover (no frame is left to refute, as at NewSearch), state
// becomes Infeasible.
func (s *Solver) runFixpointOrFail() {
	failed := s.runProtected(func() { s.queue.runToFixpoint(s) })
	if failed {
		s.reportFail(nil)
		if !s.backtrack() {
			s.state = Infeasible
		}
	}
}

// runProtected runs fn, recovering a failSignal and reporting whether one
// occurred. Any other panic propagates.
func (s *Solver) runProtected(fn func()) (failed bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(failSignal); ok {
				failed = true
				return
			}
			panic(r)
		}
	}()
	fn()
	return false
}

// NextSolution advances the search, returning true if a new solution was
// reached (state becomes AtSolution), or false once the tree is exhausted,
// a registered monitor's PeriodicCheck requests a stop (e.g. LimitMonitor's
// time/branch/solution caps), or InterruptSolve was called. All three of
// those leave state at NoMoreSolutions. A model already found Infeasible at
// AddConstraint time returns false immediately without visiting any
// decision.
func (s *Solver) NextSolution() bool {
	if s.state == Infeasible {
		return false
	}
	if s.state == AtSolution {
		// resume search past the solution we are sitting on, as though
		// the most recent decision's Apply had been refuted
		if !s.advanceOneStep() {
			s.enterNoMoreSolutions()
			return false
		}
	}
	for {
		if s.checkInterrupted() {
			s.enterNoMoreSolutions()
			return false
		}
		if !s.periodicCheckPasses() {
			s.enterNoMoreSolutions()
			return false
		}
		dec, ok := s.decisionBuilder.Next(s)
		if !ok {
			if s.atSolutionAccepted() {
				s.state = AtSolution
				s.log.Info().Int64(`branches`, s.stats.Branches()).Log(`solution`)
				return true
			}
			// rejected: treat like a failed leaf and backtrack
			if !s.backtrack() {
				s.enterNoMoreSolutions()
				return false
			}
			continue
		}
		mark := s.trail.PushMarker(len(s.frames))
		s.frames = append(s.frames, searchFrame{dec: dec, mark: mark})
		if !s.stepApply(dec) {
			if !s.backtrack() {
				s.enterNoMoreSolutions()
				return false
			}
		}
	}
}

// periodicCheckPasses polls every monitor's PeriodicCheck, stopping at the
// first one that requests search halt.
func (s *Solver) periodicCheckPasses() bool {
	for _, m := range s.monitors {
		if !m.PeriodicCheck(s) {
			return false
		}
	}
	return true
}

// enterNoMoreSolutions transitions to NoMoreSolutions and notifies every
// monitor, the terminal-state sibling of atSolutionAccepted's AtSolution
// notification.
func (s *Solver) enterNoMoreSolutions() {
	s.state = NoMoreSolutions
	for _, m := range s.monitors {
		m.NoMoreSolutions(s)
	}
}

// atSolutionAccepted runs every monitor's AtSolution hook. A monitor may
// itself mutate variables (e.g. ObjectiveMonitor tightening the objective
// bound), which can fail immediately; that is treated the same as a
// rejecting monitor, since either way the driver should backtrack rather
// than report a solution.
func (s *Solver) atSolutionAccepted() bool {
	accepted := true
	failed := s.runProtected(func() {
		for _, m := range s.monitors {
			if !m.AtSolution(s) {
				accepted = false
				return
			}
		}
		s.queue.runToFixpoint(s)
	})
	if failed {
		s.reportFail(nil)
		return false
	}
	return accepted
}

// stepApply applies dec's left branch and runs it to fixpoint, returning
// false if that branch failed immediately.
func (s *Solver) stepApply(dec Decision) bool {
	for _, m := range s.monitors {
		m.BeginApply(s, dec)
	}
	failed := s.runProtected(func() { dec.Apply(s) })
	if failed {
		s.reportFail(nil)
		return false
	}
	failed = s.runProtected(func() { s.queue.runToFixpoint(s) })
	if failed {
		s.reportFail(nil)
		return false
	}
	return true
}

// advanceOneStep discards the solution we are sitting at and resumes
// search by backtracking one frame, so the decision sequence's right
// branches still get explored.
func (s *Solver) advanceOneStep() bool {
	return s.backtrack()
}

func (s *Solver) reportFail(cause error) {
	s.trail.clock.recordFail()
	if cause != nil {
		s.log.Debug().Err(cause).Log(`fail`)
	} else {
		s.log.Debug().Log(`fail`)
	}
	for _, m := range s.monitors {
		m.AfterFail(s, cause)
	}
}

// backtrack pops the most recent frame not yet refuted, undoes to its
// pre-decision trail marker, and tries the refute branch. If every frame
// has already tried both branches, search is exhausted and this returns
// false.
func (s *Solver) backtrack() bool {
	s.trail.clock.recordFail()
	for len(s.frames) > 0 {
		top := &s.frames[len(s.frames)-1]
		s.trail.PopTo(top.mark)
		if top.tried {
			s.frames = s.frames[:len(s.frames)-1]
			continue
		}
		top.tried = true
		dec := top.dec
		for _, m := range s.monitors {
			m.BeginRefute(s, dec)
		}
		failed := s.runProtected(func() { dec.Refute(s) })
		if !failed {
			failed = s.runProtected(func() { s.queue.runToFixpoint(s) })
		}
		if failed {
			s.reportFail(nil)
			continue
		}
		return true
	}
	return false
}

// Solve is a convenience wrapper that runs NewSearch/NextSolution in a loop
// and collects every solution as an Assignment, up to max (0 means
// unlimited). It restores OutsideSearch state before returning, unless the
// Solver is Infeasible.
func (s *Solver) Solve(b DecisionBuilder, max int) []Assignment {
	var out []Assignment
	s.NewSearch(b)
	for s.NextSolution() {
		out = append(out, s.snapshotAssignment())
		if max > 0 && len(out) >= max {
			break
		}
	}
	s.EndSearch()
	return out
}

// CurrentAssignment snapshots the bound variables at the current search
// node. Callers typically use this right after NextSolution returns true,
// since the snapshot reflects whatever is bound at the moment it is taken,
// not necessarily a complete solution.
func (s *Solver) CurrentAssignment() Assignment {
	return s.snapshotAssignment()
}

// CheckAssignment reports whether every registered variable is currently
// bound, without performing any search. It does not re-check the posted
// constraints against the bound values: the Solver keeps no list of its
// constraints, only the demons they registered.
func (s *Solver) CheckAssignment() bool {
	for _, v := range s.vars {
		if !v.Bound() {
			return false
		}
	}
	return true
}
