package fdsolver

import (
	"sync/atomic"
	"time"
)

// Monitor observes search events. It does not choose decisions (that is
// DecisionBuilder's job), but AtSolution can reject a solution and
// PeriodicCheck can stop the search. Every method has a no-op default via
// EmbeddableMonitor, so callers implement only the hooks they care about.
type Monitor interface {
	EnterSearch(s *Solver)
	ExitSearch(s *Solver)
	BeginInitialPropagate(s *Solver)
	EndInitialPropagate(s *Solver)
	BeginApply(s *Solver, d Decision)
	BeginRefute(s *Solver, d Decision)
	AfterFail(s *Solver, cause error)
	AtSolution(s *Solver) bool // false rejects the solution and resumes search
	NoMoreSolutions(s *Solver)
	// PeriodicCheck is polled at the top of every NextSolution iteration,
	// before each decision. false requests the search stop at this poll
	// point, the same as exhausting the tree (state becomes
	// NoMoreSolutions). This is the only hook a monitor needs to implement
	// its own cancellation policy; LimitMonitor is one such policy, not a
	// special case the driver knows about directly.
	PeriodicCheck(s *Solver) bool
}

// EmbeddableMonitor gives every hook a no-op body; concrete monitors embed
// it and override only what they need, the same partial-interface pattern
// the example pack's demon.Demon adapter uses for Constraint.
type EmbeddableMonitor struct{}

func (EmbeddableMonitor) EnterSearch(s *Solver)             {}
func (EmbeddableMonitor) ExitSearch(s *Solver)              {}
func (EmbeddableMonitor) BeginInitialPropagate(s *Solver)   {}
func (EmbeddableMonitor) EndInitialPropagate(s *Solver)     {}
func (EmbeddableMonitor) BeginApply(s *Solver, d Decision)  {}
func (EmbeddableMonitor) BeginRefute(s *Solver, d Decision) {}
func (EmbeddableMonitor) AfterFail(s *Solver, cause error)  {}
func (EmbeddableMonitor) AtSolution(s *Solver) bool         { return true }
func (EmbeddableMonitor) NoMoreSolutions(s *Solver)         {}
func (EmbeddableMonitor) PeriodicCheck(s *Solver) bool      { return true }

// SolverStats holds lock-free search counters, mirroring the atomic
// bookkeeping style used elsewhere in this package for cross-goroutine
// safety under a parallel portfolio (internal/parallel).
type SolverStats struct {
	branches  atomic.Int64
	failures  atomic.Int64
	solutions atomic.Int64
	wallStart time.Time
	wallTime  atomic.Int64 // nanoseconds, written once at EndSearch
}

func newSolverStats() *SolverStats {
	return &SolverStats{wallStart: time.Now()}
}

func (st *SolverStats) Branches() int64  { return st.branches.Load() }
func (st *SolverStats) Failures() int64  { return st.failures.Load() }
func (st *SolverStats) Solutions() int64 { return st.solutions.Load() }
func (st *SolverStats) WallTime() time.Duration {
	return time.Duration(st.wallTime.Load())
}

func (st *SolverStats) recordBranch()   { st.branches.Add(1) }
func (st *SolverStats) recordFailure()  { st.failures.Add(1) }
func (st *SolverStats) recordSolution() { st.solutions.Add(1) }
func (st *SolverStats) finish() {
	st.wallTime.Store(int64(time.Since(st.wallStart)))
}

// statsMonitor feeds SolverStats from the search driver's own events; it is
// always installed first so every other monitor observes counters that are
// already up to date for the current node.
type statsMonitor struct {
	EmbeddableMonitor
	stats *SolverStats
}

func (m *statsMonitor) BeginApply(s *Solver, d Decision)  { m.stats.recordBranch() }
func (m *statsMonitor) BeginRefute(s *Solver, d Decision) { m.stats.recordBranch() }
func (m *statsMonitor) AfterFail(s *Solver, cause error)  { m.stats.recordFailure() }
func (m *statsMonitor) AtSolution(s *Solver) bool {
	m.stats.recordSolution()
	return true
}
