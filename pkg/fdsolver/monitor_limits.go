package fdsolver

import "time"

// LimitMonitor stops search once any configured bound is exceeded, by
// implementing PeriodicCheck (for time and branch ceilings, polled at each
// node) and AtSolution (to count solutions). This mirrors the deadline
// field on Gini's solver control block: a plain wall-clock comparison
// checked at node boundaries, not a goroutine-based timeout.
type LimitMonitor struct {
	EmbeddableMonitor

	deadline     time.Time // zero means no time limit
	maxBranches  int64     // zero means no limit
	maxSolutions int64     // zero means no limit

	solutionsSeen int64
}

// NewLimitMonitor builds a LimitMonitor; zero values disable the
// corresponding limit.
func NewLimitMonitor(timeLimit time.Duration, maxBranches, maxSolutions int64) *LimitMonitor {
	m := &LimitMonitor{maxBranches: maxBranches, maxSolutions: maxSolutions}
	if timeLimit > 0 {
		m.deadline = time.Now().Add(timeLimit)
	}
	return m
}

// PeriodicCheck reports whether search may continue: false once any
// configured limit has been crossed. The driver polls every monitor's
// PeriodicCheck at the top of each NextSolution iteration.
func (m *LimitMonitor) PeriodicCheck(s *Solver) bool {
	if !m.deadline.IsZero() && !time.Now().Before(m.deadline) {
		return false
	}
	if m.maxBranches > 0 && s.Stats().Branches() >= m.maxBranches {
		return false
	}
	if m.maxSolutions > 0 && m.solutionsSeen >= m.maxSolutions {
		return false
	}
	return true
}

func (m *LimitMonitor) AtSolution(s *Solver) bool {
	m.solutionsSeen++
	return true
}
