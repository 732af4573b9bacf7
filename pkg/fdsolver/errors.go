package fdsolver

import "errors"

// Error taxonomy, per spec.md §7.
//
// Fail is not a Go error at all: it is search-level failure (a domain went
// empty, a propagator detected infeasibility, a monitor rejected a
// solution) and is recovered by the nearest enclosing search frame without
// ever reaching the caller as a returned error. It is implemented as a
// typed panic value recovered in exactly one function, Solver.runProtected
// (solver.go), which wraps every driver step that can fail, per the Design
// Notes' option (i).
//
// ModelError, Limit and StateError are ordinary Go errors.

var (
	// ErrDomainEmpty is wrapped into a failSignal when a mutator would
	// leave a domain with zero members. Exposed for propagators that want
	// to recognize the cause of a Fail after the fact (e.g. in a test).
	ErrDomainEmpty = errors.New("fdsolver: domain became empty")

	// ErrOutOfRange is a ModelError: a bound supplied to the builder falls
	// outside [MinValidValue, MaxValidValue].
	ErrOutOfRange = errors.New("fdsolver: value outside valid range")

	// ErrMismatchedLengths is a ModelError raised when a constraint
	// constructor receives parallel slices of differing lengths.
	ErrMismatchedLengths = errors.New("fdsolver: mismatched slice lengths")

	// ErrForeignVariable is a ModelError raised when a Variable or
	// IntervalVar created by a different Solver is passed to this one.
	ErrForeignVariable = errors.New("fdsolver: variable does not belong to this solver")

	// ErrSearchInProgress is a StateError: the model was mutated, or a
	// search-only operation was invoked, while a search is already
	// running.
	ErrSearchInProgress = errors.New("fdsolver: operation not permitted while a search is active")

	// ErrNoActiveSearch is a StateError: NextSolution or EndSearch was
	// called without a preceding NewSearch.
	ErrNoActiveSearch = errors.New("fdsolver: no active search (call NewSearch first)")
)

// ModelError wraps a builder-time validation failure, naming the operation
// that rejected its input. The Solver's builder methods do not return it:
// NewIntVar with lo > hi and NewIntVarFromSet with no values panic instead.
type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string {
	return "fdsolver: model error in " + e.Op + ": " + e.Err.Error()
}

func (e *ModelError) Unwrap() error { return e.Err }

func newModelError(op string, err error) *ModelError {
	return &ModelError{Op: op, Err: err}
}

// StateError reports API misuse: modifying the model mid-search, or
// calling search operations out of order. The Solver's methods do not
// return it: AddConstraint and NextSolution do not check the search state
// before acting.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return "fdsolver: state error in " + e.Op + ": " + e.Err.Error()
}

func (e *StateError) Unwrap() error { return e.Err }

func newStateError(op string, err error) *StateError {
	return &StateError{Op: op, Err: err}
}

// LimitError marks a search outcome that stopped early because of a
// caller-configured cap (time, branches, solutions) or an explicit
// InterruptSolve, rather than genuine infeasibility. The Solver does not
// produce it: a stopped search makes NextSolution/Solve return false and
// leaves state at NoMoreSolutions, exactly as an exhausted tree does, and
// no Solver method tells the two apart afterwards.
type LimitError struct {
	Reason string
}

func (e *LimitError) Error() string {
	return "fdsolver: search limit reached: " + e.Reason
}

// failSignal is the internal panic payload implementing Fail. It is never
// exposed outside this package: Solver.runProtected recovers it, and its
// callers convert it into backtracking (or, in AddConstraint, into the
// Infeasible state).
type failSignal struct {
	cause error
}

// fail raises a Fail. Any domain mutator, any propagator, and the search
// driver itself may call this; control never returns to the caller.
func fail(cause error) {
	panic(failSignal{cause: cause})
}

// recoverFail recovers a failSignal panic, if any, returning its cause and
// true. Any other panic value is re-raised unchanged. Fail is the only
// control-flow panic this package produces.
func recoverFail() (cause error, failed bool) {
	if r := recover(); r != nil {
		if sig, ok := r.(failSignal); ok {
			return sig.cause, true
		}
		panic(r)
	}
	return nil, false
}
