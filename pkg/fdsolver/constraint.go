package fdsolver

// Constraint is implemented by every propagator: arithmetic, logical, or
// global. The core never inspects a Constraint's internals; it only calls
// Post and InitialPropagate once each (when AddConstraint registers it) and
// relies on the demons Post creates to do everything else. This is the "pure function over
// variable events" contract spec.md §1 promises: a correct kernel lets any
// Constraint be written against Solver.MakeDemon, IntVar.When, and the
// Domain mutators alone.
//
// Concrete constraints (Equal, AllDifferent, LinearSum, ...) live in the
// sibling constraints package and are deliberately ordinary client code:
// they import fdsolver, they do not get any special access the demon/queue
// API does not already provide.
type Constraint interface {
	// Post registers this constraint's demons with its variables. Called
	// exactly once, before search starts, in the order AddConstraint
	// received the constraints.
	Post(s *Solver)

	// InitialPropagate seeds the fixpoint with the constraint's initial
	// consequences. Called exactly once, immediately after Post, before
	// any other constraint's InitialPropagate may interleave with this
	// one's demons: each constraint is fully posted, then its initial
	// propagation runs, then the queue (which may now hold demons from
	// earlier constraints as well) drains to a joint fixpoint.
	InitialPropagate(s *Solver)
}

// ConstraintFunc adapts two plain functions into a Constraint, for small
// in-line constraints (tests, examples) that do not warrant a named type.
type ConstraintFunc struct {
	PostFunc    func(s *Solver)
	InitialFunc func(s *Solver)
}

func (c *ConstraintFunc) Post(s *Solver) { c.PostFunc(s) }

func (c *ConstraintFunc) InitialPropagate(s *Solver) {
	if c.InitialFunc != nil {
		c.InitialFunc(s)
	}
}
