package constraints

import "github.com/gitrdm/gokanfd/pkg/fdsolver"

// AllDifferent enforces pairwise distinctness over vars using
// forward-checking only: whenever a variable becomes bound, its value is
// removed from every other variable's domain. This is deliberately the
// weaker of the two classic AllDifferent filterings (the stronger one,
// Hall-interval / matching-based, is out of scope for this constraint
// library); forward-checking is enough to prune many models and is cheap
// per propagation step.
type AllDifferent struct {
	vars []*fdsolver.IntVar
}

func NewAllDifferent(vars []*fdsolver.IntVar) *AllDifferent {
	return &AllDifferent{vars: vars}
}

func (c *AllDifferent) Post(s *fdsolver.Solver) {
	for i, v := range c.vars {
		i := i
		fn := func(s *fdsolver.Solver) error {
			if !c.vars[i].Bound() {
				return nil
			}
			val := c.vars[i].Value()
			for j, other := range c.vars {
				if j == i {
					continue
				}
				other.RemoveValue(val)
			}
			return nil
		}
		d := s.MakeDemon("all-different", fdsolver.PriorityNormal, fn)
		v.When(fdsolver.EventBound, d)
	}
}

func (c *AllDifferent) InitialPropagate(s *fdsolver.Solver) {
	for i, v := range c.vars {
		if !v.Bound() {
			continue
		}
		val := v.Value()
		for j, other := range c.vars {
			if j == i {
				continue
			}
			other.RemoveValue(val)
		}
	}
}
