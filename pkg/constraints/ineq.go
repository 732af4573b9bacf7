// Package constraints implements a small library of concrete propagators
// (arithmetic, ordering, and a couple of globals) on top of fdsolver. These
// are deliberately ordinary client code: they only use the exported
// Solver/IntVar/Demon/Constraint surface, no privileged access.
//
//go:generate go run ../../scripts/generate_examples_manifest -pkg . -out examples_index.json
package constraints

import "github.com/gitrdm/gokanfd/pkg/fdsolver"

// Equal posts x == y, maintained by mutual bound tightening in both
// directions plus hole-copying on domain change.
type Equal struct {
	X, Y *fdsolver.IntVar
}

func (c *Equal) Post(s *fdsolver.Solver) {
	tighten := func(s *fdsolver.Solver) error {
		c.X.SetRange(c.Y.Min(), c.Y.Max())
		c.Y.SetRange(c.X.Min(), c.X.Max())
		return nil
	}
	d := s.MakeDemon("equal", fdsolver.PriorityNormal, tighten)
	c.X.When(fdsolver.EventBoundTightenedMin, d)
	c.X.When(fdsolver.EventBoundTightenedMax, d)
	c.Y.When(fdsolver.EventBoundTightenedMin, d)
	c.Y.When(fdsolver.EventBoundTightenedMax, d)

	holes := func(s *fdsolver.Solver) error {
		c.X.HoleIter(func(v int64) { c.Y.RemoveValue(v) })
		c.Y.HoleIter(func(v int64) { c.X.RemoveValue(v) })
		return nil
	}
	hd := s.MakeDemon("equal:holes", fdsolver.PriorityNormal, holes)
	c.X.When(fdsolver.EventValueRemoved, hd)
	c.Y.When(fdsolver.EventValueRemoved, hd)
}

func (c *Equal) InitialPropagate(s *fdsolver.Solver) {
	c.X.SetRange(c.Y.Min(), c.Y.Max())
	c.Y.SetRange(c.X.Min(), c.X.Max())
}

// NotEqual posts x != y. Propagation only does anything once one side is
// bound, at which point it removes that value from the other side.
type NotEqual struct {
	X, Y *fdsolver.IntVar
}

func (c *NotEqual) Post(s *fdsolver.Solver) {
	fn := func(s *fdsolver.Solver) error {
		if c.X.Bound() {
			c.Y.RemoveValue(c.X.Value())
		}
		if c.Y.Bound() {
			c.X.RemoveValue(c.Y.Value())
		}
		return nil
	}
	d := s.MakeDemon("not-equal", fdsolver.PriorityNormal, fn)
	c.X.When(fdsolver.EventBound, d)
	c.Y.When(fdsolver.EventBound, d)
}

func (c *NotEqual) InitialPropagate(s *fdsolver.Solver) {
	if c.X.Bound() {
		c.Y.RemoveValue(c.X.Value())
	}
	if c.Y.Bound() {
		c.X.RemoveValue(c.Y.Value())
	}
}

// LessOrEqual posts x <= y.
type LessOrEqual struct {
	X, Y *fdsolver.IntVar
}

func (c *LessOrEqual) Post(s *fdsolver.Solver) {
	fn := func(s *fdsolver.Solver) error {
		c.X.SetMax(c.Y.Max())
		c.Y.SetMin(c.X.Min())
		return nil
	}
	d := s.MakeDemon("less-or-equal", fdsolver.PriorityNormal, fn)
	c.X.When(fdsolver.EventBoundTightenedMin, d)
	c.X.When(fdsolver.EventBoundTightenedMax, d)
	c.Y.When(fdsolver.EventBoundTightenedMin, d)
	c.Y.When(fdsolver.EventBoundTightenedMax, d)
}

func (c *LessOrEqual) InitialPropagate(s *fdsolver.Solver) {
	c.X.SetMax(c.Y.Max())
	c.Y.SetMin(c.X.Min())
}
