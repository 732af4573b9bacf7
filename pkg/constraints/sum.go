package constraints

import (
	"errors"

	"github.com/gitrdm/gokanfd/pkg/fdsolver"
)

var ErrLinearSumLength = errors.New("constraints: len(vars) != len(coeffs)")

// LinearSum enforces sum(coeffs[i]*vars[i]) == total using bounds
// consistency: total is pruned to the sum's admissible interval, and each
// vars[i] is pruned from the residual once every other term's extremes are
// known. Mixed-sign coefficients are supported.
type LinearSum struct {
	vars   []*fdsolver.IntVar
	coeffs []int64
	total  *fdsolver.IntVar
}

// NewLinearSum builds a LinearSum constraint. len(vars) must equal
// len(coeffs) and both must be non-empty.
func NewLinearSum(vars []*fdsolver.IntVar, coeffs []int64, total *fdsolver.IntVar) (*LinearSum, error) {
	if len(vars) == 0 || len(vars) != len(coeffs) {
		return nil, ErrLinearSumLength
	}
	return &LinearSum{vars: vars, coeffs: coeffs, total: total}, nil
}

func (c *LinearSum) termMin(i int) int64 {
	if c.coeffs[i] >= 0 {
		return c.coeffs[i] * c.vars[i].Min()
	}
	return c.coeffs[i] * c.vars[i].Max()
}

func (c *LinearSum) termMax(i int) int64 {
	if c.coeffs[i] >= 0 {
		return c.coeffs[i] * c.vars[i].Max()
	}
	return c.coeffs[i] * c.vars[i].Min()
}

func (c *LinearSum) propagate(s *fdsolver.Solver) error {
	var sumMin, sumMax int64
	for i := range c.vars {
		sumMin += c.termMin(i)
		sumMax += c.termMax(i)
	}
	c.total.SetRange(sumMin, sumMax)

	for i := range c.vars {
		otherMin := sumMin - c.termMin(i)
		otherMax := sumMax - c.termMax(i)
		lo := c.total.Min() - otherMax
		hi := c.total.Max() - otherMin
		a := c.coeffs[i]
		if a == 0 {
			continue
		}
		if a > 0 {
			c.vars[i].SetRange(ceilDiv(lo, a), floorDiv(hi, a))
		} else {
			c.vars[i].SetRange(ceilDiv(hi, a), floorDiv(lo, a))
		}
	}
	return nil
}

func (c *LinearSum) Post(s *fdsolver.Solver) {
	d := s.MakeDemon("linear-sum", fdsolver.PriorityNormal, c.propagate)
	for _, v := range c.vars {
		v.When(fdsolver.EventBoundTightenedMin, d)
		v.When(fdsolver.EventBoundTightenedMax, d)
	}
	c.total.When(fdsolver.EventBoundTightenedMin, d)
	c.total.When(fdsolver.EventBoundTightenedMax, d)
}

func (c *LinearSum) InitialPropagate(s *fdsolver.Solver) {
	_ = c.propagate(s)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}
