package constraints

import (
	"errors"

	"github.com/gitrdm/gokanfd/pkg/fdsolver"
)

var ErrElementEmptyTable = errors.New("constraints: values table cannot be empty")

// Element enforces result == values[index], where index is a 0-based
// finite-domain variable and values is a fixed table of constants.
// Propagation is arc-consistent over the table: the index domain is pruned
// to entries whose value is still admissible for result, and result is
// pruned to the set of values reachable from the index domain.
type Element struct {
	index  *fdsolver.IntVar
	values []int64
	result *fdsolver.IntVar
}

// NewElement builds an Element constraint. values must be non-empty.
func NewElement(index *fdsolver.IntVar, values []int64, result *fdsolver.IntVar) (*Element, error) {
	if len(values) == 0 {
		return nil, ErrElementEmptyTable
	}
	vcopy := make([]int64, len(values))
	copy(vcopy, values)
	return &Element{index: index, values: vcopy, result: result}, nil
}

func (c *Element) propagate(s *fdsolver.Solver) error {
	c.index.SetRange(0, int64(len(c.values)-1))

	var reachable []int64
	c.index.IterateValues(func(i int64) {
		reachable = append(reachable, c.values[i])
	})
	c.result.SetValues(reachable)

	var validIdx []int64
	c.index.IterateValues(func(i int64) {
		if c.result.Contains(c.values[i]) {
			validIdx = append(validIdx, i)
		}
	})
	c.index.SetValues(validIdx)
	return nil
}

func (c *Element) Post(s *fdsolver.Solver) {
	d := s.MakeDemon("element", fdsolver.PriorityNormal, c.propagate)
	c.index.When(fdsolver.EventDomainChanged, d)
	c.result.When(fdsolver.EventDomainChanged, d)
}

func (c *Element) InitialPropagate(s *fdsolver.Solver) {
	_ = c.propagate(s)
}
