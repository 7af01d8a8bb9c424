package fn

import "gonum.org/v1/gonum/floats"

// Composite aggregates an ordered set of objective terms. The total
// objective is the plain sum of the member evaluations; there is no
// coupling between terms. Order is preserved for deterministic per-term
// reporting.
type Composite struct {
	terms []Func
}

// NewComposite creates a composite objective over the given terms.
// The term slice is copied; the terms themselves are shared.
func NewComposite(terms ...Func) *Composite {
	return &Composite{terms: append([]Func(nil), terms...)}
}

// Terms returns the member terms in set order.
func (c *Composite) Terms() []Func {
	return append([]Func(nil), c.terms...)
}

// Len returns the number of member terms.
func (c *Composite) Len() int { return len(c.terms) }

// Names returns the member term labels in set order.
func (c *Composite) Names() []string {
	names := make([]string, len(c.terms))
	for i, t := range c.terms {
		names[i] = t.Name()
	}
	return names
}

// Eval computes the total objective: the sum of all member evaluations.
func (c *Composite) Eval(x []float64) (float64, error) {
	vals, err := c.EvalEach(x)
	if err != nil {
		return 0, err
	}
	return floats.Sum(vals), nil
}

// EvalEach computes every member's objective value at x, in set order.
func (c *Composite) EvalEach(x []float64) ([]float64, error) {
	vals := make([]float64, len(c.terms))
	for i, t := range c.terms {
		v, err := t.Eval(x)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
