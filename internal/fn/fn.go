// Package fn provides the objective terms that make up a composite
// optimization problem. Each term exposes at least evaluation; terms may
// additionally expose a gradient (smooth terms) or a proximal operator
// (non-smooth terms). Solvers discover capabilities by type assertion
// against the Gradient and Proximable interfaces.
package fn

// Func is the minimal contract every objective term satisfies.
type Func interface {
	// Name returns the term's label, used in reports and error messages.
	Name() string

	// Eval computes the term's objective value at x.
	// Returns a DimensionError if x does not match the term's dimension.
	Eval(x []float64) (float64, error)
}

// Gradient is implemented by terms differentiable everywhere (the smooth
// part of the objective).
type Gradient interface {
	Func

	// Grad computes the gradient at x. The result has the same dimension as x.
	Grad(x []float64) ([]float64, error)
}

// Proximable is implemented by terms with a computable proximal operator
// (the non-smooth part of the objective).
type Proximable interface {
	Func

	// Prox computes the proximal operator of the term scaled by gamma:
	// argmin_z term(z) + ||z-x||^2 / (2*gamma).
	// gamma must be strictly positive; otherwise an InvalidParameterError
	// is returned.
	Prox(x []float64, gamma float64) ([]float64, error)
}

// checkDim validates that x has the expected dimension for a term.
func checkDim(term, op string, x []float64, want int) error {
	if len(x) != want {
		return &DimensionError{Term: term, Op: op, Want: want, Got: len(x)}
	}
	return nil
}

// checkGamma validates the proximal step parameter.
func checkGamma(term string, gamma float64) error {
	if gamma <= 0 {
		return &InvalidParameterError{
			Term:   term,
			Param:  "gamma",
			Reason: "must be strictly positive",
		}
	}
	return nil
}

func clone(x []float64) []float64 {
	return append([]float64(nil), x...)
}
