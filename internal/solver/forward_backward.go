package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/proxsplit/internal/fn"
)

// Method selects the forward-backward acceleration scheme.
type Method string

const (
	// ISTA is the basic iterative shrinkage-thresholding update, optionally
	// relaxed by the Lambda update rate.
	ISTA Method = "ISTA"

	// FISTA adds Nesterov-style momentum to ISTA. It is the default.
	FISTA Method = "FISTA"
)

// ForwardBackwardConfig holds configuration for a forward-backward solver.
// Zero values select the defaults noted per field.
type ForwardBackwardConfig struct {
	// Gamma is the step size for both the gradient and the proximal step.
	// It is fixed for the whole run; there is no adaptive decay. Must be
	// strictly positive. Default: 1.0.
	Gamma float64

	// Lambda is the ISTA update rate in (0, 1]: the new iterate is
	// x + Lambda*(p - x) where p is the proximal result. Ignored by FISTA.
	// Default: 1.0.
	Lambda float64

	// Method selects ISTA or FISTA. Default: FISTA.
	Method Method
}

// ForwardBackward alternates a gradient step on the smooth terms with a
// proximal step on the non-smooth term:
//
//	v       = z_k - gamma * sum grad_i(z_k)   over smooth terms
//	x_{k+1} = prox_{gamma*f}(v)               for the proximal-role term f
//
// where z_k is the current iterate (ISTA) or the momentum point (FISTA).
// With no proximal-role term the proximal step is the identity and the
// scheme reduces to plain gradient descent.
type ForwardBackward struct {
	gamma  float64
	lambda float64
	method Method

	smooth   []fn.Gradient
	proximal fn.Proximable // nil when every term is smooth

	// FISTA state, reset by Init.
	un []float64
	tn float64
}

// NewForwardBackward creates a forward-backward solver from cfg, applying
// defaults for zero-valued fields and validating the rest.
func NewForwardBackward(cfg ForwardBackwardConfig) (*ForwardBackward, error) {
	if cfg.Gamma == 0 {
		cfg.Gamma = 1.0
	}
	if cfg.Lambda == 0 {
		cfg.Lambda = 1.0
	}
	if cfg.Method == "" {
		cfg.Method = FISTA
	}

	if cfg.Gamma < 0 {
		return nil, &fn.InvalidParameterError{
			Param:  "gamma",
			Reason: "step size must be strictly positive",
		}
	}
	if cfg.Lambda < 0 || cfg.Lambda > 1 {
		return nil, &fn.InvalidParameterError{
			Param:  "lambda",
			Reason: "update rate must be in (0, 1]",
		}
	}
	if cfg.Method != ISTA && cfg.Method != FISTA {
		return nil, &fn.InvalidParameterError{
			Param:  "method",
			Reason: fmt.Sprintf("unknown method %q", cfg.Method),
		}
	}

	return &ForwardBackward{
		gamma:  cfg.Gamma,
		lambda: cfg.Lambda,
		method: cfg.Method,
	}, nil
}

// Gamma returns the configured step size.
func (s *ForwardBackward) Gamma() float64 { return s.gamma }

// Method returns the configured acceleration scheme.
func (s *ForwardBackward) Method() Method { return s.method }

// Init partitions the terms into the smooth subset and the proximal-role
// term, and resets per-run state.
//
// At most one term can hold the proximal role, since the proximal operator
// of a sum has no closed form in general. A term without a gradient takes
// the role; when every term is smooth the first prox-capable one takes it;
// with no prox-capable term the proximal step is the identity. Every term
// outside the proximal role must support the gradient, otherwise Init fails
// with a MissingCapabilityError before any iteration runs.
func (s *ForwardBackward) Init(terms []fn.Func, x0 []float64) error {
	s.smooth = s.smooth[:0]
	s.proximal = nil

	// Terms that cannot take the gradient role claim the proximal slot.
	for _, t := range terms {
		if _, ok := t.(fn.Gradient); ok {
			continue
		}
		p, ok := t.(fn.Proximable)
		if !ok {
			return &MissingCapabilityError{
				Term:       t.Name(),
				Capability: "grad",
				Reason:     "term supports neither grad nor prox",
			}
		}
		if s.proximal != nil {
			return &MissingCapabilityError{
				Term:       t.Name(),
				Capability: "grad",
				Reason: fmt.Sprintf(
					"proximal step already taken by %q and a sum of non-smooth terms has no closed-form prox",
					s.proximal.Name()),
			}
		}
		s.proximal = p
	}

	// When all terms are smooth, the first prox-capable one still takes the
	// proximal role so the backward step is exercised (this mirrors giving
	// the leading term the prox role in the two-term case).
	if s.proximal == nil {
		for _, t := range terms {
			if p, ok := t.(fn.Proximable); ok {
				s.proximal = p
				break
			}
		}
	}

	for _, t := range terms {
		if fn.Func(s.proximal) == t {
			continue
		}
		g, ok := t.(fn.Gradient)
		if !ok {
			return &MissingCapabilityError{Term: t.Name(), Capability: "grad"}
		}
		s.smooth = append(s.smooth, g)
	}

	s.un = append(s.un[:0], x0...)
	s.tn = 1
	return nil
}

// Step computes the next iterate from x. Init must have been called first.
func (s *ForwardBackward) Step(x []float64) ([]float64, error) {
	if s.method == ISTA {
		return s.stepISTA(x)
	}
	return s.stepFISTA(x)
}

func (s *ForwardBackward) stepISTA(x []float64) ([]float64, error) {
	p, err := s.forwardBackward(x)
	if err != nil {
		return nil, err
	}
	// Relaxed update: x + lambda*(p - x).
	next := make([]float64, len(x))
	for i := range x {
		next[i] = x[i] + s.lambda*(p[i]-x[i])
	}
	return next, nil
}

func (s *ForwardBackward) stepFISTA(x []float64) ([]float64, error) {
	p, err := s.forwardBackward(s.un)
	if err != nil {
		return nil, err
	}
	tn1 := (1 + math.Sqrt(1+4*s.tn*s.tn)) / 2
	for i := range s.un {
		s.un[i] = p[i] + (s.tn-1)/tn1*(p[i]-x[i])
	}
	s.tn = tn1
	return p, nil
}

// forwardBackward applies the gradient step at z followed by the proximal
// step, returning a fresh vector.
func (s *ForwardBackward) forwardBackward(z []float64) ([]float64, error) {
	v := append([]float64(nil), z...)
	for _, g := range s.smooth {
		grad, err := g.Grad(z)
		if err != nil {
			return nil, err
		}
		floats.AddScaled(v, -s.gamma, grad)
	}
	if s.proximal == nil {
		return v, nil
	}
	return s.proximal.Prox(v, s.gamma)
}
