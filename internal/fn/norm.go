package fn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NormL2 is the weighted squared Euclidean distance to a target vector y:
//
//	eval(x) = w * ||x - y||^2
//
// It is smooth and has a closed-form proximal operator, so it can serve
// either role in a splitting scheme.
type NormL2 struct {
	y      []float64
	weight float64
}

// NewNormL2 creates an L2-norm term with target y and unit weight.
// The target is copied; the term never mutates or aliases caller data.
func NewNormL2(y []float64) *NormL2 {
	return &NormL2{y: clone(y), weight: 1}
}

// NewNormL2Weighted creates an L2-norm term scaled by weight.
// The weight must be strictly positive.
func NewNormL2Weighted(y []float64, weight float64) (*NormL2, error) {
	if weight <= 0 {
		return nil, &InvalidParameterError{
			Term:   "norm_l2",
			Param:  "weight",
			Reason: "must be strictly positive",
		}
	}
	return &NormL2{y: clone(y), weight: weight}, nil
}

func (f *NormL2) Name() string { return "norm_l2" }

// Dim returns the dimension of the target vector.
func (f *NormL2) Dim() int { return len(f.y) }

func (f *NormL2) Eval(x []float64) (float64, error) {
	if err := checkDim(f.Name(), "eval", x, len(f.y)); err != nil {
		return 0, err
	}
	d := floats.Distance(x, f.y, 2)
	return f.weight * d * d, nil
}

// Grad computes 2*w*(x - y).
func (f *NormL2) Grad(x []float64) ([]float64, error) {
	if err := checkDim(f.Name(), "grad", x, len(f.y)); err != nil {
		return nil, err
	}
	g := make([]float64, len(x))
	floats.SubTo(g, x, f.y)
	floats.Scale(2*f.weight, g)
	return g, nil
}

// Prox solves argmin_z w*||z-y||^2 + ||z-x||^2/(2*gamma) in closed form:
//
//	prox(x) = (x + 2*gamma*w*y) / (1 + 2*gamma*w)
func (f *NormL2) Prox(x []float64, gamma float64) ([]float64, error) {
	if err := checkDim(f.Name(), "prox", x, len(f.y)); err != nil {
		return nil, err
	}
	if err := checkGamma(f.Name(), gamma); err != nil {
		return nil, err
	}
	p := make([]float64, len(x))
	floats.AddScaledTo(p, x, 2*gamma*f.weight, f.y)
	floats.Scale(1/(1+2*gamma*f.weight), p)
	return p, nil
}

// NormL1 is the weighted L1 distance to a target vector y:
//
//	eval(x) = w * ||x - y||_1
//
// It is non-smooth, so it exposes no gradient. Its proximal operator is
// soft-thresholding around the target.
type NormL1 struct {
	y      []float64
	weight float64
}

// NewNormL1 creates an L1-norm term with target y and unit weight.
func NewNormL1(y []float64) *NormL1 {
	return &NormL1{y: clone(y), weight: 1}
}

// NewNormL1Weighted creates an L1-norm term scaled by weight.
// The weight must be strictly positive.
func NewNormL1Weighted(y []float64, weight float64) (*NormL1, error) {
	if weight <= 0 {
		return nil, &InvalidParameterError{
			Term:   "norm_l1",
			Param:  "weight",
			Reason: "must be strictly positive",
		}
	}
	return &NormL1{y: clone(y), weight: weight}, nil
}

func (f *NormL1) Name() string { return "norm_l1" }

// Dim returns the dimension of the target vector.
func (f *NormL1) Dim() int { return len(f.y) }

func (f *NormL1) Eval(x []float64) (float64, error) {
	if err := checkDim(f.Name(), "eval", x, len(f.y)); err != nil {
		return 0, err
	}
	return f.weight * floats.Distance(x, f.y, 1), nil
}

// Prox applies soft-thresholding with threshold gamma*w around the target:
//
//	prox(x)_i = y_i + sign(x_i - y_i) * max(|x_i - y_i| - gamma*w, 0)
func (f *NormL1) Prox(x []float64, gamma float64) ([]float64, error) {
	if err := checkDim(f.Name(), "prox", x, len(f.y)); err != nil {
		return nil, err
	}
	if err := checkGamma(f.Name(), gamma); err != nil {
		return nil, err
	}
	threshold := gamma * f.weight
	p := make([]float64, len(x))
	for i := range x {
		d := x[i] - f.y[i]
		shrunk := math.Max(math.Abs(d)-threshold, 0)
		p[i] = f.y[i] + math.Copysign(shrunk, d)
	}
	return p, nil
}
