package fn

// EvalFunc computes an objective value at x.
type EvalFunc func(x []float64) (float64, error)

// GradFunc computes a gradient at x.
type GradFunc func(x []float64) ([]float64, error)

// ProxFunc computes a proximal operator at x with step gamma.
type ProxFunc func(x []float64, gamma float64) ([]float64, error)

// CustomOption configures an optional capability on a custom term.
type CustomOption func(*customOptions)

type customOptions struct {
	grad GradFunc
	prox ProxFunc
}

// WithGrad attaches a gradient to a custom term.
func WithGrad(grad GradFunc) CustomOption {
	return func(o *customOptions) { o.grad = grad }
}

// WithProx attaches a proximal operator to a custom term.
func WithProx(prox ProxFunc) CustomOption {
	return func(o *customOptions) { o.prox = prox }
}

// NewCustom builds a user-defined objective term from closures. Evaluation
// is mandatory; gradient and proximal behavior exist only if supplied
// through options. The returned value implements Gradient and/or Proximable
// exactly when the corresponding closure was given, so solvers asserting
// those interfaces see precisely the declared capability set. Capabilities
// that were not supplied do not exist on the term; nothing is silently
// treated as zero.
func NewCustom(name string, eval EvalFunc, opts ...CustomOption) (Func, error) {
	if eval == nil {
		return nil, &InvalidParameterError{
			Term:   name,
			Param:  "eval",
			Reason: "must not be nil: every term requires evaluation",
		}
	}

	var o customOptions
	for _, opt := range opts {
		opt(&o)
	}

	base := custom{name: name, eval: eval}
	switch {
	case o.grad != nil && o.prox != nil:
		return &customGradProx{customGrad{base, o.grad}, o.prox}, nil
	case o.grad != nil:
		return &customGrad{base, o.grad}, nil
	case o.prox != nil:
		return &customProx{base, o.prox}, nil
	default:
		return &base, nil
	}
}

// custom carries the mandatory evaluation capability.
type custom struct {
	name string
	eval EvalFunc
}

func (c *custom) Name() string { return c.name }

func (c *custom) Eval(x []float64) (float64, error) { return c.eval(x) }

type customGrad struct {
	custom
	grad GradFunc
}

func (c *customGrad) Grad(x []float64) ([]float64, error) { return c.grad(x) }

type customProx struct {
	custom
	prox ProxFunc
}

func (c *customProx) Prox(x []float64, gamma float64) ([]float64, error) {
	if err := checkGamma(c.name, gamma); err != nil {
		return nil, err
	}
	return c.prox(x, gamma)
}

type customGradProx struct {
	customGrad
	prox ProxFunc
}

func (c *customGradProx) Prox(x []float64, gamma float64) ([]float64, error) {
	if err := checkGamma(c.name, gamma); err != nil {
		return nil, err
	}
	return c.prox(x, gamma)
}
