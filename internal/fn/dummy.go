package fn

// Dummy is the zero objective term: it evaluates to 0 everywhere, its
// gradient is the zero vector and its proximal operator is the identity.
// It stands in for a term that contributes nothing to the objective, for
// example a not-yet-implemented constraint.
type Dummy struct{}

// NewDummy creates a zero term. It accepts vectors of any dimension.
func NewDummy() *Dummy { return &Dummy{} }

func (f *Dummy) Name() string { return "dummy" }

func (f *Dummy) Eval(x []float64) (float64, error) { return 0, nil }

func (f *Dummy) Grad(x []float64) ([]float64, error) {
	return make([]float64, len(x)), nil
}

func (f *Dummy) Prox(x []float64, gamma float64) ([]float64, error) {
	if err := checkGamma(f.Name(), gamma); err != nil {
		return nil, err
	}
	return clone(x), nil
}
