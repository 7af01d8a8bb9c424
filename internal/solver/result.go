package solver

// Criterion labels the stopping rule that terminated a solve.
type Criterion string

const (
	// CritAbsTol fires when the absolute change of the total objective
	// between consecutive iterations drops below AbsTol.
	CritAbsTol Criterion = "ABS_TOL"

	// CritRelTol fires when the relative objective improvement drops
	// below RelTol.
	CritRelTol Criterion = "REL_TOL"

	// CritMaxIter fires when the iteration count reaches MaxIter.
	CritMaxIter Criterion = "MAX_ITER"
)

// Result bundles the outcome of a solve.
type Result struct {
	// Sol is the final iterate.
	Sol []float64 `json:"sol"`

	// Objective is the per-iteration per-term objective history: row k holds
	// each term's value at iterate k, in term-set order. Row 0 is the
	// initial point, so there are NIter+1 rows.
	Objective [][]float64 `json:"objective"`

	// Crit is the stopping rule that fired.
	Crit Criterion `json:"crit"`

	// NIter is the number of solver steps taken.
	NIter int `json:"niter"`

	// FSol is the total objective value at Sol.
	FSol float64 `json:"fsol"`

	// RelImprovement is the relative objective improvement of the last
	// iteration, reported for diagnostics.
	RelImprovement float64 `json:"relImprovement"`
}
