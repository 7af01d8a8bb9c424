// Package solver implements iterative proximal-splitting solvers and the
// convergence loop that drives them over a set of objective terms.
package solver

import "github.com/cwbudde/proxsplit/internal/fn"

// Solver is the contract for an iterative update rule.
//
// Init is called once before the first iteration. It validates that every
// term carries the capabilities the update rule requires, failing fast with
// a MissingCapabilityError, and captures any per-run state derived from x0.
// Step maps the current iterate to the next one; it must be deterministic
// for a given configuration.
type Solver interface {
	Init(terms []fn.Func, x0 []float64) error
	Step(x []float64) ([]float64, error)
}
