package solver

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/proxsplit/internal/fn"
)

// Verbosity controls progress reporting during a solve.
type Verbosity string

const (
	// VerbosityNone suppresses all progress output.
	VerbosityNone Verbosity = "none"

	// VerbosityLow prints the final summary line only.
	VerbosityLow Verbosity = "low"

	// VerbosityHigh additionally logs every iteration.
	VerbosityHigh Verbosity = "high"
)

// Options configures the convergence loop. At least one stopping bound
// (AbsTol, RelTol or MaxIter) must be set; a zero value disables the
// corresponding rule.
type Options struct {
	// AbsTol stops the loop when |f(x_k) - f(x_{k-1})| < AbsTol.
	AbsTol float64

	// RelTol stops the loop when |f(x_k) - f(x_{k-1})| / |f(x_k)| < RelTol.
	RelTol float64

	// MaxIter is a hard cap on the number of iterations.
	MaxIter int

	// Verbosity selects the reporting level. Default: none.
	Verbosity Verbosity

	// Output receives the human-readable summary line when verbosity is
	// enabled. Default: os.Stdout.
	Output io.Writer
}

// Solve drives repeated solver steps from x0 until a stopping rule fires.
//
// It records every term's objective value at x0 and after each step, so the
// returned history has one row per iterate including the initial point.
// A non-finite objective value aborts the run with a DivergenceError
// carrying the last valid iterate; this is never silently recovered.
//
// Identical inputs and options always reproduce the identical trajectory.
func Solve(terms []fn.Func, x0 []float64, s Solver, opts Options) (*Result, error) {
	if len(terms) == 0 {
		return nil, &ConfigurationError{Reason: "no objective terms supplied"}
	}
	if opts.AbsTol <= 0 && opts.RelTol <= 0 && opts.MaxIter <= 0 {
		return nil, &ConfigurationError{
			Reason: "no stopping bound configured: set at least one of AbsTol, RelTol or MaxIter",
		}
	}
	if opts.Verbosity == "" {
		opts.Verbosity = VerbosityNone
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if err := s.Init(terms, x0); err != nil {
		return nil, err
	}

	objective := fn.NewComposite(terms...)

	x := append([]float64(nil), x0...)
	row, err := objective.EvalEach(x)
	if err != nil {
		return nil, err
	}
	if err := checkFinite(objective, row, 0, x0, math.NaN()); err != nil {
		return nil, err
	}

	history := [][]float64{row}
	prev := floats.Sum(row)
	lastValid := append([]float64(nil), x...)

	var (
		niter int
		crit  Criterion
		cur   = prev
		rel   = math.Inf(1)
	)

	for crit == "" {
		niter++

		next, err := s.Step(x)
		if err != nil {
			return nil, fmt.Errorf("solver step %d: %w", niter, err)
		}
		x = next

		row, err = objective.EvalEach(x)
		if err != nil {
			return nil, fmt.Errorf("objective evaluation at iteration %d: %w", niter, err)
		}
		if err := checkFinite(objective, row, niter, lastValid, prev); err != nil {
			return nil, err
		}
		history = append(history, row)
		cur = floats.Sum(row)
		rel = relativeImprovement(prev, cur)

		switch {
		case opts.AbsTol > 0 && math.Abs(cur-prev) < opts.AbsTol:
			crit = CritAbsTol
		case opts.RelTol > 0 && rel < opts.RelTol:
			crit = CritRelTol
		case opts.MaxIter > 0 && niter >= opts.MaxIter:
			crit = CritMaxIter
		}

		if opts.Verbosity == VerbosityHigh {
			slog.Info("iteration complete",
				"iteration", niter,
				"objective", cur,
				"relative_improvement", rel,
			)
		} else {
			slog.Debug("iteration complete",
				"iteration", niter,
				"objective", cur,
				"relative_improvement", rel,
			)
		}

		prev = cur
		lastValid = append(lastValid[:0], x...)
	}

	if opts.Verbosity != VerbosityNone {
		fmt.Fprintf(opts.Output,
			"Solution found in %d iterations : objective function f(sol) = %e, last relative objective improvement : %e, stopping criterion : %s\n",
			niter, cur, rel, crit)
	}

	return &Result{
		Sol:            x,
		Objective:      history,
		Crit:           crit,
		NIter:          niter,
		FSol:           cur,
		RelImprovement: rel,
	}, nil
}

// relativeImprovement computes |cur - prev| / |cur|, guarding a zero
// current objective.
func relativeImprovement(prev, cur float64) float64 {
	if cur == prev {
		return 0
	}
	if cur == 0 {
		return math.Inf(1)
	}
	return math.Abs((cur - prev) / cur)
}

// checkFinite scans a history row for NaN or infinities and builds the
// DivergenceError identifying the offending term.
func checkFinite(objective *fn.Composite, row []float64, iter int, lastX []float64, lastObjective float64) error {
	for i, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DivergenceError{
				Iter:          iter,
				Term:          objective.Names()[i],
				Value:         v,
				LastX:         append([]float64(nil), lastX...),
				LastObjective: lastObjective,
			}
		}
	}
	return nil
}
