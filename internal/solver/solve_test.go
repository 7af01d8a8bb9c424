package solver

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/proxsplit/internal/fn"
)

func newFB(t *testing.T, cfg ForwardBackwardConfig) *ForwardBackward {
	t.Helper()
	fb, err := NewForwardBackward(cfg)
	require.NoError(t, err)
	return fb
}

func TestSolveConvergesL2Dummy(t *testing.T) {
	y := []float64{4, 5, 6, 7}
	terms := []fn.Func{fn.NewNormL2(y), fn.NewDummy()}
	x0 := make([]float64, 4)

	res, err := Solve(terms, x0, newFB(t, ForwardBackwardConfig{}), Options{AbsTol: 1e-5})
	require.NoError(t, err)

	assert.Equal(t, CritAbsTol, res.Crit)
	assert.LessOrEqual(t, res.NIter, 10)
	require.Len(t, res.Sol, 4)
	for i := range y {
		assert.InDelta(t, y[i], res.Sol[i], 1e-3)
	}
}

func TestSolveHistoryShape(t *testing.T) {
	y := []float64{4, 5, 6, 7}
	terms := []fn.Func{fn.NewNormL2(y), fn.NewDummy()}
	x0 := make([]float64, 4)

	res, err := Solve(terms, x0, newFB(t, ForwardBackwardConfig{}), Options{AbsTol: 1e-5})
	require.NoError(t, err)

	// niter+1 rows including the initial point, one column per term in
	// term-set order.
	require.Len(t, res.Objective, res.NIter+1)
	for _, row := range res.Objective {
		require.Len(t, row, 2)
	}
	assert.InDelta(t, 126.0, res.Objective[0][0], 1e-9)
	assert.Equal(t, 0.0, res.Objective[0][1])
	assert.InDelta(t, res.FSol, res.Objective[res.NIter][0]+res.Objective[res.NIter][1], 1e-12)
}

// For a convex problem with a sufficiently small step the total objective
// never increases under ISTA.
func TestSolveMonotoneObjective(t *testing.T) {
	y := []float64{4, 5, 6, 7}
	terms := []fn.Func{fn.NewDummy(), fn.NewNormL2(y)}
	x0 := make([]float64, 4)

	fb := newFB(t, ForwardBackwardConfig{Gamma: 0.2, Method: ISTA})
	res, err := Solve(terms, x0, fb, Options{AbsTol: 1e-8, MaxIter: 100})
	require.NoError(t, err)

	prev := math.Inf(1)
	for _, row := range res.Objective {
		total := row[0] + row[1]
		assert.LessOrEqual(t, total, prev+1e-12)
		prev = total
	}
}

func TestSolveRelTol(t *testing.T) {
	y := []float64{4, 5, 6, 7}
	x0 := make([]float64, 4)

	// Constant offset keeps the total objective away from zero, so the
	// relative improvement shrinks with the absolute one.
	offset, err := fn.NewCustom("offset",
		func(x []float64) (float64, error) { return 10, nil },
		fn.WithGrad(func(x []float64) ([]float64, error) {
			return make([]float64, len(x)), nil
		}),
	)
	require.NoError(t, err)

	terms := []fn.Func{fn.NewNormL2(y), offset}
	res, err := Solve(terms, x0, newFB(t, ForwardBackwardConfig{}), Options{RelTol: 1e-3, MaxIter: 100})
	require.NoError(t, err)
	assert.Equal(t, CritRelTol, res.Crit)
}

func TestSolveMaxIter(t *testing.T) {
	y := []float64{4, 5, 6, 7}
	terms := []fn.Func{fn.NewNormL2(y), fn.NewDummy()}
	x0 := make([]float64, 4)

	res, err := Solve(terms, x0, newFB(t, ForwardBackwardConfig{}), Options{MaxIter: 3})
	require.NoError(t, err)
	assert.Equal(t, CritMaxIter, res.Crit)
	assert.Equal(t, 3, res.NIter)
	assert.Len(t, res.Objective, 4)
}

func TestSolveNoStoppingBound(t *testing.T) {
	terms := []fn.Func{fn.NewNormL2([]float64{1})}
	_, err := Solve(terms, []float64{0}, newFB(t, ForwardBackwardConfig{}), Options{})
	assert.ErrorIs(t, err, &ConfigurationError{})
}

func TestSolveNoTerms(t *testing.T) {
	_, err := Solve(nil, []float64{0}, newFB(t, ForwardBackwardConfig{}), Options{MaxIter: 1})
	assert.ErrorIs(t, err, &ConfigurationError{})
}

func TestSolveDimensionMismatch(t *testing.T) {
	terms := []fn.Func{fn.NewNormL2([]float64{4, 5, 6, 7})}
	_, err := Solve(terms, []float64{0, 0, 0}, newFB(t, ForwardBackwardConfig{}), Options{MaxIter: 5})
	assert.ErrorIs(t, err, &fn.DimensionError{})
}

func TestSolveMissingCapabilityFailsFast(t *testing.T) {
	y := []float64{4, 5, 6, 7}
	terms := []fn.Func{fn.NewNormL1(y), fn.NewNormL1(y)}
	_, err := Solve(terms, make([]float64, 4), newFB(t, ForwardBackwardConfig{}), Options{MaxIter: 5})
	assert.ErrorIs(t, err, &MissingCapabilityError{})
}

func TestSolveDivergenceAborts(t *testing.T) {
	y := []float64{4, 5, 6, 7}
	x0 := make([]float64, 4)

	// Finite at the initial point, NaN afterwards.
	calls := 0
	unstable, err := fn.NewCustom("unstable",
		func(x []float64) (float64, error) {
			calls++
			if calls > 1 {
				return math.NaN(), nil
			}
			return 0, nil
		},
		fn.WithGrad(func(x []float64) ([]float64, error) {
			return make([]float64, len(x)), nil
		}),
	)
	require.NoError(t, err)

	terms := []fn.Func{fn.NewNormL2(y), unstable}
	_, err = Solve(terms, x0, newFB(t, ForwardBackwardConfig{}), Options{MaxIter: 20})
	require.ErrorIs(t, err, &DivergenceError{})

	var divErr *DivergenceError
	require.ErrorAs(t, err, &divErr)
	assert.Equal(t, 1, divErr.Iter)
	assert.Equal(t, "unstable", divErr.Term)
	assert.Equal(t, x0, divErr.LastX)
	assert.InDelta(t, 126.0, divErr.LastObjective, 1e-9)
}

// Identical inputs must reproduce the identical trajectory.
func TestSolveDeterministic(t *testing.T) {
	y := []float64{4, 5, 6, 7}
	x0 := make([]float64, 4)

	run := func() *Result {
		terms := []fn.Func{fn.NewNormL2(y), fn.NewDummy()}
		res, err := Solve(terms, x0, newFB(t, ForwardBackwardConfig{}), Options{AbsTol: 1e-5})
		require.NoError(t, err)
		return res
	}

	a, b := run(), run()
	assert.Equal(t, a.NIter, b.NIter)
	assert.Equal(t, a.Sol, b.Sol)
	assert.Equal(t, a.Objective, b.Objective)
}

// Solve must not mutate the caller's initial point.
func TestSolvePreservesX0(t *testing.T) {
	y := []float64{4, 5}
	x0 := []float64{1, 1}
	terms := []fn.Func{fn.NewNormL2(y), fn.NewDummy()}

	_, err := Solve(terms, x0, newFB(t, ForwardBackwardConfig{}), Options{AbsTol: 1e-5})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, x0)
}

func TestSolveSummaryLine(t *testing.T) {
	y := []float64{4, 5, 6, 7}
	terms := []fn.Func{fn.NewNormL2(y), fn.NewDummy()}

	var buf bytes.Buffer
	res, err := Solve(terms, make([]float64, 4), newFB(t, ForwardBackwardConfig{}), Options{
		AbsTol:    1e-5,
		Verbosity: VerbosityLow,
		Output:    &buf,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Solution found in "), "got %q", out)
	assert.Contains(t, out, "objective function f(sol) = ")
	assert.Contains(t, out, "last relative objective improvement : ")
	assert.Contains(t, out, "stopping criterion : ABS_TOL")
	assert.Contains(t, out, "Solution found in "+strconv.Itoa(res.NIter)+" iterations")
}

func TestSolveSilentByDefault(t *testing.T) {
	y := []float64{4, 5}
	terms := []fn.Func{fn.NewNormL2(y), fn.NewDummy()}

	var buf bytes.Buffer
	_, err := Solve(terms, make([]float64, 2), newFB(t, ForwardBackwardConfig{}), Options{
		AbsTol: 1e-5,
		Output: &buf,
	})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
