package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/proxsplit/internal/fn"
	"github.com/cwbudde/proxsplit/internal/solver"
	"github.com/cwbudde/proxsplit/internal/store"
)

var (
	targetSpec string
	x0Spec     string
	l2Weight   float64
	l1Weight   float64
	gamma      float64
	lambda     float64
	method     string
	absTol     float64
	relTol     float64
	maxIter    int
	verbosity  string
	dataDir    string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run a forward-backward solve",
	Long: `Minimizes w*||x - y||^2, optionally plus tau*||x||_1, starting from x0.
The target y is a comma-separated vector; x0 defaults to the origin.
With --data the result and its objective trace are persisted for later
inspection with the runs command.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&targetSpec, "target", "", "Target vector y, comma-separated (required)")
	solveCmd.Flags().StringVar(&x0Spec, "x0", "", "Initial point, comma-separated (default: origin)")
	solveCmd.Flags().Float64Var(&l2Weight, "weight", 1.0, "Weight of the L2 fidelity term")
	solveCmd.Flags().Float64Var(&l1Weight, "l1", 0, "Weight of the L1 regularizer toward zero (0 = off)")
	solveCmd.Flags().Float64Var(&gamma, "gamma", 1.0, "Step size")
	solveCmd.Flags().Float64Var(&lambda, "lambda", 1.0, "ISTA update rate in (0, 1]")
	solveCmd.Flags().StringVar(&method, "method", "FISTA", "Update scheme: ISTA or FISTA")
	solveCmd.Flags().Float64Var(&absTol, "abs-tol", 1e-5, "Absolute objective tolerance (0 = off)")
	solveCmd.Flags().Float64Var(&relTol, "rel-tol", 0, "Relative objective tolerance (0 = off)")
	solveCmd.Flags().IntVar(&maxIter, "max-iter", 200, "Maximum iterations (0 = off)")
	solveCmd.Flags().StringVar(&verbosity, "verbosity", "low", "Progress reporting: none, low, high")
	solveCmd.Flags().StringVar(&dataDir, "data", "", "Directory for persisting the run (empty = don't persist)")

	solveCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	y, err := parseVector(targetSpec)
	if err != nil {
		return fmt.Errorf("failed to parse --target: %w", err)
	}

	x0 := make([]float64, len(y))
	if x0Spec != "" {
		x0, err = parseVector(x0Spec)
		if err != nil {
			return fmt.Errorf("failed to parse --x0: %w", err)
		}
	}

	fidelity, err := fn.NewNormL2Weighted(y, l2Weight)
	if err != nil {
		return err
	}

	terms := []fn.Func{fidelity}
	if l1Weight > 0 {
		regularizer, err := fn.NewNormL1Weighted(make([]float64, len(y)), l1Weight)
		if err != nil {
			return err
		}
		terms = append(terms, regularizer)
	} else {
		terms = append(terms, fn.NewDummy())
	}

	fb, err := solver.NewForwardBackward(solver.ForwardBackwardConfig{
		Gamma:  gamma,
		Lambda: lambda,
		Method: solver.Method(strings.ToUpper(method)),
	})
	if err != nil {
		return err
	}

	slog.Info("Starting solve",
		"dim", len(y),
		"method", fb.Method(),
		"gamma", fb.Gamma(),
		"terms", len(terms),
	)

	start := time.Now()
	result, err := solver.Solve(terms, x0, fb, solver.Options{
		AbsTol:    absTol,
		RelTol:    relTol,
		MaxIter:   maxIter,
		Verbosity: solver.Verbosity(verbosity),
	})
	if err != nil {
		return err
	}

	slog.Info("Solve finished",
		"iterations", result.NIter,
		"objective", result.FSol,
		"criterion", result.Crit,
		"elapsed", time.Since(start),
	)

	if dataDir == "" {
		return nil
	}

	st, err := store.NewFSStore(dataDir)
	if err != nil {
		return err
	}

	composite := fn.NewComposite(terms...)
	record := store.NewRunRecord(result, store.RunConfig{
		Method:  string(fb.Method()),
		Gamma:   fb.Gamma(),
		AbsTol:  absTol,
		RelTol:  relTol,
		MaxIter: maxIter,
		Terms:   composite.Names(),
		X0:      x0,
	})
	if err := st.SaveRun(record); err != nil {
		return fmt.Errorf("failed to persist run: %w", err)
	}

	tw, err := store.NewTraceWriter(dataDir, record.RunID)
	if err != nil {
		return err
	}
	defer tw.Close()
	if err := tw.WriteHistory(result.Objective); err != nil {
		return fmt.Errorf("failed to write objective trace: %w", err)
	}

	slog.Info("Run persisted", "runID", record.RunID, "data", dataDir)
	return nil
}

// parseVector parses a comma-separated list of floats, e.g. "4,5,6,7".
func parseVector(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	v := make([]float64, 0, len(parts))
	for _, part := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid component %q: %w", part, err)
		}
		v = append(v, x)
	}
	return v, nil
}
