package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/proxsplit/internal/solver"
)

// RunConfig holds the configuration a solve was run with. It is persisted
// next to the result so a run can be reproduced exactly: the solver is
// deterministic, so config plus initial point fully determines the
// trajectory.
type RunConfig struct {
	Method  string    `json:"method"`            // ISTA or FISTA
	Gamma   float64   `json:"gamma"`             // fixed step size
	AbsTol  float64   `json:"absTol,omitempty"`  // 0 = rule disabled
	RelTol  float64   `json:"relTol,omitempty"`  // 0 = rule disabled
	MaxIter int       `json:"maxIter,omitempty"` // 0 = rule disabled
	Terms   []string  `json:"terms"`             // term labels in set order
	X0      []float64 `json:"x0"`                // initial point
}

// RunRecord is a persisted solve outcome. All fields are serialized to
// JSON under <baseDir>/runs/<runID>/result.json.
type RunRecord struct {
	// RunID is the unique identifier for this solve run.
	RunID string `json:"runId"`

	// Sol is the final iterate.
	Sol []float64 `json:"sol"`

	// Objective is the iteration-by-term objective history, including the
	// initial point as row 0.
	Objective [][]float64 `json:"objective"`

	// Crit is the stopping criterion that terminated the run.
	Crit string `json:"crit"`

	// NIter is the number of iterations taken.
	NIter int `json:"niter"`

	// FSol is the total objective value at Sol.
	FSol float64 `json:"fsol"`

	// Timestamp records when the run finished.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the solve configuration for reproduction.
	Config RunConfig `json:"config"`
}

// NewRunRecord builds a persistable record from a solve result, assigning
// a fresh run ID.
func NewRunRecord(res *solver.Result, config RunConfig) *RunRecord {
	return &RunRecord{
		RunID:     uuid.New().String(),
		Sol:       res.Sol,
		Objective: res.Objective,
		Crit:      string(res.Crit),
		NIter:     res.NIter,
		FSol:      res.FSol,
		Timestamp: time.Now(),
		Config:    config,
	}
}

// RunInfo contains metadata about a stored run without the full solution
// and history data. Used for listing runs without loading large histories.
type RunInfo struct {
	RunID     string    `json:"runId"`
	Crit      string    `json:"crit"`
	NIter     int       `json:"niter"`
	FSol      float64   `json:"fsol"`
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Dim       int       `json:"dim"`
}

// ToInfo converts a full RunRecord to its metadata view.
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		RunID:     r.RunID,
		Crit:      r.Crit,
		NIter:     r.NIter,
		FSol:      r.FSol,
		Timestamp: r.Timestamp,
		Method:    r.Config.Method,
		Dim:       len(r.Sol),
	}
}

// Validate checks that the record is internally consistent.
// Returns a ValidationError naming the first offending field.
func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if len(r.Sol) == 0 {
		return &ValidationError{Field: "Sol", Reason: "cannot be empty"}
	}
	if r.Crit == "" {
		return &ValidationError{Field: "Crit", Reason: "cannot be empty"}
	}
	if r.NIter < 0 {
		return &ValidationError{Field: "NIter", Reason: "cannot be negative"}
	}
	if len(r.Objective) != r.NIter+1 {
		return &ValidationError{Field: "Objective", Reason: "must have NIter+1 rows"}
	}
	for _, row := range r.Objective {
		if len(row) != len(r.Config.Terms) {
			return &ValidationError{Field: "Objective", Reason: "row width must match term count"}
		}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	return nil
}

// ValidationError represents a run record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
