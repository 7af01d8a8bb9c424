package solver

import "fmt"

// MissingCapabilityError reports a term that lacks a method the chosen
// solver requires, detected at solver initialization before any iteration
// runs. Use errors.Is(err, &MissingCapabilityError{}) to check for it.
type MissingCapabilityError struct {
	Term       string // term label
	Capability string // required capability (grad, prox)
	Reason     string // optional detail
}

func (e *MissingCapabilityError) Error() string {
	msg := fmt.Sprintf("term %q does not support %q", e.Term, e.Capability)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *MissingCapabilityError) Is(target error) bool {
	_, ok := target.(*MissingCapabilityError)
	return ok
}

// ConfigurationError reports solve options that cannot produce a bounded
// run, such as the absence of any stopping rule.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool {
	_, ok := target.(*ConfigurationError)
	return ok
}

// DivergenceError reports a non-finite objective value produced mid-solve.
// It carries the last valid iterate and objective so the caller can diagnose
// or restart with adjusted parameters without re-running.
type DivergenceError struct {
	Iter          int       // iteration at which the non-finite value appeared
	Term          string    // label of the offending term
	Value         float64   // the non-finite value (NaN or +/-Inf)
	LastX         []float64 // last iterate with a finite objective
	LastObjective float64   // total objective at LastX
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf(
		"numeric divergence at iteration %d: term %q evaluated to %v (last valid objective %g)",
		e.Iter, e.Term, e.Value, e.LastObjective)
}

func (e *DivergenceError) Is(target error) bool {
	_, ok := target.(*DivergenceError)
	return ok
}
