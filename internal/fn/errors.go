package fn

import "fmt"

// DimensionError reports a vector whose dimension does not match the
// dimension a term was configured with.
// Use errors.Is(err, &DimensionError{}) to check for this error.
type DimensionError struct {
	Term string // term label
	Op   string // operation that detected the mismatch (eval, grad, prox)
	Want int    // configured dimension
	Got  int    // dimension of the offending vector
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s: dimension mismatch: want %d, got %d",
		e.Term, e.Op, e.Want, e.Got)
}

func (e *DimensionError) Is(target error) bool {
	_, ok := target.(*DimensionError)
	return ok
}

// InvalidParameterError reports a parameter outside its valid range, such
// as a non-positive proximal step or term weight.
type InvalidParameterError struct {
	Term   string
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Term == "" {
		return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("%s: invalid parameter %s: %s", e.Term, e.Param, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	_, ok := target.(*InvalidParameterError)
	return ok
}
