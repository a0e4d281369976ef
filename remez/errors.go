package remez

import (
	"errors"
	"fmt"

	"github.com/tuneinsight/minimax/utils/bignum"
)

var (
	// ErrSingularSystem is returned when the exchange system has no unique
	// solution at the current node set.
	ErrSingularSystem = bignum.ErrSingularSystem

	// ErrNodeCount is returned when the extrema of the error function cannot
	// be turned into a node set of the required size.
	ErrNodeCount = errors.New("remez: node count mismatch")

	// ErrNotConverged is returned when an iteration cap is reached before
	// the stopping criterion is met.
	ErrNotConverged = errors.New("remez: not converged")

	// ErrPole is returned when the denominator of a rational approximant
	// vanishes or changes sign on the interval.
	ErrPole = errors.New("remez: denominator has a pole on the interval")
)

// NodeCountError reports the number of alternating extrema found against the
// number of nodes required by the degree.
type NodeCountError struct {
	Iteration int
	Found     int
	Required  int
}

func (e *NodeCountError) Error() string {
	return fmt.Sprintf("%s: iteration %d found %d extrema but %d nodes are required", ErrNodeCount, e.Iteration, e.Found, e.Required)
}

func (e *NodeCountError) Unwrap() error {
	return ErrNodeCount
}

// Stage identifies the loop that hit its iteration cap.
type Stage string

const (
	// Outer is the node exchange loop.
	Outer = Stage("outer")
	// Inner is the fixed-point loop on the error amplitude of the rational case.
	Inner = Stage("inner")
)

// ConvergenceError is returned when an iteration cap is reached. History
// holds the statistics of the outer iterations completed so far.
type ConvergenceError struct {
	Stage      Stage
	Iterations int
	History    []IterationStats
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: %s loop stopped after %d iterations", ErrNotConverged, e.Stage, e.Iterations)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNotConverged
}
