package remez

import (
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/tuneinsight/minimax/utils/bignum"
)

// NodeDistribution selects the initial node set.
type NodeDistribution int

const (
	// Equispaced places the nodes at A + m*(B-A)/(n-1), m = 0, ..., n-1,
	// which includes both endpoints.
	Equispaced = NodeDistribution(0)
	// ChebyshevFirstKind places the nodes at the Chebyshev nodes of the
	// first kind of the interval.
	ChebyshevFirstKind = NodeDistribution(1)
)

func (d NodeDistribution) String() string {
	switch d {
	case Equispaced:
		return "equispaced"
	case ChebyshevFirstKind:
		return "chebyshev"
	default:
		return fmt.Sprintf("NodeDistribution(%d)", int(d))
	}
}

// Reconciliation selects how the extrema found on the grid are turned into
// a node set of the required size.
type Reconciliation int

const (
	// Exchange collapses plateaus, enforces sign alternation, drops the
	// least significant extra extrema and splits the widest gap when too
	// few remain.
	Exchange = Reconciliation(0)
	// Strict collapses plateaus and same-sign runs like Exchange but returns
	// a *NodeCountError if the number of alternating extrema differs from
	// the number of nodes.
	Strict = Reconciliation(1)
)

func (r Reconciliation) String() string {
	switch r {
	case Exchange:
		return "exchange"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Reconciliation(%d)", int(r))
	}
}

// Default values used for the zero fields of Parameters.
const (
	DefaultPrec               = uint(224)
	DefaultTolerance          = 1e-6
	DefaultErrorTolerance     = 1e-6
	DefaultInnerTolerance     = 1e-6
	DefaultMaxIterations      = 100
	DefaultMaxInnerIterations = 100
	DefaultGridDensity        = 1000
)

// Parameters is a struct storing the parameters required to run the
// Remez exchange algorithm. Zero fields take their default value.
type Parameters struct {
	// Function is the function to approximate. It must be defined on the
	// whole interval and, if Workers > 1, safe for concurrent use.
	// An error returned by Function aborts the run.
	Function func(x *big.Float) (y *big.Float, err error)

	// Interval is the domain [A, B] of the approximation.
	Interval bignum.Interval

	// Prec is the bit precision of every value created during a run.
	Prec uint

	// Tolerance is the threshold on the levelling (MaxErr-MinErr)/MinErr
	// below which the exchange stops.
	Tolerance float64

	// ErrorTolerance is the threshold on |(E-Eprev)/E| between two outer
	// iterations below which the rational exchange stops.
	ErrorTolerance float64

	// InnerTolerance is the threshold on |(Eguess-E)/E| below which the
	// linearisation of the rational system is considered stable.
	InnerTolerance float64

	// MaxIterations caps the node exchange loop.
	MaxIterations int

	// MaxInnerIterations caps the fixed-point loop of the rational case.
	MaxInnerIterations int

	// GridDensity is the number of grid intervals between two initial nodes.
	GridDensity int

	// InitialNodes selects the initial node set.
	InitialNodes NodeDistribution

	// Reconciliation selects the node count policy.
	Reconciliation Reconciliation

	// PerturbRetries is the number of times a singular system is retried
	// after moving the interior nodes. Zero disables the recovery.
	PerturbRetries int

	// Seed keys the perturbations so that retries are reproducible.
	Seed uint64

	// Workers is the number of goroutines evaluating the dense grid.
	Workers int

	// Logger receives the progress of the run. Nil discards it.
	Logger logrus.FieldLogger
}

// Infallible adapts a target that cannot fail to the signature of Parameters.Function.
func Infallible(f func(x *big.Float) (y *big.Float)) func(x *big.Float) (y *big.Float, err error) {
	return func(x *big.Float) (*big.Float, error) {
		return f(x), nil
	}
}

// WithDefaults returns a copy of p where the zero fields are replaced by
// their default value.
func (p Parameters) WithDefaults() Parameters {

	if p.Prec == 0 {
		p.Prec = DefaultPrec
	}

	if p.Tolerance == 0 {
		p.Tolerance = DefaultTolerance
	}

	if p.ErrorTolerance == 0 {
		p.ErrorTolerance = DefaultErrorTolerance
	}

	if p.InnerTolerance == 0 {
		p.InnerTolerance = DefaultInnerTolerance
	}

	if p.MaxIterations == 0 {
		p.MaxIterations = DefaultMaxIterations
	}

	if p.MaxInnerIterations == 0 {
		p.MaxInnerIterations = DefaultMaxInnerIterations
	}

	if p.GridDensity == 0 {
		p.GridDensity = DefaultGridDensity
	}

	if p.Workers == 0 {
		p.Workers = 1
	}

	if p.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		p.Logger = logger
	}

	return p
}

// Validate checks the parameters after defaults have been applied.
func (p Parameters) Validate() error {

	if p.Function == nil {
		return fmt.Errorf("invalid parameters: Function is nil")
	}

	if err := p.Interval.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	if p.Prec < 24 {
		return fmt.Errorf("invalid parameters: Prec=%d must be at least 24", p.Prec)
	}

	for name, v := range map[string]float64{
		"Tolerance":      p.Tolerance,
		"ErrorTolerance": p.ErrorTolerance,
		"InnerTolerance": p.InnerTolerance,
	} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid parameters: %s=%v must be positive and finite", name, v)
		}
	}

	switch {
	case p.MaxIterations < 0:
		return fmt.Errorf("invalid parameters: MaxIterations=%d must be positive", p.MaxIterations)
	case p.MaxInnerIterations < 0:
		return fmt.Errorf("invalid parameters: MaxInnerIterations=%d must be positive", p.MaxInnerIterations)
	case p.GridDensity < 2:
		return fmt.Errorf("invalid parameters: GridDensity=%d must be at least 2", p.GridDensity)
	case p.PerturbRetries < 0:
		return fmt.Errorf("invalid parameters: PerturbRetries=%d must be non-negative", p.PerturbRetries)
	case p.Workers < 0:
		return fmt.Errorf("invalid parameters: Workers=%d must be positive", p.Workers)
	}

	switch p.InitialNodes {
	case Equispaced, ChebyshevFirstKind:
	default:
		return fmt.Errorf("invalid parameters: unknown InitialNodes %v", p.InitialNodes)
	}

	switch p.Reconciliation {
	case Exchange, Strict:
	default:
		return fmt.Errorf("invalid parameters: unknown Reconciliation %v", p.Reconciliation)
	}

	return nil
}
