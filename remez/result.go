package remez

import (
	"fmt"
	"math"
	"math/big"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/montanaflynn/stats"
	"github.com/zeebo/blake3"
	"gonum.org/v1/gonum/mat"

	"github.com/tuneinsight/minimax/utils/bignum"
)

// Criterion is the stopping criterion met by the last outer iteration.
type Criterion uint8

const (
	// Running is recorded on the iterations that did not stop the run.
	Running = Criterion(iota)
	// Exact means that the approximant matches the target on the whole grid.
	Exact
	// Levelled means that the error at the nodes is levelled within Tolerance.
	Levelled
	// Amplitude means that the rational error amplitude E moved by less than
	// ErrorTolerance relative to the previous iteration.
	Amplitude
	// Stationary means that the exchange left the nodes in place.
	Stationary
)

func (c Criterion) String() string {
	switch c {
	case Running:
		return "running"
	case Exact:
		return "exact"
	case Levelled:
		return "levelled"
	case Amplitude:
		return "amplitude"
	case Stationary:
		return "stationary"
	default:
		return fmt.Sprintf("Criterion(%d)", uint8(c))
	}
}

// IterationStats are the statistics of one outer iteration.
type IterationStats struct {
	Iteration       int
	MaxErr          float64
	MinErr          float64
	Levelling       float64
	Error           float64
	InnerIterations int
	Peaks           int
	Stop            Criterion
}

// Result is a converged minimax approximant P/Q. For a polynomial,
// Denominator is [1].
type Result struct {
	NumDegree int
	DenDegree int
	Interval  bignum.Interval
	Prec      uint

	// Numerator and Denominator are in ascending order, Denominator[0] = 1.
	Numerator   []*big.Float
	Denominator []*big.Float

	// Error is the solved equioscillation amplitude E.
	Error *big.Float

	// MaxErr is the maximum of |f - P/Q| on the grid and MinErr the minimum
	// of the same quantity on Nodes.
	MaxErr *big.Float
	MinErr *big.Float

	// Nodes are the final alternating extrema and NodeErrors the signed
	// error f - P/Q at each of them.
	Nodes      []*big.Float
	NodeErrors []*big.Float

	Iterations      int
	InnerIterations int
	Converged       bool
	Stop            Criterion
	History         []IterationStats

	system [][]float64
}

// Coefficients returns the coefficients of the numerator, which are the
// coefficients of the approximant in the polynomial case.
func (res *Result) Coefficients() []*big.Float {
	return res.Numerator
}

// IsPolynomial returns true if the approximant has no denominator.
func (res *Result) IsPolynomial() bool {
	return res.DenDegree == 0
}

// Evaluate returns P(x)/Q(x).
func (res *Result) Evaluate(x *big.Float) (y *big.Float, err error) {
	return bignum.RationalEval(x, res.Numerator, res.Denominator)
}

// Levelling returns (MaxErr-MinErr)/MinErr.
func (res *Result) Levelling() *big.Float {
	l := new(big.Float).SetPrec(res.Prec)
	if res.MinErr.Sign() == 0 {
		if res.MaxErr.Sign() == 0 {
			return l
		}
		return l.SetInf(false)
	}
	l.Sub(res.MaxErr, res.MinErr)
	return l.Quo(l, res.MinErr)
}

// Summary are descriptive statistics of |f - P/Q| at the nodes.
type Summary struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

// Summary returns the statistics of the magnitude of the error at the nodes.
func (res *Result) Summary() (s Summary, err error) {

	values := make([]float64, len(res.NodeErrors))
	for i := range res.NodeErrors {
		values[i], _ = new(big.Float).Abs(res.NodeErrors[i]).Float64()
	}

	if s.Min, err = stats.Min(values); err != nil {
		return s, fmt.Errorf("cannot Summary: %w", err)
	}

	s.Max, _ = stats.Max(values)
	s.Mean, _ = stats.Mean(values)
	s.Median, _ = stats.Median(values)
	s.StdDev, _ = stats.StandardDeviation(values)

	return
}

// Fingerprint returns the blake3 hash of the binary encoding of the result.
func (res *Result) Fingerprint() (sum [32]byte, err error) {

	hasher := blake3.New()
	if _, err = res.WriteTo(hasher); err != nil {
		return sum, fmt.Errorf("cannot Fingerprint: %w", err)
	}

	copy(sum[:], hasher.Sum(nil))
	return
}

// Condition returns the 2-norm condition number of the last exchange system,
// computed in double precision. It returns +Inf if the system is unknown,
// e.g. for a decoded result.
func (res *Result) Condition() float64 {

	n := len(res.system)
	if n == 0 {
		return math.Inf(1)
	}

	data := make([]float64, 0, n*n)
	for i := range res.system {
		data = append(data, res.system[i]...)
	}

	return mat.Cond(mat.NewDense(n, n, data), 2)
}

// Equal returns true if both results hold the same values.
func (res *Result) Equal(other *Result) bool {
	if res == nil || other == nil {
		return res == other
	}
	// Compares the values: cmp would call back Equal on *Result.
	return cmp.Equal(*res, *other, cmpopts.IgnoreUnexported(Result{}), cmpopts.EquateEmpty(), cmp.Comparer(equalBigFloat))
}

func equalBigFloat(a, b *big.Float) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}
