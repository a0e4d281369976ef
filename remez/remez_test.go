package remez

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/minimax/utils/bignum"
)

const testPrec = uint(128)

func testParameters(f func(x *big.Float) (y *big.Float), a, b float64) Parameters {
	return Parameters{
		Function:    Infallible(f),
		Interval:    bignum.NewInterval(a, b, testPrec),
		Prec:        testPrec,
		GridDensity: 200,
	}
}

func requireClose(t *testing.T, a, b *big.Float, delta float64) {
	t.Helper()
	diff := new(big.Float).Sub(a, b)
	diff.Abs(diff)
	require.True(t, diff.Cmp(new(big.Float).SetFloat64(delta)) < 0, "|%v - %v| = %v >= %v", a, b, diff, delta)
}

// requireEquioscillation checks that the error at the nodes alternates in
// sign and is levelled within tolerance.
func requireEquioscillation(t *testing.T, res *Result, nodes int, tolerance float64) {
	t.Helper()

	require.Len(t, res.Nodes, nodes)
	require.Len(t, res.NodeErrors, nodes)

	for i := 1; i < nodes; i++ {
		require.Equal(t, -res.NodeErrors[i-1].Sign(), res.NodeErrors[i].Sign(), "node %d", i)
		require.Equal(t, 1, res.Nodes[i].Cmp(res.Nodes[i-1]))
	}

	s, err := res.Summary()
	require.NoError(t, err)
	require.LessOrEqual(t, (s.Max-s.Min)/s.Min, tolerance)
}

func TestPolynomial(t *testing.T) {

	ctx := context.Background()

	t.Run("Exp", func(t *testing.T) {

		deg := 5

		res, err := Polynomial(ctx, testParameters(bignum.Exp, -0.25, 0.25), deg)
		require.NoError(t, err)

		require.True(t, res.Converged)
		require.True(t, res.IsPolynomial())
		require.Len(t, res.Coefficients(), deg+1)
		require.Len(t, res.Denominator, 1)
		require.Zero(t, res.Denominator[0].Cmp(big.NewFloat(1)))
		require.Equal(t, testPrec, res.Prec)

		y, err := res.Evaluate(bignum.NewFloat(0, testPrec))
		require.NoError(t, err)
		requireClose(t, y, bignum.NewFloat(1, testPrec), 2e-8)

		maxErr, _ := res.MaxErr.Float64()
		require.Less(t, maxErr, 2e-8)

		// Checks the bound off the grid
		for i := 0; i <= 97; i++ {
			x := bignum.NewFloat(-0.25+0.5*float64(i)/97, testPrec)
			y, err := res.Evaluate(x)
			require.NoError(t, err)
			requireClose(t, y, bignum.Exp(x), 2e-8)
		}

		// |E| is the levelled error
		E := new(big.Float).Abs(res.Error)
		requireClose(t, E, res.MaxErr, 1e-11)

		requireEquioscillation(t, res, deg+2, 1e-3)

		require.Contains(t, []Criterion{Levelled, Stationary}, res.Stop)
		require.Len(t, res.History, res.Iterations)
		require.Equal(t, res.Stop, res.History[len(res.History)-1].Stop)
		for _, s := range res.History[:len(res.History)-1] {
			require.Equal(t, Running, s.Stop)
		}
	})

	t.Run("Constant", func(t *testing.T) {

		c := bignum.NewFloat(3.5, testPrec)

		p := testParameters(func(x *big.Float) *big.Float { return new(big.Float).Set(c) }, -1, 2)

		res, err := Polynomial(ctx, p, 0)
		require.NoError(t, err)

		require.Len(t, res.Numerator, 1)
		require.Zero(t, res.Numerator[0].Cmp(c))
		require.Zero(t, res.Error.Sign())
		require.Zero(t, res.MaxErr.Sign())
		require.Equal(t, 1, res.Iterations)
		require.Equal(t, Exact, res.Stop)
	})

	t.Run("MonotoneError", func(t *testing.T) {

		p := testParameters(bignum.Exp, -0.25, 0.25)
		p.Tolerance = 1e-300
		p.MaxIterations = 8

		var history []IterationStats

		res, err := Polynomial(ctx, p, 5)
		if err != nil {
			var cerr *ConvergenceError
			require.True(t, errors.As(err, &cerr))
			require.Equal(t, Outer, cerr.Stage)
			history = cerr.History
		} else {
			history = res.History
		}

		require.GreaterOrEqual(t, len(history), 3)

		for i := 2; i < len(history); i++ {
			require.LessOrEqual(t, history[i].MaxErr, history[i-1].MaxErr*(1+1e-2), "iteration %d", history[i].Iteration)
		}
	})

	t.Run("Chebyshev", func(t *testing.T) {

		p := testParameters(bignum.Sin, 0, 1.5)
		p.InitialNodes = ChebyshevFirstKind

		res, err := Polynomial(ctx, p, 6)
		require.NoError(t, err)
		requireEquioscillation(t, res, 8, 1e-3)

		p.InitialNodes = Equispaced
		ref, err := Polynomial(ctx, p, 6)
		require.NoError(t, err)

		requireClose(t, res.MaxErr, ref.MaxErr, 1e-3*mustFloat64(ref.MaxErr))
	})

	t.Run("Workers", func(t *testing.T) {

		p := testParameters(bignum.TanH, -1, 1)

		ref, err := Polynomial(ctx, p, 7)
		require.NoError(t, err)

		p.Workers = 4
		res, err := Polynomial(ctx, p, 7)
		require.NoError(t, err)

		require.True(t, ref.Equal(res))
	})

	t.Run("Strict", func(t *testing.T) {

		p := testParameters(bignum.Exp, -0.25, 0.25)
		p.Reconciliation = Strict

		res, err := Polynomial(ctx, p, 4)
		require.NoError(t, err)
		requireEquioscillation(t, res, 6, 1e-3)
	})

	t.Run("NotConverged", func(t *testing.T) {

		p := testParameters(bignum.Exp, -1, 1)
		p.Tolerance = 1e-300
		p.MaxIterations = 1

		_, err := Polynomial(ctx, p, 6)
		require.ErrorIs(t, err, ErrNotConverged)

		var cerr *ConvergenceError
		require.True(t, errors.As(err, &cerr))
		require.Equal(t, Outer, cerr.Stage)
		require.Len(t, cerr.History, 1)
	})

	t.Run("Canceled", func(t *testing.T) {

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Polynomial(ctx, testParameters(bignum.Exp, -1, 1), 3)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("TargetFailure", func(t *testing.T) {

		errDomain := errors.New("outside of domain")
		half := big.NewFloat(0.5)

		p := testParameters(nil, 0, 1)
		p.Function = func(x *big.Float) (*big.Float, error) {
			if x.Cmp(half) > 0 {
				return nil, errDomain
			}
			return bignum.Exp(x), nil
		}

		_, err := Polynomial(ctx, p, 3)
		require.ErrorIs(t, err, errDomain)
	})

	t.Run("InvalidParameters", func(t *testing.T) {

		_, err := Polynomial(ctx, Parameters{Interval: bignum.NewInterval(0, 1, testPrec)}, 3)
		require.ErrorContains(t, err, "invalid parameters")

		_, err = Polynomial(ctx, testParameters(bignum.Exp, 1, 0), 3)
		require.ErrorContains(t, err, "invalid parameters")

		_, err = Polynomial(ctx, testParameters(bignum.Exp, 0, 1), -1)
		require.ErrorContains(t, err, "invalid parameters")

		p := testParameters(bignum.Exp, 0, 1)
		p.Workers = -2
		_, err = Polynomial(ctx, p, 3)
		require.ErrorContains(t, err, "invalid parameters")
	})
}

func TestRational(t *testing.T) {

	ctx := context.Background()

	t.Run("ReducesToPolynomial", func(t *testing.T) {

		p := testParameters(bignum.Exp, -0.25, 0.25)
		p.ErrorTolerance = 1e-300

		poly, err := Polynomial(ctx, p, 4)
		require.NoError(t, err)

		rat, err := Rational(ctx, p, 4, 0)
		require.NoError(t, err)

		require.Len(t, rat.Denominator, 1)
		require.Zero(t, rat.Denominator[0].Cmp(big.NewFloat(1)))
		require.Len(t, rat.Numerator, len(poly.Numerator))

		for i := range poly.Numerator {
			requireClose(t, rat.Numerator[i], poly.Numerator[i], 1e-20)
		}

		requireClose(t, rat.Error, poly.Error, 1e-20)
	})

	t.Run("Exp", func(t *testing.T) {

		res, err := Rational(ctx, testParameters(bignum.Exp, 0, 1), 2, 2)
		require.NoError(t, err)

		require.False(t, res.IsPolynomial())
		require.Len(t, res.Numerator, 3)
		require.Len(t, res.Denominator, 3)
		require.Zero(t, res.Denominator[0].Cmp(big.NewFloat(1)))
		require.Positive(t, res.InnerIterations)

		maxErr, _ := res.MaxErr.Float64()
		require.Less(t, maxErr, 1e-5)

		E := new(big.Float).Abs(res.Error)
		requireClose(t, E, res.MaxErr, 1e-2*maxErr)

		requireEquioscillation(t, res, 6, 1e-2)
	})

	t.Run("Amplitude", func(t *testing.T) {

		p := testParameters(bignum.Exp, 0, 1)
		p.Tolerance = 1e-300
		p.ErrorTolerance = 1e3

		res, err := Rational(ctx, p, 2, 2)
		require.NoError(t, err)

		require.Equal(t, Amplitude, res.Stop)
		require.Equal(t, "amplitude", res.Stop.String())
		require.Equal(t, 2, res.Iterations)
		require.Equal(t, Running, res.History[0].Stop)
	})

	t.Run("ZeroAmplitude", func(t *testing.T) {

		one := bignum.NewFloat(1, testPrec)

		p := testParameters(func(x *big.Float) *big.Float { return new(big.Float).Set(one) }, 0, 1)

		res, err := Rational(ctx, p, 0, 1)
		require.NoError(t, err)

		require.Zero(t, res.Error.Sign())
		require.Zero(t, res.Numerator[0].Cmp(one))
		require.Zero(t, res.Denominator[0].Cmp(one))
		require.Zero(t, res.Denominator[1].Sign())
		require.Equal(t, 1, res.InnerIterations)
	})

	t.Run("InnerNotConverged", func(t *testing.T) {

		p := testParameters(bignum.Exp, 0, 1)
		p.MaxInnerIterations = 1

		_, err := Rational(ctx, p, 2, 2)
		require.ErrorIs(t, err, ErrNotConverged)

		var cerr *ConvergenceError
		require.True(t, errors.As(err, &cerr))
		require.Equal(t, Inner, cerr.Stage)
	})
}

func TestSystem(t *testing.T) {

	ctx := context.Background()

	t.Run("Singular", func(t *testing.T) {

		r, err := NewPolynomialRemez(testParameters(bignum.Exp, 0, 1), 3)
		require.NoError(t, err)
		require.NoError(t, r.initialize(ctx))

		// Rows 1 and 3 become identical
		r.nodes[2], r.nodes[3] = r.nodes[1], r.nodes[1]

		_, err = r.solveWithRecovery(ctx, r.Logger)
		require.ErrorIs(t, err, ErrSingularSystem)
	})

	t.Run("PerturbRetries", func(t *testing.T) {

		p := testParameters(bignum.Exp, 0, 1)
		p.PerturbRetries = 2
		p.Seed = 0x5eed

		r, err := NewPolynomialRemez(p, 3)
		require.NoError(t, err)
		require.NoError(t, r.initialize(ctx))

		r.nodes[2], r.nodes[3] = r.nodes[1], r.nodes[1]

		sol, err := r.solveWithRecovery(ctx, r.Logger)
		require.NoError(t, err)
		require.Equal(t, 1, r.retries)
		require.Len(t, sol.num, 4)

		for m := 1; m < len(r.nodes); m++ {
			require.Equal(t, 1, r.nodes[m].x.Cmp(r.nodes[m-1].x))
		}
	})

	t.Run("ZeroAmplitudeGuess", func(t *testing.T) {

		logger, hook := logtest.NewNullLogger()
		logger.SetLevel(logrus.TraceLevel)

		r, err := NewRationalRemez(testParameters(bignum.Exp, -2, 1), 0, 1)
		require.NoError(t, err)

		// Linearised at E = 0 the system gives E = 1, and linearised at E = 1
		// it gives E = 0 exactly. The amplitude is 2(1-G)/(2-G), whose fixed
		// point 2-sqrt(2) repels the plain iteration 0, 1, 0, 1, ...
		r.nodes = make([]node, 3)
		for m, xy := range [][2]float64{{-2, 1}, {-1, 0}, {1, 4}} {
			r.nodes[m] = node{x: bignum.NewFloat(xy[0], testPrec), y: bignum.NewFloat(xy[1], testPrec)}
		}

		sol, err := r.solve(ctx, logger)
		require.NoError(t, err)

		var linearisations []float64
		var zeros []interface{}
		for _, entry := range hook.AllEntries() {
			switch entry.Message {
			case "linearisation":
				linearisations = append(linearisations, entry.Data["error"].(float64))
			case "zero error amplitude, relaxing":
				zeros = append(zeros, entry.Data["inner"])
			}
		}

		require.Equal(t, []interface{}{2}, zeros)
		require.Len(t, linearisations, sol.inner)
		require.Equal(t, 1.0, linearisations[0])
		require.Zero(t, linearisations[1])

		// Relaxed from the guess 1 to 1/2, where the amplitude is 2/3
		require.InDelta(t, 2.0/3, linearisations[2], 1e-15)

		require.Equal(t, 6, sol.inner)
		require.Equal(t, 6, r.innerIterations)

		want := new(big.Float).SetPrec(testPrec).SetInt64(2)
		want.Sub(want, new(big.Float).SetPrec(testPrec).Sqrt(want))
		requireClose(t, sol.E, want, 1e-9)
	})

	t.Run("Pole", func(t *testing.T) {

		r, err := NewRationalRemez(testParameters(bignum.Exp, 0, 1), 1, 1)
		require.NoError(t, err)
		require.NoError(t, r.initialize(ctx))

		num := []*big.Float{bignum.NewFloat(1, testPrec), bignum.NewFloat(1, testPrec)}

		// 1 - 2x vanishes at x = 0.5, which is on the grid
		_, err = r.residual(ctx, num, []*big.Float{bignum.NewFloat(1, testPrec), bignum.NewFloat(-2, testPrec)})
		require.ErrorIs(t, err, ErrPole)
		require.ErrorIs(t, err, bignum.ErrZeroDenominator)

		// 1 - 3x changes sign between two grid points
		_, err = r.residual(ctx, num, []*big.Float{bignum.NewFloat(1, testPrec), bignum.NewFloat(-3, testPrec)})
		require.ErrorIs(t, err, ErrPole)
	})

	t.Run("Grid", func(t *testing.T) {

		r, err := NewPolynomialRemez(testParameters(bignum.Exp, -1, 3), 3)
		require.NoError(t, err)
		require.NoError(t, r.initialize(ctx))

		require.Len(t, r.grid.x, 200*4+1)
		require.Zero(t, r.grid.x[0].Cmp(r.Interval.A))
		require.Zero(t, r.grid.x[len(r.grid.x)-1].Cmp(r.Interval.B))

		// Equispaced nodes include both endpoints
		require.Len(t, r.nodes, 5)
		require.Zero(t, r.nodes[0].x.Cmp(r.Interval.A))
		require.Zero(t, r.nodes[2].x.Cmp(bignum.NewFloat(1, testPrec)))
		require.Zero(t, r.nodes[4].x.Cmp(r.Interval.B))
	})
}

func mustFloat64(x *big.Float) float64 {
	f, _ := x.Float64()
	return f
}
