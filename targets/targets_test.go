package targets

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/minimax/utils/bignum"
)

func TestRegistry(t *testing.T) {

	t.Run("Names", func(t *testing.T) {
		names := Names()
		require.Contains(t, names, "exp")
		require.Contains(t, names, "atan")
		require.IsIncreasing(t, names)
	})

	t.Run("Get/Unknown", func(t *testing.T) {
		_, err := Get("gamma")
		require.ErrorContains(t, err, "unknown target")
	})

	t.Run("Register/Duplicate", func(t *testing.T) {
		require.Error(t, Register(Target{Name: "exp", Function: bignum.Exp}))
		require.Error(t, Register(Target{Name: "nothing"}))
	})

	t.Run("Domain", func(t *testing.T) {
		log, err := Get("log")
		require.NoError(t, err)
		_, err = log.Evaluate(bignum.NewFloat(-1, 64))
		require.Error(t, err)
		y, err := log.Evaluate(bignum.NewFloat(2, 64))
		require.NoError(t, err)
		f, _ := y.Float64()
		require.InDelta(t, math.Ln2, f, 1e-15)
	})
}

func TestFunctions(t *testing.T) {

	for name, f := range map[string]func(float64) float64{
		"exp":     math.Exp,
		"expm1":   math.Expm1,
		"log":     math.Log,
		"log1p":   math.Log1p,
		"sqrt":    math.Sqrt,
		"sin":     math.Sin,
		"cos":     math.Cos,
		"sinh":    math.Sinh,
		"cosh":    math.Cosh,
		"tanh":    math.Tanh,
		"sigmoid": func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
		"atan":    math.Atan,
	} {
		t.Run(name, func(t *testing.T) {
			target, err := Get(name)
			require.NoError(t, err)
			for _, x := range []float64{0.125, 0.7, 1.9} {
				y, err := target.Evaluate(bignum.NewFloat(x, 53))
				require.NoError(t, err)
				yf, _ := y.Float64()
				require.InDelta(t, f(x), yf, 1e-14)
			}
		})
	}

}

func TestSeries(t *testing.T) {

	prec := uint(128)
	x := bignum.NewFloat(0.0625, prec)

	for _, name := range []string{"exp", "expm1", "log1p", "sin", "cos", "sinh", "cosh", "atan"} {
		t.Run(name, func(t *testing.T) {

			target, err := Get(name)
			require.NoError(t, err)
			require.NotNil(t, target.Taylor)

			c := target.Taylor(30, prec)
			require.Len(t, c, 30)

			want := target.Function(x)
			have := bignum.MonomialEval(x, c)

			diff := new(big.Float).Sub(want, have)
			d, _ := diff.Abs(diff).Float64()
			require.Less(t, d, 1e-30)
		})
	}
}

func TestComposition(t *testing.T) {

	prec := uint(128)
	x := bignum.NewFloat(0.5, prec)

	t.Run("Difference", func(t *testing.T) {
		zero := Difference(bignum.SinH, bignum.SinH)(x)
		require.Zero(t, zero.Sign())
	})

	t.Run("Scale", func(t *testing.T) {
		y, _ := Scale(bignum.Exp, bignum.NewFloat(2, prec))(x).Float64()
		require.InDelta(t, 2*math.Exp(0.5), y, 1e-15)
	})

	t.Run("Affine", func(t *testing.T) {
		y, _ := Affine(bignum.Exp, bignum.NewFloat(2, prec), bignum.NewFloat(-1, prec))(x).Float64()
		require.InDelta(t, 1.0, y, 1e-15)
	})

	t.Run("Polynomial", func(t *testing.T) {
		p := bignum.NewPolynomial(bignum.Monomial, []float64{1, 2, 3}, nil)
		y, _ := Polynomial(p)(bignum.NewFloat(2, prec)).Float64()
		require.Equal(t, 17.0, y)
	})
}
