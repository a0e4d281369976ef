package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApproximation(t *testing.T) {

	prec := uint(128)

	t.Run("Chebyshev", func(t *testing.T) {

		interval := NewInterval(-4, 4, prec)

		poly, err := ChebyshevApproximation(Sigmoid, interval, 63)
		require.NoError(t, err)

		xBig := NewFloat(1.4142135623730951, prec)

		y0, _ := Sigmoid(xBig).Float64()
		y1, _ := poly.Evaluate(xBig).Float64()

		require.InDelta(t, y0, y1, 1e-15)
	})

	t.Run("Chebyshev/Float64", func(t *testing.T) {

		interval := NewInterval(-1, 1, prec)

		poly, err := ChebyshevApproximation(math.Exp, interval, 20)
		require.NoError(t, err)

		y, _ := poly.Evaluate(NewFloat(0.5, prec)).Float64()
		require.InDelta(t, math.Exp(0.5), y, 1e-14)
	})

	t.Run("Chebyshev/InvalidInterval", func(t *testing.T) {
		_, err := ChebyshevApproximation(Exp, NewInterval(1, -1, prec), 4)
		require.Error(t, err)
	})

	t.Run("ChebyshevNodes", func(t *testing.T) {
		interval := NewInterval(-2, 3, prec)
		nodes := ChebyshevNodes(7, interval)
		require.Len(t, nodes, 7)
		for i := range nodes {
			require.True(t, interval.Contains(nodes[i]))
			if i > 0 {
				require.Equal(t, 1, nodes[i].Cmp(nodes[i-1]))
			}
		}
	})

	t.Run("ToMonomial", func(t *testing.T) {

		interval := NewInterval(-0.5, 2, prec)

		poly, err := ChebyshevApproximation(Exp, interval, 12)
		require.NoError(t, err)

		mono := poly.ToMonomial()
		require.Equal(t, Monomial, mono.Basis)
		require.Equal(t, poly.Degree(), mono.Degree())

		for _, x := range []float64{-0.5, 0.1, 1.3, 2} {
			xBig := NewFloat(x, prec)
			requireClose(t, poly.Evaluate(xBig), mono.Evaluate(xBig), 1e-25)
		}
	})

	t.Run("Pade/Exp", func(t *testing.T) {

		// exp(x) = sum x^k / k!
		taylor := make([]*big.Float, 5)
		fact := NewFloat(1, prec)
		for k := range taylor {
			if k > 0 {
				fact.Mul(fact, NewFloat(k, prec))
			}
			taylor[k] = new(big.Float).SetPrec(prec).Quo(NewFloat(1, prec), fact)
		}

		num, den, err := PadeApproximation(taylor, 2, 2)
		require.NoError(t, err)

		// [2/2] = (1 + x/2 + x^2/12) / (1 - x/2 + x^2/12)
		twelfth := new(big.Float).Quo(NewFloat(1, prec), NewFloat(12, prec))
		requireClose(t, num[0], NewFloat(1, prec), 1e-35)
		requireClose(t, num[1], NewFloat(0.5, prec), 1e-35)
		requireClose(t, num[2], twelfth, 1e-35)
		require.Zero(t, den[0].Cmp(NewFloat(1, prec)))
		requireClose(t, den[1], NewFloat(-0.5, prec), 1e-35)
		requireClose(t, den[2], twelfth, 1e-35)
	})

	t.Run("Pade/NotEnoughCoefficients", func(t *testing.T) {
		_, _, err := PadeApproximation([]*big.Float{NewFloat(1, prec)}, 1, 1)
		require.Error(t, err)
	})
}
