package targets

import (
	"math/big"

	"github.com/tuneinsight/minimax/utils/bignum"
)

// Difference returns x -> f(x) - g(x).
func Difference(f, g func(x *big.Float) (y *big.Float)) func(x *big.Float) (y *big.Float) {
	return func(x *big.Float) (y *big.Float) {
		y = f(x)
		return y.Sub(y, g(x))
	}
}

// Scale returns x -> s * f(x).
func Scale(f func(x *big.Float) (y *big.Float), s *big.Float) func(x *big.Float) (y *big.Float) {
	return func(x *big.Float) (y *big.Float) {
		y = f(x)
		return y.Mul(y, s)
	}
}

// Affine returns x -> f(a*x + b).
func Affine(f func(x *big.Float) (y *big.Float), a, b *big.Float) func(x *big.Float) (y *big.Float) {
	return func(x *big.Float) (y *big.Float) {
		u := new(big.Float).SetPrec(x.Prec()).Mul(a, x)
		return f(u.Add(u, b))
	}
}

// Polynomial returns p as a target, e.g. to build the error of a closed-form
// approximant with Difference.
func Polynomial(p bignum.Polynomial) func(x *big.Float) (y *big.Float) {
	return p.Evaluate
}
