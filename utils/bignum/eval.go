package bignum

import (
	"errors"
	"math/big"
)

// ErrZeroDenominator is returned when a rational function is evaluated at a
// point where its denominator is exactly zero.
var ErrZeroDenominator = errors.New("bignum: denominator evaluates to zero")

// evalPrec returns the precision at which an evaluation at x is carried out:
// the precision of x, or of the leading coefficient if x carries none.
func evalPrec(x *big.Float, poly []*big.Float) uint {
	if prec := x.Prec(); prec != 0 {
		return prec
	}
	return poly[len(poly)-1].Prec()
}

// MonomialEval evaluates y = sum x^i * poly[i] with Horner's method.
// The result has the precision of x.
func MonomialEval(x *big.Float, poly []*big.Float) (y *big.Float) {

	if len(poly) == 0 {
		return new(big.Float).SetPrec(x.Prec())
	}

	n := len(poly) - 1
	y = new(big.Float).SetPrec(evalPrec(x, poly)).Set(poly[n])
	for i := n - 1; i >= 0; i-- {
		y.Mul(y, x)
		y.Add(y, poly[i])
	}
	return
}

// MonomialEvalDerivative evaluates y = sum x^i * poly[i] and its derivative
// dy = sum i * x^(i-1) * poly[i] in a single Horner pass.
func MonomialEvalDerivative(x *big.Float, poly []*big.Float) (y, dy *big.Float) {

	prec := x.Prec()
	if len(poly) == 0 {
		return new(big.Float).SetPrec(prec), new(big.Float).SetPrec(prec)
	}

	prec = evalPrec(x, poly)

	n := len(poly) - 1
	y = new(big.Float).SetPrec(prec).Set(poly[n])
	dy = new(big.Float).SetPrec(prec)
	for i := n - 1; i >= 0; i-- {
		dy.Mul(dy, x)
		dy.Add(dy, y)
		y.Mul(y, x)
		y.Add(y, poly[i])
	}
	return
}

// RationalEval evaluates y = P(x)/Q(x) where P and Q are given by their
// coefficients in ascending order. It returns ErrZeroDenominator if Q(x) is
// exactly zero.
func RationalEval(x *big.Float, num, den []*big.Float) (y *big.Float, err error) {

	q := MonomialEval(x, den)

	if q.Sign() == 0 {
		return nil, ErrZeroDenominator
	}

	y = MonomialEval(x, num)
	y.Quo(y, q)
	return
}

// ChebyshevEval evaluates y = sum Ti(x) * poly[i], where T0(x) = 1, T1(x) = (2x-a-b)/(b-a) and T{i+j}(x) = 2TiTj(x)- T|i-j|(x).
func ChebyshevEval(x *big.Float, poly []*big.Float, inter Interval) (y *big.Float) {

	precision := evalPrec(x, poly)

	two := NewFloat(2, precision)
	var tmp, u = new(big.Float).SetPrec(precision), new(big.Float).SetPrec(precision)
	var T, Tprev, Tnext = new(big.Float).SetPrec(precision), new(big.Float).SetPrec(precision), new(big.Float).SetPrec(precision)

	// u = (2*x - (a+b))/(b-a)
	u.Set(x)
	u.Mul(u, two)
	u.Sub(u, inter.A)
	u.Sub(u, inter.B)
	tmp.Set(inter.B)
	tmp.Sub(tmp, inter.A)
	u.Quo(u, tmp)

	Tprev.SetFloat64(1)
	T.Set(u)
	y = new(big.Float).SetPrec(precision).Set(poly[0])

	for i := 1; i < len(poly); i++ {
		y.Add(y, tmp.Mul(T, poly[i]))
		Tnext.Mul(two, u)
		Tnext.Mul(Tnext, T)
		Tnext.Sub(Tnext, Tprev)
		Tprev.Set(T)
		T.Set(Tnext)
	}

	return
}
