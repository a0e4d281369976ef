package bignum

import (
	"fmt"
	"math/big"
)

// ChebyshevApproximation computes the Chebyshev interpolant of degree `degree`
// of f on [interval.A, interval.B], i.e. the polynomial in the Chebyshev basis
// that matches f on the degree+1 Chebyshev nodes of the interval.
// f.(type) can be either :
//   - func(float64)float64
//   - func(*big.Float)*big.Float
//
// The reference precision is taken from interval.A.
func ChebyshevApproximation(f interface{}, interval Interval, degree int) (pol Polynomial, err error) {

	if degree < 0 {
		return pol, fmt.Errorf("cannot ChebyshevApproximation: degree=%d must be non-negative", degree)
	}

	if err = interval.Validate(); err != nil {
		return pol, fmt.Errorf("cannot ChebyshevApproximation: %w", err)
	}

	prec := interval.A.Prec()

	var fBig func(*big.Float) *big.Float

	switch f := f.(type) {
	case func(x float64) (y float64):
		fBig = func(x *big.Float) (y *big.Float) {
			xf64, _ := x.Float64()
			return new(big.Float).SetPrec(prec).SetFloat64(f(xf64))
		}
	case func(x *big.Float) (y *big.Float):
		fBig = f
	default:
		return pol, fmt.Errorf("cannot ChebyshevApproximation: invalid f.(type), accepted types are func(float64)float64 or func(*big.Float)*big.Float but is %T", f)
	}

	nodes := ChebyshevNodes(degree+1, interval)

	fi := make([]*big.Float, len(nodes))
	for i := range nodes {
		fi[i] = fBig(nodes[i])
	}

	interval.Nodes = degree + 1

	return NewPolynomial(Chebyshev, chebyCoeffs(nodes, fi, interval), &interval), nil
}

// ChebyshevNodes returns the n Chebyshev nodes of the first kind of the
// interval, in increasing order:
// x_k = (a+b)/2 + (b-a)/2 * cos((k-1/2) * pi / n), k = n, ..., 1.
func ChebyshevNodes(n int, interval Interval) (nodes []*big.Float) {

	prec := interval.A.Prec()

	nodes = make([]*big.Float, n)

	half := new(big.Float).SetPrec(prec).SetFloat64(0.5)

	x := new(big.Float).SetPrec(prec).Add(interval.A, interval.B)
	x.Mul(x, half)
	y := new(big.Float).SetPrec(prec).Sub(interval.B, interval.A)
	y.Mul(y, half)

	PiOverN := Pi(prec)
	PiOverN.Quo(PiOverN, new(big.Float).SetInt64(int64(n)))

	for k := 1; k < n+1; k++ {
		up := new(big.Float).SetPrec(prec).SetFloat64(float64(k) - 0.5)
		up.Mul(up, PiOverN)
		up = Cos(up)
		up.Mul(up, y)
		up.Add(up, x)
		nodes[n-k] = up
	}

	return
}

func chebyCoeffs(nodes []*big.Float, fi []*big.Float, interval Interval) (coeffs []*big.Float) {

	prec := interval.A.Prec()

	n := len(nodes)

	coeffs = NewVector(n, prec)

	u := new(big.Float).SetPrec(prec)
	tmp := new(big.Float).SetPrec(prec)
	two := new(big.Float).SetPrec(prec).SetInt64(2)

	minusab := new(big.Float).SetPrec(prec).Set(interval.A)
	minusab.Neg(minusab)
	minusab.Sub(minusab, interval.B)

	bminusa := new(big.Float).SetPrec(prec).Set(interval.B)
	bminusa.Sub(bminusa, interval.A)

	Tprev := new(big.Float).SetPrec(prec)
	T := new(big.Float).SetPrec(prec)
	Tnext := new(big.Float).SetPrec(prec)

	for i := 0; i < n; i++ {

		u.Mul(nodes[i], two)
		u.Add(u, minusab)
		u.Quo(u, bminusa)

		Tprev.SetFloat64(1)
		T.Set(u)

		for j := 0; j < n; j++ {

			coeffs[j].Add(coeffs[j], tmp.Mul(fi[i], Tprev))

			Tnext.Mul(u, T)
			Tnext.Mul(Tnext, two)
			Tnext.Sub(Tnext, Tprev)

			Tprev.Set(T)
			T.Set(Tnext)
		}
	}

	N := new(big.Float).SetInt64(int64(n))

	coeffs[0].Quo(coeffs[0], N)

	NHalf := new(big.Float).Quo(N, two)

	for i := 1; i < n; i++ {
		coeffs[i].Quo(coeffs[i], NHalf)
	}

	return
}
