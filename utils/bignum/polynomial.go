package bignum

import (
	"fmt"
	"math/big"
)

// Basis is a type for the polynomials basis
type Basis int

const (
	// Monomial : x^(a+b) = x^a * x^b
	Monomial = Basis(0)
	// Chebyshev : T_(a+b) = 2 * T_a * T_b - T_(|a-b|)
	Chebyshev = Basis(1)
)

func (b Basis) String() string {
	switch b {
	case Monomial:
		return "monomial"
	case Chebyshev:
		return "chebyshev"
	default:
		return fmt.Sprintf("Basis(%d)", int(b))
	}
}

// Polynomial is a real polynomial with arbitrary precision coefficients
// stored in ascending order. For the Chebyshev basis, Interval is the
// domain mapped onto [-1, 1].
type Polynomial struct {
	Basis
	Interval
	Coeffs []*big.Float
}

// NewPolynomial creates a new polynomial from the input parameters:
// basis: either `Monomial` or `Chebyshev`
// coeffs: []float64 or []*big.Float
// interval: [2]float64{a, b}, *Interval or nil
func NewPolynomial(basis Basis, coeffs interface{}, interval interface{}) Polynomial {
	var coefficients []*big.Float

	switch coeffs := coeffs.(type) {
	case []float64:
		coefficients = make([]*big.Float, len(coeffs))
		for i, c := range coeffs {
			coefficients[i] = new(big.Float).SetFloat64(c)
		}
	case []*big.Float:
		coefficients = make([]*big.Float, len(coeffs))
		for i, c := range coeffs {
			coefficients[i] = new(big.Float).Set(c)
		}
	default:
		panic(fmt.Sprintf("invalid coefficient type, allowed types are []{float64, *big.Float} but is %T", coeffs))
	}

	inter := Interval{}
	switch interval := interval.(type) {
	case [2]float64:
		inter.A = new(big.Float).SetFloat64(interval[0])
		inter.B = new(big.Float).SetFloat64(interval[1])
	case *Interval:
		inter.A = new(big.Float).Set(interval.A)
		inter.B = new(big.Float).Set(interval.B)
	case nil:
	default:
		panic(fmt.Sprintf("invalid interval type, allowed types are [2]float64 or *Interval, but is %T", interval))
	}

	return Polynomial{
		Basis:    basis,
		Interval: inter,
		Coeffs:   coefficients,
	}
}

// Clone returns a deep copy of the polynomial.
func (p Polynomial) Clone() Polynomial {
	Coeffs := make([]*big.Float, len(p.Coeffs))
	for i := range Coeffs {
		Coeffs[i] = new(big.Float).Set(p.Coeffs[i])
	}

	inter := Interval{Nodes: p.Nodes}
	if p.A != nil {
		inter.A = new(big.Float).Set(p.A)
	}
	if p.B != nil {
		inter.B = new(big.Float).Set(p.B)
	}

	return Polynomial{
		Basis:    p.Basis,
		Interval: inter,
		Coeffs:   Coeffs,
	}
}

// Degree returns the degree of the polynomial.
func (p Polynomial) Degree() int {
	return len(p.Coeffs) - 1
}

// ChangeOfBasis returns change of basis required to evaluate the polynomial
// Change of basis is defined as follow:
//   - Monomial: scalar=1, constant=0.
//   - Chebyshev: scalar=2/(b-a), constant = (-a-b)/(b-a).
func (p Polynomial) ChangeOfBasis() (scalar, constant *big.Float) {

	switch p.Basis {
	case Monomial:
		scalar = new(big.Float).SetInt64(1)
		constant = new(big.Float)
	case Chebyshev:
		num := new(big.Float).Sub(p.B, p.A)

		// 2 / (b-a)
		scalar = new(big.Float).Quo(new(big.Float).SetInt64(2), num)

		// (-b-a)/(b-a)
		constant = new(big.Float).Set(p.B)
		constant.Neg(constant)
		constant.Sub(constant, p.A)
		constant.Quo(constant, num)
	default:
		panic(fmt.Sprintf("invalid basis type, allowed types are `Monomial` or `Chebyshev` but is %v", p.Basis))
	}

	return
}

// Evaluate returns y = P(x). The precision of x is used as reference precision for y.
func (p Polynomial) Evaluate(x *big.Float) (y *big.Float) {
	switch p.Basis {
	case Monomial:
		return MonomialEval(x, p.Coeffs)
	case Chebyshev:
		return ChebyshevEval(x, p.Coeffs, p.Interval)
	default:
		panic(fmt.Sprintf("invalid basis type, allowed types are `Monomial` or `Chebyshev` but is %v", p.Basis))
	}
}

// ToMonomial returns the same polynomial expressed in the monomial basis of x.
// A polynomial already in the monomial basis is returned as a copy.
func (p Polynomial) ToMonomial() Polynomial {

	if p.Basis == Monomial {
		return p.Clone()
	}

	n := len(p.Coeffs)

	prec := p.Coeffs[0].Prec()
	for _, c := range p.Coeffs {
		if c.Prec() > prec {
			prec = c.Prec()
		}
	}

	// Monomial coefficients in u of sum c_k T_k(u)
	inU := NewVector(n, prec)

	Tprev := NewVector(n, prec)
	Tprev[0].SetInt64(1)
	T := NewVector(n, prec)
	if n > 1 {
		T[1].SetInt64(1)
	}

	tmp := new(big.Float).SetPrec(prec)
	for k := 0; k < n; k++ {

		var Tk []*big.Float
		if k == 0 {
			Tk = Tprev
		} else {
			Tk = T
		}

		for j := range Tk {
			inU[j].Add(inU[j], tmp.Mul(p.Coeffs[k], Tk[j]))
		}

		if k >= 1 && k < n-1 {
			// T_{k+1} = 2u T_k - T_{k-1}
			Tnext := NewVector(n, prec)
			for j := 0; j < n-1; j++ {
				Tnext[j+1].Add(T[j], T[j])
			}
			for j := range Tnext {
				Tnext[j].Sub(Tnext[j], Tprev[j])
			}
			Tprev, T = T, Tnext
		}
	}

	// Substitutes u = scalar * x + constant with Horner's method
	scalar, constant := p.ChangeOfBasis()

	coeffs := NewVector(1, prec)
	coeffs[0].Set(inU[n-1])
	for k := n - 2; k >= 0; k-- {
		coeffs = mulLinear(coeffs, scalar, constant, prec)
		coeffs[0].Add(coeffs[0], inU[k])
	}

	return Polynomial{Basis: Monomial, Coeffs: coeffs}
}

// mulLinear returns poly * (scalar * x + constant).
func mulLinear(poly []*big.Float, scalar, constant *big.Float, prec uint) (res []*big.Float) {
	res = NewVector(len(poly)+1, prec)
	tmp := new(big.Float).SetPrec(prec)
	for i, c := range poly {
		res[i].Add(res[i], tmp.Mul(c, constant))
		res[i+1].Add(res[i+1], tmp.Mul(c, scalar))
	}
	return
}
