package bignum

import (
	"fmt"
	"math/big"
)

// Interval is a struct storing information about interval
// for a polynomial approximation.
// Nodes: the number of points used for the interpolation.
// [A, B]: the domain of the interpolation.
type Interval struct {
	Nodes int
	A, B  *big.Float
}

// NewInterval returns the interval [a, b] with prec bits of precision.
// a and b accept the same types as NewFloat.
func NewInterval(a, b interface{}, prec uint) Interval {
	return Interval{
		A: NewFloat(a, prec),
		B: NewFloat(b, prec),
	}
}

// Validate checks that the interval is well formed, i.e. that A < B.
func (inter Interval) Validate() error {
	if inter.A == nil || inter.B == nil {
		return fmt.Errorf("invalid interval: bounds must be set")
	}

	if inter.A.IsInf() || inter.B.IsInf() {
		return fmt.Errorf("invalid interval: bounds must be finite")
	}

	if inter.A.Cmp(inter.B) >= 0 {
		return fmt.Errorf("invalid interval: A=%v must be smaller than B=%v", inter.A, inter.B)
	}

	return nil
}

// Width returns B-A with prec bits of precision.
func (inter Interval) Width(prec uint) *big.Float {
	return new(big.Float).SetPrec(prec).Sub(inter.B, inter.A)
}

// Contains returns true if A <= x <= B.
func (inter Interval) Contains(x *big.Float) bool {
	return inter.A.Cmp(x) <= 0 && x.Cmp(inter.B) <= 0
}

// SetPrec returns a copy of the interval with both bounds at prec bits of precision.
func (inter Interval) SetPrec(prec uint) Interval {
	return Interval{
		Nodes: inter.Nodes,
		A:     new(big.Float).SetPrec(prec).Set(inter.A),
		B:     new(big.Float).SetPrec(prec).Set(inter.B),
	}
}

func (inter Interval) String() string {
	return fmt.Sprintf("[%v, %v]", inter.A, inter.B)
}
