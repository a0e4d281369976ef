package targets

import (
	"math/big"

	"github.com/tuneinsight/minimax/utils/bignum"
)

// expSeries returns 1/k!, k = 0, ..., n-1.
func expSeries(n int, prec uint) (c []*big.Float) {
	c = bignum.NewVector(n, prec)
	fact := new(big.Float).SetPrec(prec).SetInt64(1)
	for k := range c {
		if k > 0 {
			fact.Mul(fact, new(big.Float).SetInt64(int64(k)))
		}
		c[k].Quo(new(big.Float).SetPrec(prec).SetInt64(1), fact)
	}
	return
}

// trigSeries returns the series of sin (parity 1) or cos (parity 0) when
// sign = -1 and of sinh or cosh when sign = 1.
func trigSeries(parity int, sign int64) func(n int, prec uint) []*big.Float {
	return func(n int, prec uint) (c []*big.Float) {
		c = expSeries(n, prec)
		s := new(big.Float).SetInt64(sign)
		for k := range c {
			switch {
			case k&1 != parity:
				c[k].SetInt64(0)
			case (k>>1)&1 == 1:
				c[k].Mul(c[k], s)
			}
		}
		return
	}
}

// log1pSeries returns 0, 1, -1/2, 1/3, ...
func log1pSeries(n int, prec uint) (c []*big.Float) {
	c = bignum.NewVector(n, prec)
	for k := 1; k < n; k++ {
		c[k].SetInt64(1)
		c[k].Quo(c[k], new(big.Float).SetInt64(int64(k)))
		if k&1 == 0 {
			c[k].Neg(c[k])
		}
	}
	return
}

// atanSeries returns 0, 1, 0, -1/3, 0, 1/5, ...
func atanSeries(n int, prec uint) (c []*big.Float) {
	c = bignum.NewVector(n, prec)
	for k := 1; k < n; k += 2 {
		c[k].SetInt64(1)
		c[k].Quo(c[k], new(big.Float).SetInt64(int64(k)))
		if (k>>1)&1 == 1 {
			c[k].Neg(c[k])
		}
	}
	return
}
