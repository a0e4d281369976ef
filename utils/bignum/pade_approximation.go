package bignum

import (
	"fmt"
	"math/big"
)

// PadeApproximation returns the [m/n] Padé approximant P/Q of the power series
// sum taylor[i] * x^i, with deg(P) <= m, deg(Q) <= n and Q[0] = 1.
//
// The denominator is obtained by solving the n x n system
//
//	sum_{j=1}^{n} Q[j] * taylor[m+k-j] = -taylor[m+k], k = 1, ..., n
//
// and the numerator by P[i] = sum_{j=0}^{min(i,n)} Q[j] * taylor[i-j].
// Coefficients with negative index are zero.
func PadeApproximation(taylor []*big.Float, m, n int) (num, den []*big.Float, err error) {

	if m < 0 || n < 0 {
		return nil, nil, fmt.Errorf("cannot PadeApproximation: degrees m=%d and n=%d must be non-negative", m, n)
	}

	if len(taylor) < m+n+1 {
		return nil, nil, fmt.Errorf("cannot PadeApproximation: %d Taylor coefficients are required but %d were given", m+n+1, len(taylor))
	}

	var prec uint
	for _, c := range taylor[:m+n+1] {
		if c.Prec() > prec {
			prec = c.Prec()
		}
	}

	c := func(i int) *big.Float {
		if i < 0 {
			return new(big.Float).SetPrec(prec)
		}
		return taylor[i]
	}

	den = NewVector(n+1, prec)
	den[0].SetInt64(1)

	if n > 0 {
		matrix := NewMatrix(n, n, prec)
		vector := NewVector(n, prec)

		for k := 1; k <= n; k++ {
			for j := 1; j <= n; j++ {
				matrix[k-1][j-1].Set(c(m + k - j))
			}
			vector[k-1].Neg(c(m + k))
		}

		if err = SolveLinearSystemInPlace(matrix, vector); err != nil {
			return nil, nil, fmt.Errorf("cannot PadeApproximation: %w", err)
		}

		for j := 1; j <= n; j++ {
			den[j].Set(vector[j-1])
		}
	}

	num = NewVector(m+1, prec)
	tmp := new(big.Float).SetPrec(prec)
	for i := 0; i <= m; i++ {
		for j := 0; j <= i && j <= n; j++ {
			num[i].Add(num[i], tmp.Mul(den[j], c(i-j)))
		}
	}

	return
}
