package bignum

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrSingularSystem is returned when a linear system has no unique solution at
// the working precision.
var ErrSingularSystem = errors.New("bignum: singular system")

// NewMatrix allocates a rows x cols matrix of zeros with prec bits of precision.
func NewMatrix(rows, cols int, prec uint) (matrix [][]*big.Float) {
	matrix = make([][]*big.Float, rows)
	for i := range matrix {
		matrix[i] = NewVector(cols, prec)
	}
	return
}

// NewVector allocates a vector of n zeros with prec bits of precision.
func NewVector(n int, prec uint) (vector []*big.Float) {
	vector = make([]*big.Float, n)
	for i := range vector {
		vector[i] = new(big.Float).SetPrec(prec)
	}
	return
}

// SolveLinearSystemInPlace solves for y the system matrix * y = vector using
// Gaussian elimination with partial pivoting. The solution is written on
// vector and matrix is overwritten.
//
// It returns ErrSingularSystem if a pivot is zero, or if it is negligible
// relative to the largest entry of its column at the precision of the matrix.
func SolveLinearSystemInPlace(matrix [][]*big.Float, vector []*big.Float) (err error) {

	n := len(matrix)

	if n == 0 {
		return nil
	}

	if len(vector) != n {
		return fmt.Errorf("cannot SolveLinearSystemInPlace: len(vector)=%d != len(matrix)=%d", len(vector), n)
	}

	for i := range matrix {
		if len(matrix[i]) != n {
			return fmt.Errorf("cannot SolveLinearSystemInPlace: matrix is not square")
		}
	}

	prec := matrix[0][0].Prec()
	if prec == 0 {
		prec = vector[0].Prec()
	}

	tmp := new(big.Float).SetPrec(prec)
	vMax := new(big.Float).SetPrec(prec)
	scale := new(big.Float).SetPrec(prec)

	for i := 0; i < n; i++ {

		// Partial pivoting: the largest entry of column i below the diagonal
		iMax := i
		vMax.Abs(matrix[i][i])
		for j := i + 1; j < n; j++ {
			if tmp.Abs(matrix[j][i]).Cmp(vMax) > 0 {
				vMax.Set(tmp)
				iMax = j
			}
		}

		if vMax.Sign() == 0 {
			return fmt.Errorf("%w: zero pivot at column %d", ErrSingularSystem, i)
		}

		// The pivot must not vanish relative to the magnitude of the row it
		// comes from, else the solution is noise.
		scale.SetFloat64(0)
		for k := i; k < n; k++ {
			if tmp.Abs(matrix[iMax][k]).Cmp(scale) > 0 {
				scale.Set(tmp)
			}
		}

		if vMax.MantExp(nil)-scale.MantExp(nil) < -int(prec) {
			return fmt.Errorf("%w: negligible pivot at column %d", ErrSingularSystem, i)
		}

		if iMax != i {
			matrix[i], matrix[iMax] = matrix[iMax], matrix[i]
			vector[i], vector[iMax] = vector[iMax], vector[i]
		}

		a := new(big.Float).Set(matrix[i][i])

		vector[i].Quo(vector[i], a)
		for k := n - 1; k >= i; k-- {
			matrix[i][k].Quo(matrix[i][k], a)
		}

		for j := i + 1; j < n; j++ {
			c := new(big.Float).Set(matrix[j][i])
			if c.Sign() == 0 {
				continue
			}
			vector[j].Sub(vector[j], tmp.Mul(vector[i], c))
			for k := n - 1; k >= i; k-- {
				matrix[j][k].Sub(matrix[j][k], tmp.Mul(matrix[i][k], c))
			}
		}
	}

	// Back substitution on the unit upper triangular system
	for i := n - 1; i > 0; i-- {
		c := vector[i]
		for j := i - 1; j >= 0; j-- {
			vector[j].Sub(vector[j], tmp.Mul(matrix[j][i], c))
		}
	}

	return
}
