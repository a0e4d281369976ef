package bignum

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func newMatrixFromFloat64(values [][]float64, prec uint) (matrix [][]*big.Float) {
	matrix = NewMatrix(len(values), len(values[0]), prec)
	for i := range values {
		for j := range values[i] {
			matrix[i][j].SetFloat64(values[i][j])
		}
	}
	return
}

func newVectorFromFloat64(values []float64, prec uint) (vector []*big.Float) {
	vector = NewVector(len(values), prec)
	for i := range values {
		vector[i].SetFloat64(values[i])
	}
	return
}

func TestSolveLinearSystemInPlace(t *testing.T) {

	prec := uint(128)

	t.Run("Dense", func(t *testing.T) {
		// Solution is (1, -2, 3)
		matrix := newMatrixFromFloat64([][]float64{
			{2, 1, -1},
			{-3, -1, 2},
			{-2, 1, 2},
		}, prec)
		vector := newVectorFromFloat64([]float64{-3, 5, 2}, prec)

		require.NoError(t, SolveLinearSystemInPlace(matrix, vector))

		for i, want := range []float64{1, -2, 3} {
			requireClose(t, vector[i], NewFloat(want, prec), 1e-35)
		}
	})

	t.Run("ZeroDiagonal", func(t *testing.T) {
		// Requires a row swap on the first column
		matrix := newMatrixFromFloat64([][]float64{
			{0, 1},
			{1, 0},
		}, prec)
		vector := newVectorFromFloat64([]float64{4, 5}, prec)

		require.NoError(t, SolveLinearSystemInPlace(matrix, vector))
		require.Zero(t, vector[0].Cmp(NewFloat(5, prec)))
		require.Zero(t, vector[1].Cmp(NewFloat(4, prec)))
	})

	t.Run("Singular", func(t *testing.T) {
		matrix := newMatrixFromFloat64([][]float64{
			{1, 2},
			{2, 4},
		}, prec)
		vector := newVectorFromFloat64([]float64{1, 2}, prec)

		require.ErrorIs(t, SolveLinearSystemInPlace(matrix, vector), ErrSingularSystem)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		matrix := NewMatrix(2, 2, prec)
		vector := NewVector(3, prec)
		err := SolveLinearSystemInPlace(matrix, vector)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrSingularSystem)
	})
}
