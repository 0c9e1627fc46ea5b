// SPDX-License-Identifier: MIT
package matrix_test

import (
	"sync"
	"testing"

	"github.com/katalvlaran/hierbasis/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestNewSparse_InvalidDimensions ensures non-positive shapes are rejected.
func TestNewSparse_InvalidDimensions(t *testing.T) {
	t.Parallel()

	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 3}} {
		_, err := matrix.NewSparse(dims[0], dims[1])
		require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	}
}

// TestSparse_SetColAndAt verifies that only nonzeros are stored and
// that reads of unset entries return zero.
func TestSparse_SetColAndAt(t *testing.T) {
	t.Parallel()

	s, err := matrix.NewSparse(4, 3)
	require.NoError(t, err)

	require.NoError(t, s.SetCol(1, []float64{1.5, 0, -2, 0}))
	assert.Equal(t, 2, s.NNZ())
	assert.Equal(t, 2, s.ColNNZ(1))
	assert.Equal(t, 0, s.ColNNZ(0))

	assert.Equal(t, 1.5, s.At(0, 1))
	assert.Equal(t, -2.0, s.At(2, 1))
	assert.Equal(t, 0.0, s.At(1, 1))
	assert.Equal(t, 0.0, s.At(3, 2))

	// replacing a column drops the previous entries
	require.NoError(t, s.SetCol(1, []float64{0, 0, 0, 7}))
	assert.Equal(t, 1, s.NNZ())
	assert.Equal(t, 0.0, s.At(0, 1))
	assert.Equal(t, 7.0, s.At(3, 1))
}

// TestSparse_Errors covers out-of-range columns and bad column lengths.
func TestSparse_Errors(t *testing.T) {
	t.Parallel()

	s, err := matrix.NewSparse(2, 2)
	require.NoError(t, err)

	require.ErrorIs(t, s.SetCol(2, []float64{1, 2}), matrix.ErrOutOfRange)
	require.ErrorIs(t, s.SetCol(-1, []float64{1, 2}), matrix.ErrOutOfRange)
	require.ErrorIs(t, s.SetCol(0, []float64{1}), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, s.ColTo(make([]float64, 3), 0), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, s.ColTo(make([]float64, 2), 5), matrix.ErrOutOfRange)

	assert.Panics(t, func() { s.At(2, 0) })
	assert.Panics(t, func() { s.At(0, 2) })
	assert.Panics(t, func() { s.Col(3) })
}

// TestSparse_ToDenseAndGonum checks interop with gonum kernels.
func TestSparse_ToDenseAndGonum(t *testing.T) {
	t.Parallel()

	s, err := matrix.NewSparse(3, 2)
	require.NoError(t, err)
	require.NoError(t, s.SetCol(0, []float64{1, 0, 2}))
	require.NoError(t, s.SetCol(1, []float64{0, 3, 0}))

	want := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 3,
		2, 0,
	})
	assert.True(t, mat.Equal(want, s.ToDense()))
	assert.True(t, mat.Equal(want, s))
	assert.True(t, mat.Equal(want.T(), s.T()))

	// *Sparse participates in gonum products directly.
	var prod mat.Dense
	prod.Mul(s.T(), s)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{5, 0, 0, 9}), &prod))

	col := s.Col(0)
	assert.Equal(t, []float64{1, 0, 2}, col)
}

// TestSparse_ConcurrentDisjointColumns fills distinct columns from many
// goroutines; run with -race to check that columns share no storage.
func TestSparse_ConcurrentDisjointColumns(t *testing.T) {
	t.Parallel()

	const rows, cols = 8, 32
	s, err := matrix.NewSparse(rows, cols)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for j := 0; j < cols; j++ {
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			v := make([]float64, rows)
			v[j%rows] = float64(j + 1)
			_ = s.SetCol(j, v)
		}(j)
	}
	wg.Wait()

	assert.Equal(t, cols, s.NNZ())
	for j := 0; j < cols; j++ {
		assert.Equal(t, float64(j+1), s.At(j%rows, j))
	}
}
