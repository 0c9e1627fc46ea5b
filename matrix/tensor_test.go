// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/hierbasis/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestTensor_SlabViewSharesMemory verifies that Slab returns a view.
func TestTensor_SlabViewSharesMemory(t *testing.T) {
	t.Parallel()

	tn, err := matrix.NewTensor(3, 2, 4)
	require.NoError(t, err)
	n, j, p := tn.Dims()
	assert.Equal(t, [3]int{3, 2, 4}, [3]int{n, j, p})

	slab := tn.Slab(2)
	slab.Set(1, 1, 9)

	v, err := tn.At(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)

	require.NoError(t, tn.Set(0, 1, 3, -4))
	assert.Equal(t, -4.0, tn.Slab(3).At(0, 1))
	// neighbouring slabs are untouched
	assert.Equal(t, 0.0, tn.Slab(1).At(1, 1))
}

// TestTensor_Errors covers invalid shapes and indices.
func TestTensor_Errors(t *testing.T) {
	t.Parallel()

	_, err := matrix.NewTensor(0, 1, 1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	tn, err := matrix.NewTensor(2, 2, 2)
	require.NoError(t, err)
	_, err = tn.At(2, 0, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, tn.Set(0, 0, 2, 1), matrix.ErrOutOfRange)
	assert.Panics(t, func() { tn.Slab(2) })
}

// TestNewTensorFromSlabs copies slabs and rejects ragged input.
func TestNewTensorFromSlabs(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{5, 6, 7, 8})
	tn, err := matrix.NewTensorFromSlabs(a, b)
	require.NoError(t, err)
	assert.True(t, mat.Equal(a, tn.Slab(0)))
	assert.True(t, mat.Equal(b, tn.Slab(1)))

	// copies, not aliases
	a.Set(0, 0, 100)
	assert.Equal(t, 1.0, tn.Slab(0).At(0, 0))

	_, err = matrix.NewTensorFromSlabs(a, mat.NewDense(3, 2, nil))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.NewTensorFromSlabs()
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewTensorFromSlabs(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
