// SPDX-License-Identifier: MIT

// Package matrix - design tensor for additive models.
//
// Purpose:
//   - Hold an n×J×p design: one n×J slab of basis columns per predictor.
//   - Slabs are contiguous row-major blocks inside a single buffer, so Slab(j)
//     is a no-copy *mat.Dense view (offset = j*n*J + i*J + k).

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is an n×J×p array of float64 values stored slab-major.
type Tensor struct {
	n, k, p int       // observations, basis functions per slab, slabs
	data    []float64 // len == n*k*p
}

// NewTensor allocates a zero n×j×p tensor.
//
// Errors:
//   - ErrInvalidDimensions if any dimension is non-positive.
func NewTensor(n, j, p int) (*Tensor, error) {
	if n <= 0 || j <= 0 || p <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Tensor{n: n, k: j, p: p, data: make([]float64, n*j*p)}, nil
}

// NewTensorFromSlabs copies equally shaped n×J matrices into a new tensor,
// slab j taken from slabs[j].
//
// Errors:
//   - ErrInvalidDimensions for an empty slab list.
//   - ErrNilMatrix for a nil slab.
//   - ErrDimensionMismatch when slab shapes differ.
func NewTensorFromSlabs(slabs ...mat.Matrix) (*Tensor, error) {
	if len(slabs) == 0 {
		return nil, ErrInvalidDimensions
	}
	if err := ValidateNotNil(slabs[0]); err != nil {
		return nil, fmt.Errorf("NewTensorFromSlabs(0): %w", err)
	}
	n, j := slabs[0].Dims()
	t, err := NewTensor(n, j, len(slabs))
	if err != nil {
		return nil, err
	}
	for s, m := range slabs {
		if err = ValidateDims(m, n, j); err != nil {
			return nil, fmt.Errorf("NewTensorFromSlabs(%d): %w", s, err)
		}
		t.Slab(s).Copy(m)
	}

	return t, nil
}

// Dims returns (observations, basis functions per slab, slabs).
func (t *Tensor) Dims() (n, j, p int) { return t.n, t.k, t.p }

// Slab returns a view of predictor slab s; writes through the view mutate t.
// It panics when s is out of range.
func (t *Tensor) Slab(s int) *mat.Dense {
	if s < 0 || s >= t.p {
		panic(ErrOutOfRange)
	}
	size := t.n * t.k

	return mat.NewDense(t.n, t.k, t.data[s*size:(s+1)*size:(s+1)*size])
}

// offset computes the flat offset of (i, k, s) or returns ErrOutOfRange.
func (t *Tensor) offset(i, k, s int) (int, error) {
	if i < 0 || i >= t.n || k < 0 || k >= t.k || s < 0 || s >= t.p {
		return 0, ErrOutOfRange
	}

	return s*t.n*t.k + i*t.k + k, nil
}

// At returns element (i, k) of slab s.
func (t *Tensor) At(i, k, s int) (float64, error) {
	off, err := t.offset(i, k, s)
	if err != nil {
		return 0, fmt.Errorf("Tensor.At(%d,%d,%d): %w", i, k, s, err)
	}

	return t.data[off], nil
}

// Set assigns element (i, k) of slab s.
func (t *Tensor) Set(i, k, s int, v float64) error {
	off, err := t.offset(i, k, s)
	if err != nil {
		return fmt.Errorf("Tensor.Set(%d,%d,%d): %w", i, k, s, err)
	}
	t.data[off] = v

	return nil
}
