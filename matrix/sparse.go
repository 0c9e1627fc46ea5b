// SPDX-License-Identifier: MIT

// Package matrix - column-sparse storage for coefficient paths.
//
// Purpose:
//   - Store one coefficient vector per λ without O(rows*cols) dense memory.
//   - Each column keeps its own sorted (row, value) lists, so concurrent writers
//     filling DISJOINT columns never share a buffer.
//   - Interoperate with gonum: *Sparse satisfies mat.Matrix (Dims/At/T).
//
// Complexity quicksheet:
//   - NewSparse: O(c); SetCol: O(r); At: O(log nnz(col)); ColTo: O(r); ToDense: O(r*c).

package matrix

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// ---------- error context tags ----------

const (
	ctxSetCol = "SetCol"
	ctxColTo  = "ColTo"
)

// sparseErrorf wraps an error with a uniform Sparse context and the column index.
func sparseErrorf(method string, col int, err error) error {
	return fmt.Errorf("Sparse.%s(%d): %w", method, col, err)
}

// sparseCol is one compressed column: strictly increasing row indices and
// their (nonzero) values.
type sparseCol struct {
	idx []int
	val []float64
}

// Sparse is an r×c column-compressed matrix of float64 values.
// Only exact nonzeros are stored; a never-set column reads as all zeros.
type Sparse struct {
	r, c int
	cols []sparseCol
}

// Compile-time assertion for gonum interface conformance.
var _ mat.Matrix = (*Sparse)(nil)

// NewSparse creates an r×c all-zero sparse matrix.
//
// Errors:
//   - ErrInvalidDimensions if rows<=0 or cols<=0.
//
// Complexity:
//   - Time O(c), Space O(c).
func NewSparse(rows, cols int) (*Sparse, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Sparse{r: rows, c: cols, cols: make([]sparseCol, cols)}, nil
}

// Dims returns the row and column counts.
func (s *Sparse) Dims() (r, c int) { return s.r, s.c }

// T returns the implicit transpose (gonum mat.Matrix contract).
func (s *Sparse) T() mat.Matrix { return mat.Transpose{Matrix: s} }

// At returns the element at (i, j).
// It panics on out-of-range indices, matching gonum's mat.Matrix contract.
func (s *Sparse) At(i, j int) float64 {
	if i < 0 || i >= s.r {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= s.c {
		panic(mat.ErrColAccess)
	}
	col := s.cols[j]
	if pos, found := slices.BinarySearch(col.idx, i); found {
		return col.val[pos]
	}

	return 0
}

// SetCol replaces column j with the nonzero entries of dense.
// MAIN DESCRIPTION:
//   - Compress a dense column into (row, value) pairs, dropping exact zeros.
//
// Behavior highlights:
//   - Columns may be set in any order; setting a column again replaces it.
//   - Writers of distinct columns may run concurrently.
//
// Errors:
//   - ErrOutOfRange when j is outside [0, c).
//   - ErrDimensionMismatch when len(dense) != r.
//
// Complexity:
//   - Time O(r), Space O(nnz).
func (s *Sparse) SetCol(j int, dense []float64) error {
	if j < 0 || j >= s.c {
		return sparseErrorf(ctxSetCol, j, ErrOutOfRange)
	}
	if len(dense) != s.r {
		return sparseErrorf(ctxSetCol, j, ErrDimensionMismatch)
	}
	nnz := 0
	for _, v := range dense {
		if v != 0 {
			nnz++
		}
	}
	col := sparseCol{idx: make([]int, 0, nnz), val: make([]float64, 0, nnz)}
	for i, v := range dense {
		if v != 0 {
			col.idx = append(col.idx, i)
			col.val = append(col.val, v)
		}
	}
	s.cols[j] = col

	return nil
}

// ColTo scatters column j into dst, which must have length r.
// Entries not stored in the column are written as zero.
func (s *Sparse) ColTo(dst []float64, j int) error {
	if j < 0 || j >= s.c {
		return sparseErrorf(ctxColTo, j, ErrOutOfRange)
	}
	if len(dst) != s.r {
		return sparseErrorf(ctxColTo, j, ErrDimensionMismatch)
	}
	clear(dst)
	col := s.cols[j]
	for k, i := range col.idx {
		dst[i] = col.val[k]
	}

	return nil
}

// Col returns a freshly allocated dense copy of column j.
// It panics on an out-of-range column like At.
func (s *Sparse) Col(j int) []float64 {
	if j < 0 || j >= s.c {
		panic(mat.ErrColAccess)
	}
	dst := make([]float64, s.r)
	_ = s.ColTo(dst, j) // shape is correct by construction

	return dst
}

// NNZ returns the total number of stored nonzeros.
func (s *Sparse) NNZ() int {
	total := 0
	for _, col := range s.cols {
		total += len(col.idx)
	}

	return total
}

// ColNNZ returns the number of stored nonzeros in column j.
func (s *Sparse) ColNNZ(j int) int {
	if j < 0 || j >= s.c {
		panic(mat.ErrColAccess)
	}

	return len(s.cols[j].idx)
}

// ToDense materializes the matrix as a gonum *mat.Dense.
// Complexity: O(r*c).
func (s *Sparse) ToDense() *mat.Dense {
	out := mat.NewDense(s.r, s.c, nil)
	for j, col := range s.cols {
		for k, i := range col.idx {
			out.Set(i, j, col.val[k])
		}
	}

	return out
}
