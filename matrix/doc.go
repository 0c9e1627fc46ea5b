// Package matrix offers the storage types shared by the hierbasis solvers.
//
// The matrix package provides:
//
//   - Sparse, a column-compressed r×c matrix used for coefficient paths
//     (one column per λ, many trailing zeros by construction of the penalty).
//   - Tensor, an n×J×p design made of one contiguous n×J slab per predictor,
//     with no-copy *mat.Dense slab views.
//   - CenterColumns / CenterVec for the centering precondition of the solvers.
//   - Validators returning package sentinels (ErrDimensionMismatch, ErrNonPositive…).
//
// Dense linear algebra is delegated to gonum.org/v1/gonum/mat; *Sparse
// satisfies mat.Matrix so it can be passed to gonum kernels directly.
package matrix
