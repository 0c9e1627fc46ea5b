package prox

import (
	"fmt"

	"github.com/katalvlaran/hierbasis/matrix"
	"gonum.org/v1/gonum/floats"
)

// Hierarchical returns the minimizer of ½‖v − β‖² + Σ_j w[j]·‖β[j:p]‖₂.
// v and w are not modified.
//
// Errors:
//   - ErrEmptyInput          — len(v) == 0.
//   - ErrDimensionMismatch   — len(w) != len(v).
//   - ErrNegativeWeight      — some w[j] < 0, NaN or Inf.
func Hierarchical(v, w []float64) ([]float64, error) {
	beta := make([]float64, len(v))
	if err := HierarchicalTo(beta, v, w); err != nil {
		return nil, err
	}

	return beta, nil
}

// HierarchicalTo is Hierarchical writing into dst, which must have len(v).
// dst may alias v, in which case v is overwritten with the result.
//
// Algorithm:
//  1. β ← v.
//  2. For j = p−1 down to 0:
//     s = ‖β[j:p]‖₂
//     β[j:p] ← max(1 − w[j]/s, 0) · β[j:p]   (s == 0 leaves the zero suffix as is)
//
// Once a suffix is zeroed every shorter suffix inside it is already zero, so
// the backward pass sees the collapsed tail and the nested sparsity holds.
func HierarchicalTo(dst, v, w []float64) error {
	if err := validate(v, w); err != nil {
		return err
	}
	if len(dst) != len(v) {
		return ErrDimensionMismatch
	}
	copy(dst, v)

	var (
		p     = len(dst)
		norm  float64
		scale float64
	)
	for j := p - 1; j >= 0; j-- {
		tail := dst[j:p]
		norm = floats.Norm(tail, 2)
		if norm == 0 {
			continue
		}
		scale = 1 - w[j]/norm
		if scale <= 0 {
			clear(tail)
			continue
		}
		floats.Scale(scale, tail)
	}

	return nil
}

// validate checks the shared preconditions of v and w.
func validate(v, w []float64) error {
	if len(v) == 0 {
		return ErrEmptyInput
	}
	if len(w) != len(v) {
		return ErrDimensionMismatch
	}
	if err := matrix.ValidateNonNegative(w); err != nil {
		return fmt.Errorf("%w: %w", ErrNegativeWeight, err)
	}

	return nil
}
