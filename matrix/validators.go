// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common precondition checks
//    shared by prox, univariate, additive and logistic.
//  - Keep solver facades minimal by delegating length/sign/finiteness checks here.
//  - Return wrapped sentinel errors so call sites can match with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//
// Note:
//  - Each composite validator follows a fixed sequence (nil → length → values).

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// validatorErrorf wraps an underlying error with the given validator tag.
// Used internally to maintain consistent labeling of sentinel violations.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
//
// Returns ErrNilMatrix if m == nil or a typed nil *mat.Dense.
// Complexity: O(1).
func ValidateNotNil(m mat.Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*mat.Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateDims ensures m is non-nil and exactly r×c.
// A negative r or c skips that axis.
// Complexity: O(1).
func ValidateDims(m mat.Matrix, r, c int) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	mr, mc := m.Dims()
	if r >= 0 && mr != r {
		return validatorErrorf("ValidateDims: Rows", ErrDimensionMismatch)
	}
	if c >= 0 && mc != c {
		return validatorErrorf("ValidateDims: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	// Disallow nil vectors to avoid subtle bugs in mat-vec routines.
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects NaN and ±Inf entries.
// Time: O(len(x)).
func ValidateFinite(x []float64) error {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validatorErrorf("ValidateFinite", ErrNaNInf)
		}
	}

	return nil
}

// ValidatePositive requires every entry to be finite and strictly positive.
// Penalty increments ak are divided by, so zero is rejected here.
// Time: O(len(x)).
func ValidatePositive(x []float64) error {
	if err := ValidateFinite(x); err != nil {
		return err
	}
	for _, v := range x {
		if v <= 0 {
			return validatorErrorf("ValidatePositive", ErrNonPositive)
		}
	}

	return nil
}

// ValidateNonNegative requires every entry to be finite and >= 0.
// Time: O(len(x)).
func ValidateNonNegative(x []float64) error {
	if err := ValidateFinite(x); err != nil {
		return err
	}
	for _, v := range x {
		if v < 0 {
			return validatorErrorf("ValidateNonNegative", ErrNegative)
		}
	}

	return nil
}
