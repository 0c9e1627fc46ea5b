// Package basis builds the centered polynomial designs and penalty
// increments used by the hierarchical solvers.
//
// For a predictor x the basis is [x, x², …, x^J]; penalizing the suffix
// norms with increments ak[k] = (k+1)^m − k^m makes higher-order terms
// enter later and with a stronger penalty (m is the smoothness level).
package basis

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/hierbasis/matrix"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrBadBasisSize indicates J < 1.
	ErrBadBasisSize = errors.New("basis: number of basis functions must be >= 1")

	// ErrBadSmoothness indicates a smoothness level m <= 0 or non-finite.
	ErrBadSmoothness = errors.New("basis: smoothness must be finite and > 0")

	// ErrEmptyInput indicates no observations.
	ErrEmptyInput = errors.New("basis: input must be non-empty")
)

// Weights returns the J penalty increments ak[k] = (k+1)^m − k^m, k = 0..J−1.
// All increments are strictly positive for m > 0.
func Weights(J int, m float64) ([]float64, error) {
	if J < 1 {
		return nil, ErrBadBasisSize
	}
	if !(m > 0) || math.IsInf(m, 0) {
		return nil, ErrBadSmoothness
	}
	ak := make([]float64, J)
	for k := range ak {
		ak[k] = math.Pow(float64(k+1), m) - math.Pow(float64(k), m)
	}

	return ak, nil
}

// Polynomial returns the column-centered n×J design [x, x², …, x^J] and the
// column means removed from it (needed to center new points at predict time).
func Polynomial(x []float64, J int) (*mat.Dense, []float64, error) {
	raw, err := Raw(x, J)
	if err != nil {
		return nil, nil, err
	}
	centered, means, err := matrix.CenterColumns(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("basis: Polynomial: %w", err)
	}

	return centered, means, nil
}

// Raw returns the uncentered n×J design [x, x², …, x^J].
func Raw(x []float64, J int) (*mat.Dense, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if J < 1 {
		return nil, ErrBadBasisSize
	}
	if err := matrix.ValidateFinite(x); err != nil {
		return nil, fmt.Errorf("basis: Raw: %w", err)
	}
	out := mat.NewDense(len(x), J, nil)
	for i, xi := range x {
		row := out.RawRowView(i)
		pow := xi
		for k := 0; k < J; k++ {
			row[k] = pow
			pow *= xi
		}
	}

	return out, nil
}

// Tensor builds the additive design: slab j is Polynomial(xs[:, j], J).
// The returned means matrix is J×p, column j holding the means of slab j.
func Tensor(xs mat.Matrix, J int) (*matrix.Tensor, *mat.Dense, error) {
	if err := matrix.ValidateNotNil(xs); err != nil {
		return nil, nil, fmt.Errorf("basis: Tensor: %w", err)
	}
	n, p := xs.Dims()
	out, err := matrix.NewTensor(n, J, p)
	if err != nil {
		if J < 1 {
			return nil, nil, ErrBadBasisSize
		}
		return nil, nil, fmt.Errorf("basis: Tensor: %w", err)
	}
	means := mat.NewDense(J, p, nil)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, xs)
		slab, m, err := Polynomial(col, J)
		if err != nil {
			return nil, nil, fmt.Errorf("basis: Tensor predictor %d: %w", j, err)
		}
		out.Slab(j).Copy(slab)
		means.SetCol(j, m)
	}

	return out, means, nil
}

// Evaluate builds the design for new points x, centered with the means
// returned by Polynomial on the training data. J is len(means).
func Evaluate(x, means []float64) (*mat.Dense, error) {
	out, err := Raw(x, len(means))
	if err != nil {
		return nil, err
	}
	r, _ := out.Dims()
	for i := 0; i < r; i++ {
		row := out.RawRowView(i)
		for k, m := range means {
			row[k] -= m
		}
	}

	return out, nil
}
