package lambda

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/hierbasis/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrBadMaxLambda indicates a non-positive or non-finite max_λ.
	ErrBadMaxLambda = errors.New("lambda: max lambda must be finite and > 0")

	// ErrBadRatio indicates a lam_min_ratio outside (0, 1).
	ErrBadRatio = errors.New("lambda: ratio must lie in (0, 1)")

	// ErrBadNLambda indicates a path length below one.
	ErrBadNLambda = errors.New("lambda: number of lambdas must be >= 1")

	// ErrDimensionMismatch indicates inputs of incompatible lengths.
	ErrDimensionMismatch = errors.New("lambda: dimension mismatch")
)

// Max returns max_j |v[j]| / ak[j], the λ at which every v[j] meets its own
// ak[j] bound and the hierarchical prox returns the zero vector.
//
// Errors:
//   - ErrDimensionMismatch when the lengths differ or are zero.
//   - matrix.ErrNonPositive (wrapped) when some ak[j] <= 0.
func Max(v, ak []float64) (float64, error) {
	if len(v) == 0 || len(v) != len(ak) {
		return 0, ErrDimensionMismatch
	}
	if err := matrix.ValidatePositive(ak); err != nil {
		return 0, fmt.Errorf("lambda: Max: %w", err)
	}
	best := 0.0
	for j, vj := range v {
		best = math.Max(best, math.Abs(vj)/ak[j])
	}

	return best, nil
}

// NullTol is the relative size, against the RMS of the response, below which
// a projection of the response is rounding noise.
const NullTol = 1e-12

// Negligible reports whether a projection of y whose largest absolute entry
// is vmax vanishes up to rounding: vmax <= NullTol·max(1, ‖y‖₂/√n).
// Solvers treat such a response as orthogonal to the design.
func Negligible(vmax float64, y []float64) bool {
	scale := 1.0
	if len(y) > 0 {
		scale = math.Max(1, floats.Norm(y, 2)/math.Sqrt(float64(len(y))))
	}

	return vmax <= NullTol*scale
}

// Sequence returns nlam values log-uniformly spaced from maxLambda down to
// maxLambda·ratio, both endpoints included and exact.
// A single-point path holds only maxLambda·ratio, the end of the grid.
//
// Errors:
//   - ErrBadMaxLambda, ErrBadRatio, ErrBadNLambda.
func Sequence(maxLambda, ratio float64, nlam int) ([]float64, error) {
	if !(maxLambda > 0) || math.IsInf(maxLambda, 0) {
		return nil, ErrBadMaxLambda
	}
	if !(ratio > 0 && ratio < 1) {
		return nil, ErrBadRatio
	}
	if nlam < 1 {
		return nil, ErrBadNLambda
	}
	minLambda := maxLambda * ratio
	if nlam == 1 {
		return []float64{minLambda}, nil
	}
	out := make([]float64, nlam)
	floats.LogSpan(out, maxLambda, minLambda)
	// exp(log(x)) is not always x; pin the endpoints so λ_0 == max_λ exactly.
	out[0] = maxLambda
	out[nlam-1] = minLambda

	return out, nil
}

// Weights returns the len(ak)×len(lambdas) matrix whose column i is ak·λ_i.
func Weights(ak, lambdas []float64) (*mat.Dense, error) {
	if len(ak) == 0 || len(lambdas) == 0 {
		return nil, ErrDimensionMismatch
	}
	w := mat.NewDense(len(ak), len(lambdas), nil)
	for j, a := range ak {
		row := w.RawRowView(j)
		copy(row, lambdas)
		floats.Scale(a, row)
	}

	return w, nil
}

// ScaleColumns multiplies column i of template by lambdas[i] in place.
//
// Errors:
//   - matrix.ErrNilMatrix (wrapped) for a nil template.
//   - ErrDimensionMismatch when template does not have len(lambdas) columns.
func ScaleColumns(template *mat.Dense, lambdas []float64) error {
	if err := matrix.ValidateNotNil(template); err != nil {
		return fmt.Errorf("lambda: ScaleColumns: %w", err)
	}
	r, c := template.Dims()
	if c != len(lambdas) {
		return ErrDimensionMismatch
	}
	for j := 0; j < r; j++ {
		floats.Mul(template.RawRowView(j), lambdas)
	}

	return nil
}
