package univariate

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/hierbasis/matrix"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch indicates inconsistent design, response, weights or template shapes.
	ErrDimensionMismatch = errors.New("univariate: dimension mismatch")

	// ErrRankDeficient indicates fewer observations than basis functions, or a
	// design whose R factor has a zero diagonal entry.
	ErrRankDeficient = errors.New("univariate: design matrix is rank deficient")
)

// Default option values.
const (
	DefaultLambdaMinRatio = 1e-4
	DefaultNLambda        = 50
)

// Options configures Solve.
//
// Fields:
//   - LambdaMinRatio — ratio min_λ / max_λ, in (0, 1).
//   - NLambda        — number of λ values on the path (>= 1).
//   - MaxLambda      — first λ of the path; 0 selects max(|v|/ak) internally.
//   - Weights        — optional J×NLambda template (usually ak repeated per
//     column); it is copied, then column i is scaled by λ_i. nil ⇒ ak per column.
//   - Workers        — goroutines used for the per-λ prox columns.
//   - Logger         — receives ill-conditioning warnings; nil ⇒ slog.Default().
type Options struct {
	LambdaMinRatio float64
	NLambda        int
	MaxLambda      float64
	Weights        *mat.Dense
	Workers        int
	Logger         *slog.Logger
}

// DefaultOptions returns the defaults for Solve.
func DefaultOptions() Options {
	return Options{
		LambdaMinRatio: DefaultLambdaMinRatio,
		NLambda:        DefaultNLambda,
		Workers:        1,
	}
}

// normalize fills zero-valued fields with defaults.
func (o Options) normalize() Options {
	if o.LambdaMinRatio == 0 {
		o.LambdaMinRatio = DefaultLambdaMinRatio
	}
	if o.NLambda == 0 {
		o.NLambda = DefaultNLambda
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Logger = o.Logger.With(slog.String("component", "univariate"))

	return o
}

// Result is the fitted path.
type Result struct {
	// Beta is J×nlam; column i holds the coefficients at Lambdas[i] on the
	// original basis scale.
	Beta *mat.Dense

	// BetaOrtho holds the same path on the orthonormal (Q) scale.
	BetaOrtho *matrix.Sparse

	// Lambdas is the realized, non-increasing λ path.
	Lambdas []float64

	// Q (n×J, QᵀQ = n·I) and R (J×J upper triangular) with design = Q·R.
	Q *mat.Dense
	R *mat.TriDense
}
