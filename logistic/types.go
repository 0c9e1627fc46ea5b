package logistic

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/hierbasis/matrix"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch indicates inconsistent design, response or ak lengths.
	ErrDimensionMismatch = errors.New("logistic: dimension mismatch")

	// ErrBadResponse indicates a label outside {0, 1}, or labels that are all
	// equal (the intercept has no finite minimizer).
	ErrBadResponse = errors.New("logistic: response must mix 0 and 1 labels")
)

// Status is the terminal state of one λ.
type Status int

const (
	// Converged means ‖Δ‖∞ fell below Tol.
	Converged Status = iota

	// IterationCapReached means MaxIter steps ran; the last iterate is kept.
	IterationCapReached
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationCapReached:
		return "iteration cap reached"
	default:
		return "unknown"
	}
}

// Default option values.
const (
	DefaultLambdaMinRatio = 1e-4
	DefaultNLambda        = 50
	DefaultTol            = 1e-6
	DefaultMaxIter        = 1000
)

// step is 1/L for L = 1/4, the bound on σ'(η) with QᵀQ/n = I.
const step = 4.0

// Options configures Solve.
type Options struct {
	LambdaMinRatio float64
	NLambda        int
	MaxLambda      float64 // 0 ⇒ max(|Qᵀ(y−ȳ)/n| / ak)
	Tol            float64 // on the max-abs change of (β₀, β)
	MaxIter        int     // proximal steps per λ
	Logger         *slog.Logger
}

// DefaultOptions returns the defaults for Solve.
func DefaultOptions() Options {
	return Options{
		LambdaMinRatio: DefaultLambdaMinRatio,
		NLambda:        DefaultNLambda,
		Tol:            DefaultTol,
		MaxIter:        DefaultMaxIter,
	}
}

func (o Options) normalize() Options {
	if o.LambdaMinRatio == 0 {
		o.LambdaMinRatio = DefaultLambdaMinRatio
	}
	if o.NLambda == 0 {
		o.NLambda = DefaultNLambda
	}
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
	if o.MaxIter < 1 {
		o.MaxIter = DefaultMaxIter
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Logger = o.Logger.With(slog.String("component", "logistic"))

	return o
}

// Result is the fitted logistic path.
type Result struct {
	Beta      *mat.Dense     // J×nlam, basis scale
	BetaOrtho *matrix.Sparse // J×nlam, Q scale
	Intercept []float64      // β₀ per λ
	Lambdas   []float64

	Status     []Status
	Iterations []int

	Q *mat.Dense
	R *mat.TriDense
}
