package additive

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/hierbasis/matrix"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNilInput indicates a missing response, design or weight matrix.
	ErrNilInput = errors.New("additive: nil input")

	// ErrDimensionMismatch indicates inconsistent shapes between inputs.
	ErrDimensionMismatch = errors.New("additive: dimension mismatch")

	// ErrBadActiveSet indicates an out-of-range or duplicated block index.
	ErrBadActiveSet = errors.New("additive: invalid active set")

	// ErrBadAlpha indicates a mixing parameter outside (0, 1].
	ErrBadAlpha = errors.New("additive: alpha must lie in (0, 1]")
)

// Criterion selects the convergence test applied after each sweep.
type Criterion int

const (
	// NormDifference stops when |‖β‖ − ‖β_old‖| < Tol. This compares norms,
	// not the norm of the difference, and can accept two different iterates of
	// equal norm; it is kept as the default for compatibility.
	NormDifference Criterion = iota

	// Strict stops when ‖β − β_old‖ < Tol.
	Strict
)

// Status is the terminal state of one λ.
type Status int

const (
	// Converged means the convergence test passed.
	Converged Status = iota

	// IterationCapReached means MaxIter sweeps ran without passing the test;
	// the stored coefficients are the last iterate.
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
	DefaultTol            = 1e-4
	DefaultMaxIter        = 100
	DefaultLambdaMinRatio = 1e-4
	DefaultNLambda        = 50
	DefaultAlpha          = 1.0
)

// Options configures the block coordinate descent.
//
// Fields:
//   - Tol       — convergence tolerance (> 0).
//   - MaxIter   — maximum sweeps per λ (>= 1).
//   - Criterion — NormDifference (default) or Strict.
//   - Workers   — >1 solves λ columns concurrently, each from its own copy of
//     the supplied warm start; 1 (default) runs them in order and carries the
//     warm start from one λ to the next.
//   - Logger    — receives non-convergence warnings; nil ⇒ slog.Default().
type Options struct {
	Tol       float64
	MaxIter   int
	Criterion Criterion
	Workers   int
	Logger    *slog.Logger
}

// DefaultOptions returns the defaults for Fit.
func DefaultOptions() Options {
	return Options{Tol: DefaultTol, MaxIter: DefaultMaxIter, Workers: 1}
}

// normalize fills zero-valued fields with defaults.
func (o Options) normalize() Options {
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
	if o.MaxIter < 1 {
		o.MaxIter = DefaultMaxIter
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Logger = o.Logger.With(slog.String("component", "additive"))

	return o
}

// Input carries the arrays of the core fit.
//
// Fields:
//   - Y       — response, length n.
//   - Weights — J×nlam (shared by all blocks) or (p·J)×nlam (block j uses rows
//     j·J … j·J+J−1); divided by n internally.
//   - XBeta   — n×p warm-start contributions, column j = X_j·β_j; nil ⇒
//     computed from Beta. It must be consistent with Beta: the first sweep
//     reads block contributions from XBeta, and only the blocks it rewrites
//     become consistent afterwards. When unsure, leave it nil.
//   - X       — n×J×p design tensor.
//   - Beta    — J×p warm-start coefficients; nil ⇒ zeros.
//
// Inputs are never mutated.
type Input struct {
	Y       []float64
	Weights mat.Matrix
	XBeta   *mat.Dense
	X       *matrix.Tensor
	Beta    *mat.Dense
}

// Result is the fitted additive path.
type Result struct {
	// Beta is (p·J)×nlam: column i stacks β_0, …, β_{p−1} at λ_i.
	Beta *matrix.Sparse

	// Status, Iterations and Change hold, per λ, the terminal state, the
	// number of sweeps and the last convergence statistic.
	Status     []Status
	Iterations []int
	Change     []float64

	// FinalBeta (J×p) and FinalXBeta (n×p) are the state after the last λ,
	// usable as a warm start for another call.
	FinalBeta  *mat.Dense
	FinalXBeta *mat.Dense
}

// Converged reports whether every λ passed the convergence test.
func (r *Result) Converged() bool {
	for _, s := range r.Status {
		if s != Converged {
			return false
		}
	}

	return true
}

// Block returns β_j at path index i as a fresh slice of length J.
func (r *Result) Block(i, j int) []float64 {
	col := r.Beta.Col(i)
	J := len(col) / r.blocks()

	return col[j*J : (j+1)*J]
}

func (r *Result) blocks() int {
	_, p := r.FinalBeta.Dims()
	return p
}
