package additive

import (
	"fmt"
	"math"

	"github.com/katalvlaran/hierbasis/lambda"
	"github.com/katalvlaran/hierbasis/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PathOptions configures FitPath: the λ path is generated internally from
// ak, and the fit can be restricted to an active set of blocks.
//
// Fields (in addition to Options):
//   - LambdaMinRatio, NLambda — λ grid, as in univariate.
//   - MaxLambda — first λ; 0 ⇒ max over visited blocks of max_k |v_j[k]|/a[k]
//     with v_j = X_jᵀr/n, r = y minus the warm-start contributions of the
//     blocks outside ActiveSet, and a the mixed increments below.
//   - Alpha     — in (0, 1]; block weights are λ·(α·ak + (1−α)·e₀), where e₀
//     puts the extra weight on the full-block suffix (a group-lasso term on
//     β_j as a whole). 0 selects DefaultAlpha (plain hierarchical penalty).
//   - BetaInit, XBetaInit — warm start (J×p, n×p).
//   - BetaIsZero — ignore BetaInit/XBetaInit and start from zero.
//   - ActiveSet — blocks visited by the sweeps (nil ⇒ all, in index order);
//     other blocks keep their warm-start coefficients.
type PathOptions struct {
	Options

	LambdaMinRatio float64
	NLambda        int
	MaxLambda      float64
	Alpha          float64

	BetaInit   *mat.Dense
	XBetaInit  *mat.Dense
	BetaIsZero bool
	ActiveSet  []int
}

// DefaultPathOptions returns the defaults for FitPath.
func DefaultPathOptions() PathOptions {
	return PathOptions{
		Options:        DefaultOptions(),
		LambdaMinRatio: DefaultLambdaMinRatio,
		NLambda:        DefaultNLambda,
		Alpha:          DefaultAlpha,
	}
}

// PathResult is a Result together with the realized λ path.
type PathResult struct {
	*Result
	Lambdas []float64
}

// FitPath fits the additive model over an internally generated λ path.
// y must be centered and every slab of x column-centered.
//
// Errors:
//   - ErrNilInput, ErrDimensionMismatch, ErrBadAlpha, ErrBadActiveSet.
//   - matrix.ErrNonPositive (wrapped) for ak entries <= 0.
//   - lambda.ErrBadRatio / ErrBadNLambda / ErrBadMaxLambda (wrapped).
func FitPath(y []float64, x *matrix.Tensor, ak []float64, opts PathOptions) (*PathResult, error) {
	if len(y) == 0 || x == nil {
		return nil, ErrNilInput
	}
	n, J, p := x.Dims()
	if err := matrix.ValidateVecLen(y, n); err != nil {
		return nil, fmt.Errorf("%w: y: %w", ErrDimensionMismatch, err)
	}
	if len(ak) != J {
		return nil, ErrDimensionMismatch
	}
	if err := matrix.ValidatePositive(ak); err != nil {
		return nil, fmt.Errorf("additive: ak: %w", err)
	}
	opts = opts.normalize()
	if opts.Alpha <= 0 || opts.Alpha > 1 {
		return nil, ErrBadAlpha
	}
	blocks, err := activeBlocks(opts.ActiveSet, p)
	if err != nil {
		return nil, err
	}
	st, err := initialState(x, opts.BetaInit, opts.XBetaInit, opts.BetaIsZero)
	if err != nil {
		return nil, err
	}

	mixed := mixWeights(ak, opts.Alpha)
	maxLam := opts.MaxLambda
	if maxLam == 0 {
		if maxLam, err = maxLambda(y, x, st.xbeta, mixed, blocks); err != nil {
			return nil, err
		}
	}
	lambdas, err := lambda.Sequence(maxLam, opts.LambdaMinRatio, opts.NLambda)
	if err != nil {
		return nil, fmt.Errorf("additive: %w", err)
	}
	w, err := lambda.Weights(mixed, lambdas)
	if err != nil {
		return nil, fmt.Errorf("additive: %w", err)
	}

	e := &engine{y: y, x: x, n: n, J: J, p: p, blocks: blocks, opts: opts.Options}
	res, err := e.run(w, st)
	if err != nil {
		return nil, err
	}

	return &PathResult{Result: res, Lambdas: lambdas}, nil
}

// normalize fills zero-valued fields with defaults.
func (o PathOptions) normalize() PathOptions {
	o.Options = o.Options.normalize()
	if o.LambdaMinRatio == 0 {
		o.LambdaMinRatio = DefaultLambdaMinRatio
	}
	if o.NLambda == 0 {
		o.NLambda = DefaultNLambda
	}
	if o.Alpha == 0 {
		o.Alpha = DefaultAlpha
	}

	return o
}

// activeBlocks validates set against p blocks; nil means every block.
func activeBlocks(set []int, p int) ([]int, error) {
	if set == nil {
		return allBlocks(p), nil
	}
	seen := make([]bool, p)
	out := make([]int, 0, len(set))
	for _, j := range set {
		if j < 0 || j >= p || seen[j] {
			return nil, fmt.Errorf("additive: block %d: %w", j, ErrBadActiveSet)
		}
		seen[j] = true
		out = append(out, j)
	}

	return out, nil
}

// mixWeights returns α·ak + (1−α)·e₀.
func mixWeights(ak []float64, alpha float64) []float64 {
	out := make([]float64, len(ak))
	for k, a := range ak {
		out[k] = alpha * a
	}
	out[0] += 1 - alpha

	return out
}

// maxLambda returns max over visited blocks of max_k |v_j[k]|/a[k], with
// v_j = X_jᵀr/n and r = y − Σ_{k not visited} xbeta[:, k]: the smallest λ at
// which every visited block is zero given the fixed contributions of the
// others. A negligible r-projection yields lambda.ErrBadMaxLambda.
func maxLambda(y []float64, x *matrix.Tensor, xbeta *mat.Dense, a []float64, blocks []int) (float64, error) {
	n, J, p := x.Dims()
	visited := make([]bool, p)
	for _, j := range blocks {
		visited[j] = true
	}
	r := make([]float64, n)
	copy(r, y)
	col := make([]float64, n)
	for k := 0; k < p; k++ {
		if !visited[k] {
			mat.Col(col, k, xbeta)
			floats.Sub(r, col)
		}
	}

	rv := mat.NewVecDense(n, r)
	v := mat.NewVecDense(J, nil)
	best, peak := 0.0, 0.0
	for _, j := range blocks {
		v.MulVec(x.Slab(j).T(), rv)
		v.ScaleVec(1/float64(n), v)
		vj := v.RawVector().Data
		m, err := lambda.Max(vj, a)
		if err != nil {
			return 0, fmt.Errorf("additive: %w", err)
		}
		best = max(best, m)
		peak = max(peak, floats.Norm(vj, math.Inf(1)))
	}
	if lambda.Negligible(peak, y) {
		return 0, fmt.Errorf("additive: response orthogonal to the active blocks: %w", lambda.ErrBadMaxLambda)
	}

	return best, nil
}
