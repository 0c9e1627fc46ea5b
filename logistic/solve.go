package logistic

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/hierbasis/lambda"
	"github.com/katalvlaran/hierbasis/matrix"
	"github.com/katalvlaran/hierbasis/prox"
	"github.com/katalvlaran/hierbasis/univariate"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Solve computes the logistic hierarchical basis path for a centered n×J
// design, labels y ∈ {0, 1} and positive increments ak (len J).
//
// Errors:
//   - ErrDimensionMismatch, ErrBadResponse.
//   - univariate.ErrRankDeficient (wrapped).
//   - matrix.ErrNonPositive (wrapped) for ak entries <= 0.
//   - lambda.ErrBadRatio / ErrBadNLambda / ErrBadMaxLambda (wrapped); labels
//     whose centered projection Qᵀ(y−ȳ)/n is negligible yield ErrBadMaxLambda.
//
// Non-convergence is reported through Result.Status and a warning.
func Solve(design mat.Matrix, y, ak []float64, opts Options) (*Result, error) {
	opts = opts.normalize()
	if err := matrix.ValidateNotNil(design); err != nil {
		return nil, fmt.Errorf("logistic: %w", err)
	}
	n, J := design.Dims()
	if err := matrix.ValidateVecLen(y, n); err != nil {
		return nil, fmt.Errorf("%w: y: %w", ErrDimensionMismatch, err)
	}
	if len(ak) != J {
		return nil, ErrDimensionMismatch
	}
	if err := matrix.ValidatePositive(ak); err != nil {
		return nil, fmt.Errorf("logistic: ak: %w", err)
	}
	ybar, err := labelMean(y)
	if err != nil {
		return nil, err
	}

	Q, R, err := univariate.Orthonormalize(design)
	if err != nil {
		return nil, fmt.Errorf("logistic: %w", err)
	}

	// v = Qᵀ(y − ȳ)/n is the negative gradient at β = 0, β₀ = logit(ȳ).
	yc := make([]float64, n)
	copy(yc, y)
	floats.AddConst(-ybar, yc)
	var v mat.VecDense
	v.MulVec(Q.T(), mat.NewVecDense(n, yc))
	v.ScaleVec(1/float64(n), &v)

	nullLam, err := lambda.Max(v.RawVector().Data, ak)
	if err != nil {
		return nil, fmt.Errorf("logistic: %w", err)
	}
	maxLam := opts.MaxLambda
	if maxLam == 0 {
		if lambda.Negligible(floats.Norm(v.RawVector().Data, math.Inf(1)), yc) {
			return nil, fmt.Errorf("logistic: labels orthogonal to the design: %w", lambda.ErrBadMaxLambda)
		}
		maxLam = nullLam
	}
	lambdas, err := lambda.Sequence(maxLam, opts.LambdaMinRatio, opts.NLambda)
	if err != nil {
		return nil, fmt.Errorf("logistic: %w", err)
	}
	weights, err := lambda.Weights(ak, lambdas)
	if err != nil {
		return nil, fmt.Errorf("logistic: %w", err)
	}
	weights.Scale(step, weights)

	nlam := len(lambdas)
	betaOrtho, err := matrix.NewSparse(J, nlam)
	if err != nil {
		return nil, fmt.Errorf("logistic: %w", err)
	}
	res := &Result{
		BetaOrtho:  betaOrtho,
		Intercept:  make([]float64, nlam),
		Lambdas:    lambdas,
		Status:     make([]Status, nlam),
		Iterations: make([]int, nlam),
		Q:          Q,
		R:          R,
	}

	s := newSolver(Q, y, opts)
	b0 := math.Log(ybar / (1 - ybar))
	beta := make([]float64, J)
	tw := make([]float64, J)
	for i, l := range lambdas {
		if l >= nullLam {
			// β = 0, β₀ = logit(ȳ) is the exact solution: skip the iterations.
			res.Intercept[i] = b0
			continue
		}
		mat.Col(tw, i, weights)
		var delta float64
		b0, delta, err = s.run(i, b0, beta, tw, res)
		if err != nil {
			return nil, fmt.Errorf("logistic: lambda %d: %w", i, err)
		}
		if res.Status[i] == IterationCapReached {
			opts.Logger.Warn("did not converge",
				slog.Int("lambda_index", i),
				slog.Int("iterations", res.Iterations[i]),
				slog.Float64("change", delta))
		}
		res.Intercept[i] = b0
		if err = betaOrtho.SetCol(i, beta); err != nil {
			return nil, fmt.Errorf("logistic: %w", err)
		}
	}

	var back mat.Dense
	if err = back.Solve(R, betaOrtho); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("logistic: back-transform: %w", err)
		}
		opts.Logger.Warn("ill-conditioned back-transform",
			slog.Float64("condition", float64(cond)))
	}
	res.Beta = &back

	return res, nil
}

// labelMean checks y ∈ {0, 1} with both labels present and returns ȳ.
func labelMean(y []float64) (float64, error) {
	ones := 0
	for _, v := range y {
		switch v {
		case 1:
			ones++
		case 0:
		default:
			return 0, ErrBadResponse
		}
	}
	if ones == 0 || ones == len(y) {
		return 0, ErrBadResponse
	}

	return float64(ones) / float64(len(y)), nil
}

// solver carries the buffers of the proximal gradient iterations.
type solver struct {
	q       *mat.Dense
	y       []float64
	n       int
	tol     float64
	maxIter int

	eta  *mat.VecDense // Qβ
	d    *mat.VecDense // σ(β₀ + Qβ) − y
	grad *mat.VecDense // Qᵀd
	prev []float64
}

func newSolver(q *mat.Dense, y []float64, opts Options) *solver {
	n, J := q.Dims()
	return &solver{
		q: q, y: y, n: n,
		tol:     opts.Tol,
		maxIter: opts.MaxIter,
		eta:     mat.NewVecDense(n, nil),
		d:       mat.NewVecDense(n, nil),
		grad:    mat.NewVecDense(J, nil),
		prev:    make([]float64, J),
	}
}

// run iterates from (b0, beta) with step-scaled weights tw, updating beta in
// place. It records the status and step count of λ index i in res and
// returns the final intercept and the last max-abs change.
func (s *solver) run(i int, b0 float64, beta, tw []float64, res *Result) (float64, float64, error) {
	J := len(beta)
	bv := mat.NewVecDense(J, beta)
	eta, d := s.eta.RawVector().Data, s.d.RawVector().Data
	invN := 1 / float64(s.n)

	var delta float64
	for it := 1; it <= s.maxIter; it++ {
		s.eta.MulVec(s.q, bv)
		for k := range d {
			d[k] = sigmoid(b0+eta[k]) - s.y[k]
		}
		s.grad.MulVec(s.q.T(), s.d)

		copy(s.prev, beta)
		floats.AddScaled(beta, -step*invN, s.grad.RawVector().Data)
		if err := prox.HierarchicalTo(beta, beta, tw); err != nil {
			return b0, 0, err
		}
		db0 := step * floats.Sum(d) * invN
		b0 -= db0

		delta = math.Max(math.Abs(db0), floats.Distance(beta, s.prev, math.Inf(1)))
		if delta < s.tol {
			res.Status[i], res.Iterations[i] = Converged, it
			return b0, delta, nil
		}
	}
	res.Status[i], res.Iterations[i] = IterationCapReached, s.maxIter

	return b0, delta, nil
}

// sigmoid is 1/(1+e^{−x}), evaluated without overflow for large |x|.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)

	return e / (1 + e)
}

// Prob returns σ(β₀ + design·Beta[:, i]) for a design with J columns,
// centered with the training means.
func (r *Result) Prob(design mat.Matrix, i int) ([]float64, error) {
	if err := matrix.ValidateNotNil(design); err != nil {
		return nil, fmt.Errorf("logistic: Prob: %w", err)
	}
	n, J := design.Dims()
	if jb, _ := r.Beta.Dims(); J != jb {
		return nil, ErrDimensionMismatch
	}
	eta := mat.NewVecDense(n, nil)
	eta.MulVec(design, r.Beta.ColView(i))
	out := eta.RawVector().Data
	for k := range out {
		out[k] = sigmoid(r.Intercept[i] + out[k])
	}

	return out, nil
}

// Converged reports whether every λ converged.
func (r *Result) Converged() bool {
	for _, s := range r.Status {
		if s != Converged {
			return false
		}
	}

	return true
}
