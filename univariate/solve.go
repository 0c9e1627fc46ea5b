package univariate

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/hierbasis/lambda"
	"github.com/katalvlaran/hierbasis/matrix"
	"github.com/katalvlaran/hierbasis/prox"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Solve computes the hierarchical basis path for a centered n×J design and
// centered response y, with positive penalty increments ak (len J).
//
// Algorithm:
//  1. Economy QR: design = Q·R.
//  2. Q ← Q·√n, R ← R/√n, so QᵀQ = n·I.
//  3. v = Qᵀy/n; max_λ = max(|v|/ak) unless opts.MaxLambda is set.
//  4. λ path: NLambda log-spaced values from max_λ to max_λ·LambdaMinRatio.
//  5. Weight column i = template column i · λ_i.
//  6. β̂ = prox.Path(v, weights).
//  7. Back-transform: solve R·β = β̂ (triangular solve).
//
// Errors:
//   - ErrDimensionMismatch, ErrRankDeficient.
//   - lambda.ErrBadRatio / ErrBadNLambda / ErrBadMaxLambda (wrapped); a response
//     orthogonal to the design (Qᵀy/n negligible, see lambda.Negligible)
//     yields ErrBadMaxLambda.
//   - matrix.ErrNonPositive (wrapped) for ak entries <= 0.
func Solve(design mat.Matrix, y, ak []float64, opts Options) (*Result, error) {
	opts = opts.normalize()
	if err := matrix.ValidateNotNil(design); err != nil {
		return nil, fmt.Errorf("univariate: %w", err)
	}
	n, J := design.Dims()
	if err := matrix.ValidateVecLen(y, n); err != nil {
		return nil, fmt.Errorf("%w: y: %w", ErrDimensionMismatch, err)
	}
	if len(ak) != J {
		return nil, ErrDimensionMismatch
	}
	if err := matrix.ValidatePositive(ak); err != nil {
		return nil, fmt.Errorf("univariate: ak: %w", err)
	}
	if n < J {
		return nil, ErrRankDeficient
	}

	Q, R, err := Orthonormalize(design)
	if err != nil {
		return nil, err
	}

	var v mat.VecDense
	v.MulVec(Q.T(), mat.NewVecDense(n, y))
	v.ScaleVec(1/float64(n), &v)
	vv := v.RawVector().Data

	maxLam := opts.MaxLambda
	if maxLam == 0 {
		if lambda.Negligible(floats.Norm(vv, math.Inf(1)), y) {
			return nil, fmt.Errorf("univariate: response orthogonal to the design: %w", lambda.ErrBadMaxLambda)
		}
		if maxLam, err = lambda.Max(vv, ak); err != nil {
			return nil, fmt.Errorf("univariate: %w", err)
		}
	}
	lambdas, err := lambda.Sequence(maxLam, opts.LambdaMinRatio, opts.NLambda)
	if err != nil {
		return nil, fmt.Errorf("univariate: %w", err)
	}

	weights, err := scaledWeights(ak, lambdas, opts.Weights)
	if err != nil {
		return nil, err
	}

	betaOrtho, err := prox.Path(vv, weights, prox.WithWorkers(opts.Workers))
	if err != nil {
		return nil, fmt.Errorf("univariate: %w", err)
	}

	var beta mat.Dense
	if err = beta.Solve(R, betaOrtho); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("univariate: back-transform: %w", err)
		}
		opts.Logger.Warn("ill-conditioned back-transform",
			slog.Float64("condition", float64(cond)))
	}

	return &Result{
		Beta:      &beta,
		BetaOrtho: betaOrtho,
		Lambdas:   lambdas,
		Q:         Q,
		R:         R,
	}, nil
}

// Orthonormalize returns the rescaled economy factors Q·√n (n×J) and R/√n
// (J×J) of an n×J design, so that design = Q·R and QᵀQ = n·I.
//
// Errors:
//   - ErrRankDeficient when n < J or R has a zero diagonal entry.
func Orthonormalize(design mat.Matrix) (*mat.Dense, *mat.TriDense, error) {
	n, J := design.Dims()
	if n < J {
		return nil, nil, ErrRankDeficient
	}
	var qr mat.QR
	qr.Factorize(design)

	var qFull, rFull mat.Dense
	qr.QTo(&qFull)
	qr.RTo(&rFull)

	sqrtN := math.Sqrt(float64(n))
	Q := mat.DenseCopyOf(qFull.Slice(0, n, 0, J))
	Q.Scale(sqrtN, Q)

	R := mat.NewTriDense(J, mat.Upper, nil)
	R.Copy(rFull.Slice(0, J, 0, J))
	R.ScaleTri(1/sqrtN, R)
	for k := 0; k < J; k++ {
		if R.At(k, k) == 0 {
			return nil, nil, ErrRankDeficient
		}
	}

	return Q, R, nil
}

// scaledWeights returns the J×nlam weight matrix for the path: a scaled
// copy of template when given, otherwise ak·λ_i per column.
func scaledWeights(ak, lambdas []float64, template *mat.Dense) (*mat.Dense, error) {
	if template == nil {
		w, err := lambda.Weights(ak, lambdas)
		if err != nil {
			return nil, fmt.Errorf("univariate: %w", err)
		}
		return w, nil
	}
	if err := matrix.ValidateDims(template, len(ak), len(lambdas)); err != nil {
		return nil, fmt.Errorf("univariate: weight template: %w", ErrDimensionMismatch)
	}
	w := mat.DenseCopyOf(template)
	if err := lambda.ScaleColumns(w, lambdas); err != nil {
		return nil, fmt.Errorf("univariate: %w", err)
	}

	return w, nil
}

// Fitted returns Q·β̂_i, the in-sample prediction on the orthonormal scale
// for path index i. It equals design·Beta[:, i] up to rounding.
func (r *Result) Fitted(i int) []float64 {
	col := r.BetaOrtho.Col(i)
	var out mat.VecDense
	out.MulVec(r.Q, mat.NewVecDense(len(col), col))

	return out.RawVector().Data
}

// Predict returns design·Beta[:, i] for a (centered) design with J columns.
func (r *Result) Predict(design mat.Matrix, i int) ([]float64, error) {
	if err := matrix.ValidateNotNil(design); err != nil {
		return nil, fmt.Errorf("univariate: Predict: %w", err)
	}
	n, J := design.Dims()
	if jb, _ := r.Beta.Dims(); J != jb {
		return nil, ErrDimensionMismatch
	}
	out := mat.NewVecDense(n, nil)
	out.MulVec(design, r.Beta.ColView(i))

	return out.RawVector().Data, nil
}

// ActiveSize returns the number of active basis functions at path index i.
// By the nested structure this is one past the last nonzero coefficient.
func (r *Result) ActiveSize(i int) int {
	col := r.BetaOrtho.Col(i)
	for k := len(col) - 1; k >= 0; k-- {
		if col[k] != 0 {
			return k + 1
		}
	}

	return 0
}
