package additive_test

import (
	"bytes"
	"log/slog"
	"math"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/katalvlaran/hierbasis/additive"
	"github.com/katalvlaran/hierbasis/basis"
	"github.com/katalvlaran/hierbasis/matrix"
	"github.com/katalvlaran/hierbasis/prox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// orthogonalDesign returns a two-slab 8×3×2 tensor cut from the Sylvester
// Hadamard matrix H8 (columns 1..6). All six columns are centered and
// mutually orthogonal, so each block's fit is a single prox of X_jᵀy/n.
func orthogonalDesign() *matrix.Tensor {
	slabs := []*mat.Dense{mat.NewDense(8, 3, nil), mat.NewDense(8, 3, nil)}
	for i := 0; i < 8; i++ {
		for c := 1; c <= 6; c++ {
			v := 1.0
			if bits.OnesCount(uint(i&c))%2 == 1 {
				v = -1
			}
			slabs[(c-1)/3].Set(i, (c-1)%3, v)
		}
	}
	x, err := matrix.NewTensorFromSlabs(slabs[0], slabs[1])
	if err != nil {
		panic(err)
	}

	return x
}

// response returns Σ_j X_j·beta[j].
func response(x *matrix.Tensor, beta ...[]float64) []float64 {
	n, J, _ := x.Dims()
	y := mat.NewVecDense(n, nil)
	var fit mat.VecDense
	for j, b := range beta {
		fit.MulVec(x.Slab(j), mat.NewVecDense(J, b))
		y.AddVec(y, &fit)
	}

	return y.RawVector().Data
}

// randomDesign returns a centered, slab-orthonormal polynomial tensor over p
// uniform predictors and a response with signal in the first two of them.
func randomDesign(t testing.TB, seed int64, n, J, p int) (*matrix.Tensor, []float64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	xs := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xs.Set(i, j, 2*rng.Float64()-1)
		}
	}
	x, _, err := basis.Tensor(xs, J)
	require.NoError(t, err)
	// Orthonormalize each slab (X_jᵀX_j = n·I) so a block update is its exact
	// minimizer and the sweeps converge at the rate of the cross-correlations.
	for j := 0; j < p; j++ {
		var qr mat.QR
		qr.Factorize(x.Slab(j))
		var q mat.Dense
		qr.QTo(&q)
		slab := x.Slab(j)
		slab.Scale(math.Sqrt(float64(n)), q.Slice(0, n, 0, J))
	}

	y := make([]float64, n)
	for i := range y {
		x0, x1 := xs.At(i, 0), xs.At(i, 1)
		y[i] = x0*x0 - 0.5*x1 + 0.1*rng.NormFloat64()
	}
	y, _, err = matrix.CenterVec(y)
	require.NoError(t, err)

	return x, y
}

// sharedWeights returns the J×len(lambdas) matrix n·λ_i (unit increments),
// which Fit rescales to λ_i on the prox scale.
func sharedWeights(n, J int, lambdas ...float64) *mat.Dense {
	w := mat.NewDense(J, len(lambdas), nil)
	for k := 0; k < J; k++ {
		for i, l := range lambdas {
			w.Set(k, i, float64(n)*l)
		}
	}

	return w
}

func TestFit_OrthogonalBlocks(t *testing.T) {
	x := orthogonalDesign()
	y := response(x, []float64{2, 0.1, 0.05}, []float64{0.5, 0, 0})

	res, err := additive.Fit(additive.Input{Y: y, X: x, Weights: sharedWeights(8, 3, 2.5, 0)}, additive.DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Converged())

	// λ = 2.5 exceeds every |v_j[k]|: everything is zero.
	assert.Equal(t, 0, res.Beta.ColNNZ(0))

	// λ = 0: the prox is the identity and the projections are exact.
	assert.InDeltaSlice(t, []float64{2, 0.1, 0.05}, res.Block(1, 0), 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 0, 0}, res.Block(1, 1), 1e-12)
	assert.LessOrEqual(t, res.Iterations[1], 2)
}

func TestFit_WarmStartIsFixedPoint(t *testing.T) {
	x := orthogonalDesign()
	y := response(x, []float64{1, -0.4, 0.2}, []float64{-0.7, 0.3, 0})
	w := sharedWeights(8, 3, 0.1)

	first, err := additive.Fit(additive.Input{Y: y, X: x, Weights: w}, additive.DefaultOptions())
	require.NoError(t, err)

	again, err := additive.Fit(additive.Input{
		Y: y, X: x, Weights: w,
		Beta: first.FinalBeta, XBeta: first.FinalXBeta,
	}, additive.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, again.Iterations[0])
	assert.Equal(t, additive.Converged, again.Status[0])
	assert.InDeltaSlice(t, first.Beta.Col(0), again.Beta.Col(0), 1e-12)

	// Without XBeta the contributions are rebuilt from Beta.
	rebuilt, err := additive.Fit(additive.Input{Y: y, X: x, Weights: w, Beta: first.FinalBeta}, additive.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, rebuilt.Iterations[0])
	assert.InDeltaSlice(t, again.Beta.Col(0), rebuilt.Beta.Col(0), 1e-12)
}

func TestFit_ShortResponseWrapsMatrixSentinel(t *testing.T) {
	x := orthogonalDesign()
	_, err := additive.Fit(additive.Input{Y: make([]float64, 7), X: x, Weights: sharedWeights(8, 3, 1)}, additive.DefaultOptions())
	assert.ErrorIs(t, err, additive.ErrDimensionMismatch)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestFit_CriteriaOrdering(t *testing.T) {
	x, y := randomDesign(t, 3, 120, 4, 5)
	w := sharedWeights(120, 4, 0.01)

	opts := additive.DefaultOptions()
	opts.Tol = 1e-8
	opts.MaxIter = 1000
	loose, err := additive.Fit(additive.Input{Y: y, X: x, Weights: w}, opts)
	require.NoError(t, err)

	opts.Criterion = additive.Strict
	strict, err := additive.Fit(additive.Input{Y: y, X: x, Weights: w}, opts)
	require.NoError(t, err)

	require.True(t, loose.Converged())
	require.True(t, strict.Converged())
	// |‖a‖−‖b‖| <= ‖a−b‖, so the norm-difference test never stops later.
	assert.LessOrEqual(t, loose.Iterations[0], strict.Iterations[0])
	assert.InDeltaSlice(t, strict.Beta.Col(0), loose.Beta.Col(0), 1e-4)
}

func TestFit_IterationCap(t *testing.T) {
	x, y := randomDesign(t, 5, 80, 3, 3)
	var buf bytes.Buffer

	opts := additive.DefaultOptions()
	opts.MaxIter = 1
	opts.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	res, err := additive.Fit(additive.Input{Y: y, X: x, Weights: mat.NewDense(3, 1, nil)}, opts)
	require.NoError(t, err)

	assert.False(t, res.Converged())
	assert.Equal(t, additive.IterationCapReached, res.Status[0])
	assert.Equal(t, "iteration cap reached", res.Status[0].String())
	assert.Equal(t, 1, res.Iterations[0])
	assert.NotZero(t, res.Beta.ColNNZ(0), "best-effort coefficients are kept")
	assert.Contains(t, buf.String(), "did not converge")
	assert.Contains(t, buf.String(), "component=additive")
	assert.Contains(t, buf.String(), "lambda_index=0")
}

func TestFit_WorkersMatchIndependentRuns(t *testing.T) {
	x, y := randomDesign(t, 7, 100, 3, 4)
	lambdas := []float64{0.2, 0.05, 0.01, 0.002}

	opts := additive.DefaultOptions()
	opts.Workers = 3
	par, err := additive.Fit(additive.Input{Y: y, X: x, Weights: sharedWeights(100, 3, lambdas...)}, opts)
	require.NoError(t, err)

	for i, l := range lambdas {
		one, err := additive.Fit(additive.Input{Y: y, X: x, Weights: sharedWeights(100, 3, l)}, additive.DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, one.Beta.Col(0), par.Beta.Col(i), "λ index %d", i)
		assert.Equal(t, one.Iterations[0], par.Iterations[i])
	}

	final := mat.NewDense(3, 4, nil)
	for j := 0; j < 4; j++ {
		final.SetCol(j, par.Block(len(lambdas)-1, j))
	}
	assert.True(t, mat.Equal(final, par.FinalBeta))
}

func TestFit_StackedWeights(t *testing.T) {
	x := orthogonalDesign()
	y := response(x, []float64{1, 0.5, 0}, []float64{1, 0.5, 0})

	// Block 0 unpenalized, block 1 penalized out of the model.
	w := mat.NewDense(6, 1, []float64{0, 0, 0, 80, 80, 80})
	res, err := additive.Fit(additive.Input{Y: y, X: x, Weights: w}, additive.DefaultOptions())
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{1, 0.5, 0}, res.Block(0, 0), 1e-12)
	assert.Equal(t, []float64{0, 0, 0}, res.Block(0, 1))
}

func TestFit_BadInput(t *testing.T) {
	x := orthogonalDesign()
	y := make([]float64, 8)
	w := sharedWeights(8, 3, 1)

	cases := []struct {
		name string
		in   additive.Input
		want error
	}{
		{"nil y", additive.Input{X: x, Weights: w}, additive.ErrNilInput},
		{"nil x", additive.Input{Y: y, Weights: w}, additive.ErrNilInput},
		{"nil weights", additive.Input{Y: y, X: x}, additive.ErrNilInput},
		{"short y", additive.Input{Y: y[:5], X: x, Weights: w}, additive.ErrDimensionMismatch},
		{"weight rows", additive.Input{Y: y, X: x, Weights: mat.NewDense(4, 1, nil)}, additive.ErrDimensionMismatch},
		{"beta shape", additive.Input{Y: y, X: x, Weights: w, Beta: mat.NewDense(2, 2, nil)}, additive.ErrDimensionMismatch},
		{"xbeta shape", additive.Input{Y: y, X: x, Weights: w, Beta: mat.NewDense(3, 2, nil), XBeta: mat.NewDense(3, 2, nil)}, additive.ErrDimensionMismatch},
		{"negative weight", additive.Input{Y: y, X: x, Weights: mat.NewDense(3, 1, []float64{1, -1, 1})}, prox.ErrNegativeWeight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := additive.Fit(tc.in, additive.DefaultOptions())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "converged", additive.Converged.String())
	assert.Equal(t, "unknown", additive.Status(9).String())
}
