package additive

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/katalvlaran/hierbasis/matrix"
	"github.com/katalvlaran/hierbasis/prox"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Fit runs block coordinate descent for every λ column of in.Weights.
// Weights are divided by n, matching a penalty on the ½n⁻¹ least-squares scale.
//
// Errors:
//   - ErrNilInput, ErrDimensionMismatch.
//   - prox.ErrNegativeWeight (wrapped) for a negative weight.
//
// Non-convergence is reported through Result.Status, never as an error.
func Fit(in Input, opts Options) (*Result, error) {
	if len(in.Y) == 0 || in.X == nil || in.Weights == nil {
		return nil, ErrNilInput
	}
	n, J, p := in.X.Dims()
	if err := matrix.ValidateVecLen(in.Y, n); err != nil {
		return nil, fmt.Errorf("%w: y: %w", ErrDimensionMismatch, err)
	}
	rows, _ := in.Weights.Dims()
	if rows != J && rows != p*J {
		return nil, ErrDimensionMismatch
	}
	st, err := initialState(in.X, in.Beta, in.XBeta, false)
	if err != nil {
		return nil, err
	}
	w := mat.DenseCopyOf(in.Weights)
	w.Scale(1/float64(n), w)

	e := &engine{y: in.Y, x: in.X, n: n, J: J, p: p, blocks: allBlocks(p), opts: opts.normalize()}

	return e.run(w, st)
}

// allBlocks returns 0..p−1.
func allBlocks(p int) []int {
	out := make([]int, p)
	for j := range out {
		out[j] = j
	}

	return out
}

// state is the mutable iterate owned by one λ sequence.
type state struct {
	beta  *mat.Dense // J×p
	xbeta *mat.Dense // n×p, column j = X_j·β_j
}

func (s *state) clone() *state {
	return &state{beta: mat.DenseCopyOf(s.beta), xbeta: mat.DenseCopyOf(s.xbeta)}
}

// initialState copies the warm start, or builds a zero one when zero is set
// or no coefficients are given. A missing XBeta is recomputed from Beta.
func initialState(x *matrix.Tensor, beta0, xbeta0 *mat.Dense, zero bool) (*state, error) {
	n, J, p := x.Dims()
	st := &state{beta: mat.NewDense(J, p, nil), xbeta: mat.NewDense(n, p, nil)}
	if zero || beta0 == nil {
		return st, nil
	}
	if err := matrix.ValidateDims(beta0, J, p); err != nil {
		return nil, fmt.Errorf("additive: warm-start beta: %w", ErrDimensionMismatch)
	}
	st.beta.Copy(beta0)
	if xbeta0 != nil {
		if err := matrix.ValidateDims(xbeta0, n, p); err != nil {
			return nil, fmt.Errorf("additive: warm-start x_beta: %w", ErrDimensionMismatch)
		}
		st.xbeta.Copy(xbeta0)
		return st, nil
	}
	var col mat.VecDense
	for j := 0; j < p; j++ {
		col.MulVec(x.Slab(j), st.beta.ColView(j))
		st.xbeta.SetCol(j, col.RawVector().Data)
	}

	return st, nil
}

// engine holds the read-only problem data shared by every λ.
type engine struct {
	y       []float64
	x       *matrix.Tensor
	n, J, p int
	blocks  []int // visited blocks, in sweep order
	opts    Options
}

// scratch holds per-goroutine work buffers.
type scratch struct {
	resid []float64 // y − Σ_k X_kβ_k
	r     []float64 // partial residual of the current block
	v     []float64 // X_jᵀ r / n
	bj    []float64 // updated β_j
	fit   []float64 // X_j β_j
	wcol  []float64 // current λ column of the weights
	old   *mat.Dense
	diff  *mat.Dense
}

func (e *engine) newScratch(rows int) *scratch {
	return &scratch{
		resid: make([]float64, e.n),
		r:     make([]float64, e.n),
		v:     make([]float64, e.J),
		bj:    make([]float64, e.J),
		fit:   make([]float64, e.n),
		wcol:  make([]float64, rows),
		old:   mat.NewDense(e.J, e.p, nil),
		diff:  mat.NewDense(e.J, e.p, nil),
	}
}

// run solves every λ column of w (already on the v = X_jᵀr/n scale).
func (e *engine) run(w *mat.Dense, st *state) (*Result, error) {
	rows, nlam := w.Dims()
	out, err := matrix.NewSparse(e.p*e.J, nlam)
	if err != nil {
		return nil, fmt.Errorf("additive: %w", err)
	}
	res := &Result{
		Beta:       out,
		Status:     make([]Status, nlam),
		Iterations: make([]int, nlam),
		Change:     make([]float64, nlam),
	}

	if e.opts.Workers <= 1 || nlam == 1 {
		sc := e.newScratch(rows)
		for i := 0; i < nlam; i++ {
			if err = e.solveLambda(i, w, st, sc, res); err != nil {
				return nil, err
			}
		}
		res.FinalBeta, res.FinalXBeta = st.beta, st.xbeta

		return res, nil
	}

	var (
		wg     sync.WaitGroup
		next   = make(chan int)
		mu     sync.Mutex
		first  error
		finals = make([]*state, nlam)
	)
	for k := 0; k < min(e.opts.Workers, nlam); k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sc := e.newScratch(rows)
			for i := range next {
				local := st.clone()
				if err := e.solveLambda(i, w, local, sc, res); err != nil {
					mu.Lock()
					if first == nil {
						first = err
					}
					mu.Unlock()
					continue
				}
				finals[i] = local
			}
		}()
	}
	for i := 0; i < nlam; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
	if first != nil {
		return nil, first
	}
	last := finals[nlam-1]
	res.FinalBeta, res.FinalXBeta = last.beta, last.xbeta

	return res, nil
}

// solveLambda iterates sweeps for λ column i until convergence or the cap,
// then stores the vectorized β into column i of res.Beta.
func (e *engine) solveLambda(i int, w *mat.Dense, st *state, sc *scratch, res *Result) error {
	mat.Col(sc.wcol, i, w)

	// resid = y − Σ_k X_kβ_k, tracked incrementally through the sweeps.
	e.resetResidual(st, sc)

	var (
		change float64
		sweeps int
		status = IterationCapReached
	)
	for sweeps < e.opts.MaxIter {
		sc.old.Copy(st.beta)
		if err := e.sweep(st, sc); err != nil {
			return fmt.Errorf("additive: lambda %d: %w", i, err)
		}
		sweeps++
		change = e.change(st.beta, sc)
		if change < e.opts.Tol {
			status = Converged
			break
		}
	}
	if status == IterationCapReached {
		e.opts.Logger.Warn("did not converge",
			slog.Int("lambda_index", i),
			slog.Int("iterations", sweeps),
			slog.Float64("change", change))
	}

	res.Status[i] = status
	res.Iterations[i] = sweeps
	res.Change[i] = change

	return res.Beta.SetCol(i, vectorize(st.beta))
}

// resetResidual recomputes resid = y − Σ_k xbeta[:, k] from scratch.
func (e *engine) resetResidual(st *state, sc *scratch) {
	copy(sc.resid, e.y)
	for i := 0; i < e.n; i++ {
		sc.resid[i] -= floats.Sum(st.xbeta.RawRowView(i))
	}
}

// sweep performs one Gauss–Seidel pass over the visited blocks.
func (e *engine) sweep(st *state, sc *scratch) error {
	invN := 1 / float64(e.n)
	for _, j := range e.blocks {
		slab := e.x.Slab(j)

		// r_j = resid + X_jβ_j, read from xbeta (kept equal to X_jβ_j)
		mat.Col(sc.fit, j, st.xbeta)
		floats.AddTo(sc.r, sc.resid, sc.fit)

		// v_j = X_jᵀ r_j / n
		vj := mat.NewVecDense(e.J, sc.v)
		vj.MulVec(slab.T(), mat.NewVecDense(e.n, sc.r))
		floats.Scale(invN, sc.v)

		if err := prox.HierarchicalTo(sc.bj, sc.v, e.blockWeights(sc.wcol, j)); err != nil {
			return err
		}
		st.beta.SetCol(j, sc.bj)

		fit := mat.NewVecDense(e.n, sc.fit)
		fit.MulVec(slab, mat.NewVecDense(e.J, sc.bj))
		st.xbeta.SetCol(j, sc.fit)

		// resid = r_j − X_jβ_j(new)
		floats.SubTo(sc.resid, sc.r, sc.fit)
	}

	return nil
}

// blockWeights returns the weights of block j from a λ column that is
// either shared (length J) or stacked per block (length p·J).
func (e *engine) blockWeights(wcol []float64, j int) []float64 {
	if len(wcol) == e.J {
		return wcol
	}

	return wcol[j*e.J : (j+1)*e.J]
}

// change evaluates the configured convergence statistic against sc.old.
func (e *engine) change(beta *mat.Dense, sc *scratch) float64 {
	if e.opts.Criterion == Strict {
		sc.diff.Sub(beta, sc.old)
		return mat.Norm(sc.diff, 2)
	}
	d := mat.Norm(beta, 2) - mat.Norm(sc.old, 2)
	if d < 0 {
		return -d
	}

	return d
}

// vectorize stacks the columns of a J×p matrix into a length p·J vector.
func vectorize(b *mat.Dense) []float64 {
	J, p := b.Dims()
	out := make([]float64, J*p)
	for j := 0; j < p; j++ {
		mat.Col(out[j*J:(j+1)*J], j, b)
	}

	return out
}
