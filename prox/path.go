package prox

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/hierbasis/matrix"
	"gonum.org/v1/gonum/mat"
)

// Path evaluates Hierarchical(y, W[:, i]) for every column i of weights and
// returns the p×nlam results as a sparse matrix (column i ↔ λ_i).
//
// Columns are independent: with WithWorkers(k) they are distributed over k
// goroutines that read y and weights and write disjoint result columns.
//
// Errors:
//   - ErrEmptyInput, ErrNilWeights.
//   - ErrDimensionMismatch when weights does not have len(y) rows.
//   - ErrNegativeWeight, wrapped with the offending column index.
func Path(y []float64, weights mat.Matrix, opts ...Option) (*matrix.Sparse, error) {
	if len(y) == 0 {
		return nil, ErrEmptyInput
	}
	if weights == nil {
		return nil, ErrNilWeights
	}
	p, nlam := weights.Dims()
	if p != len(y) {
		return nil, ErrDimensionMismatch
	}
	o := gatherOptions(opts...)

	out, err := matrix.NewSparse(p, nlam)
	if err != nil {
		return nil, fmt.Errorf("prox: Path: %w", err)
	}

	workers := min(o.workers, nlam)
	if workers <= 1 {
		w := make([]float64, p)
		beta := make([]float64, p)
		for i := 0; i < nlam; i++ {
			if err = solveColumn(out, y, weights, i, w, beta); err != nil {
				return nil, err
			}
		}

		return out, nil
	}

	var (
		wg    sync.WaitGroup
		next  = make(chan int)
		errMu sync.Mutex
		first error
	)
	for k := 0; k < workers; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := make([]float64, p)
			beta := make([]float64, p)
			for i := range next {
				if e := solveColumn(out, y, weights, i, w, beta); e != nil {
					errMu.Lock()
					if first == nil {
						first = e
					}
					errMu.Unlock()
				}
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

	return out, nil
}

// solveColumn computes column i of the path using caller-owned scratch buffers.
func solveColumn(out *matrix.Sparse, y []float64, weights mat.Matrix, i int, w, beta []float64) error {
	mat.Col(w, i, weights)
	if err := HierarchicalTo(beta, y, w); err != nil {
		return fmt.Errorf("prox: Path column %d: %w", i, err)
	}

	return out.SetCol(i, beta)
}
