package logistic_test

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/hierbasis/basis"
	"github.com/katalvlaran/hierbasis/logistic"
)

// ExampleSolve fits labels drawn from σ(3x) with a cubic basis. The first λ
// keeps only the intercept; the last one recovers an increasing curve.
func ExampleSolve() {
	rng := rand.New(rand.NewSource(5))
	x := make([]float64, 300)
	y := make([]float64, 300)
	for i := range x {
		x[i] = 2*rng.Float64() - 1
		if rng.Float64() < 1/(1+math.Exp(-3*x[i])) {
			y[i] = 1
		}
	}
	X, means, _ := basis.Polynomial(x, 3)
	ak, _ := basis.Weights(3, 1)

	opts := logistic.DefaultOptions()
	opts.NLambda = 10
	res, err := logistic.Solve(X, y, ak, opts)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	grid, _ := basis.Evaluate([]float64{-0.9, 0.9}, means)
	p, _ := res.Prob(grid, len(res.Lambdas)-1)

	fmt.Println("empty at λ_0:", res.BetaOrtho.ColNNZ(0) == 0)
	fmt.Println("increasing:", p[1] > p[0])
	fmt.Println("converged:", res.Converged())
	// Output:
	// empty at λ_0: true
	// increasing: true
	// converged: true
}
