package prox_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/hierbasis/prox"
)

// benchmarkPath runs Path on a p-vector with nlam weight columns.
func benchmarkPath(b *testing.B, p, nlam int, opts ...prox.Option) {
	rng := rand.New(rand.NewSource(1))
	v := randVec(rng, p, 1)
	ak := randWeights(rng, p, 1)
	lambdas := make([]float64, nlam)
	for i := range lambdas {
		lambdas[i] = 1 / float64(i+1)
	}
	w := weightPath(ak, lambdas)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := prox.Path(v, w, opts...); err != nil {
			b.Fatalf("Path failed: %v", err)
		}
	}
}

func BenchmarkPath_P10_L50(b *testing.B)            { benchmarkPath(b, 10, 50) }
func BenchmarkPath_P100_L100(b *testing.B)          { benchmarkPath(b, 100, 100) }
func BenchmarkPath_P100_L100_Workers4(b *testing.B) { benchmarkPath(b, 100, 100, prox.WithWorkers(4)) }
