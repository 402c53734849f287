package anneal_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/detan/anneal"
	"github.com/katalvlaran/detan/matrix"
)

// randomDistances builds a symmetric zero-diagonal n×n matrix from seed.
func randomDistances(b *testing.B, n int, seed int64) *matrix.Dense {
	rng := rand.New(rand.NewSource(seed))
	d, err := matrix.NewDense(n, n)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := rng.Float64()
			_ = d.Set(i, j, v)
			_ = d.Set(j, i, v)
		}
	}

	return d
}

func benchUpdate(b *testing.B, pot anneal.Potential) {
	const n, k = 256, 8
	r, err := anneal.NewRule(randomDistances(b, n, 1), anneal.WithPotential(pot))
	if err != nil {
		b.Fatal(err)
	}
	y, err := anneal.RandomAssignments(n, k, 0.05, anneal.SeededRand(2))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = r.Update(y, 0.5); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRuleUpdate_Mean measures one mean-potential update, N=256, k=8.
func BenchmarkRuleUpdate_Mean(b *testing.B) { benchUpdate(b, anneal.MeanPotential) }

// BenchmarkRuleUpdate_Exact measures one exact-potential update, N=256, k=8.
func BenchmarkRuleUpdate_Exact(b *testing.B) { benchUpdate(b, anneal.ExactPotential) }

// BenchmarkStateCool measures the checkpoint copy taken by Cool.
func BenchmarkStateCool(b *testing.B) {
	const n = 256
	y, err := anneal.RandomAssignments(n, 8, 0.05, nil)
	if err != nil {
		b.Fatal(err)
	}
	st, err := anneal.New(anneal.UpdateFunc(func(y matrix.Matrix, _ float64) (*matrix.Dense, error) {
		return matrix.DenseOf(y)
	}), y, 0.999)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		st.Cool()
	}
}
