package anneal_test

import (
	"testing"

	"github.com/katalvlaran/detan/anneal"
	"github.com/katalvlaran/detan/matrix"
	"github.com/stretchr/testify/require"
)

// demoUpper is the upper triangle of the six-item demo problem: items
// {0,2,4} are close to each other, as are {1,3,5}.
var demoUpper = [][]float64{
	{0.0, 2.1, 0.10, 0.85, 0.2, 0.78},
	{0, 0, 0.92, 0.05, 1.01, 0.01},
	{0, 0, 0, 2.02, 0.15, 0.99},
	{0, 0, 0, 0, 1.30, 0.31},
	{0, 0, 0, 0, 0, 1.05},
	{0, 0, 0, 0, 0, 0},
}

// demoStart is a near-uniform, row-stochastic starting point.
var demoStart = [][]float64{
	{0.51, 0.49},
	{0.49, 0.51},
	{0.52, 0.48},
	{0.47, 0.53},
	{0.505, 0.495},
	{0.495, 0.505},
}

// mustDense builds a Dense from literal rows or panics; test-only shorthand.
func mustDense(rows [][]float64, opts ...matrix.Option) *matrix.Dense {
	m, err := matrix.NewDenseFrom(rows, opts...)
	if err != nil {
		panic(err)
	}

	return m
}

// demoDistances returns D = U + Uᵀ for the demo upper triangle.
func demoDistances(t testing.TB) matrix.Matrix {
	t.Helper()
	u := mustDense(demoUpper)
	ut, err := matrix.Transpose(u)
	require.NoError(t, err)
	d, err := matrix.Add(u, ut)
	require.NoError(t, err)

	return d
}

// uniform returns an n×k matrix with every entry 1/k.
func uniform(n, k int) *matrix.Dense {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, k)
		for j := range rows[i] {
			rows[i][j] = 1 / float64(k)
		}
	}

	return mustDense(rows)
}

// runSchedule drives st for the given number of cooling rounds. Each round
// steps until the max absolute change drops below tol (at most maxInner
// steps), then cools. every, when non-nil, sees each new iterate.
func runSchedule(t testing.TB, st *anneal.State, tol float64, rounds, maxInner int, every func(*matrix.Dense)) {
	t.Helper()
	for r := 0; r < rounds; r++ {
		for s := 0; s < maxInner; s++ {
			prev := st.Assignments()
			next, err := st.Step()
			require.NoError(t, err)
			if every != nil {
				every(next)
			}
			diff, err := matrix.MaxAbsDiff(prev, next)
			require.NoError(t, err)
			if diff < tol {
				break
			}
		}
		st.Cool()
	}
}

// members lists, per group column, the items whose membership exceeds thr.
func members(t testing.TB, y *matrix.Dense, thr float64) [][]int {
	t.Helper()
	out := make([][]int, y.Cols())
	for i := 0; i < y.Rows(); i++ {
		row, err := y.Row(i)
		require.NoError(t, err)
		for j, v := range row {
			if v > thr {
				out[j] = append(out[j], i)
			}
		}
	}

	return out
}
