// SPDX-License-Identifier: MIT

package dissim

import (
	"fmt"
	"math"

	"github.com/katalvlaran/detan/matrix"
)

// Edge is an undirected weighted edge between vertices U and V.
type Edge struct {
	U, V int
	W    float64
}

// FromEdges returns the shortest-path distance between every pair of the
// n vertices of an undirected graph. Parallel edges keep the lightest
// weight; self-loops are ignored.
//
// Implementation:
//   - Stage 1: validate n ≥ 1, endpoints in [0,n), finite non-negative weights.
//   - Stage 2: seed an n×n matrix with +Inf off the diagonal and the edges.
//   - Stage 3: matrix.FloydWarshall relaxes all pairs in place.
//   - Stage 4: any remaining +Inf means the graph is disconnected.
//
// Errors: ErrEmptyInput, ErrBadEdge, ErrNegativeWeight, ErrNonFinite,
// ErrDisconnected.
// Complexity: O(n³ + |edges|).
func FromEdges(n int, edges []Edge) (*matrix.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("FromEdges: %w", ErrEmptyInput)
	}
	for idx, e := range edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return nil, fmt.Errorf("FromEdges: edge %d (%d,%d): %w", idx, e.U, e.V, ErrBadEdge)
		}
		if err := checkWeight(e.W); err != nil {
			return nil, fmt.Errorf("FromEdges: edge %d: %w", idx, err)
		}
	}

	d, err := matrix.NewDense(n, n, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("FromEdges: %w", err)
	}
	inf := math.Inf(1)
	if err = d.Apply(func(i, j int, _ float64) float64 {
		if i == j {
			return 0
		}
		return inf
	}); err != nil {
		return nil, fmt.Errorf("FromEdges: %w", err)
	}

	var cur float64
	for _, e := range edges {
		if e.U == e.V {
			continue
		}
		if cur, err = d.At(e.U, e.V); err != nil {
			return nil, fmt.Errorf("FromEdges: %w", err)
		}
		if e.W < cur {
			_ = d.Set(e.U, e.V, e.W)
			_ = d.Set(e.V, e.U, e.W)
		}
	}

	if err = matrix.FloydWarshall(d); err != nil {
		return nil, fmt.Errorf("FromEdges: %w", err)
	}
	if !matrix.AllFinite(d) {
		return nil, fmt.Errorf("FromEdges: %w", ErrDisconnected)
	}

	return matrix.DenseOf(d)
}
