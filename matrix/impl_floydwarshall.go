// SPDX-License-Identifier: MIT

// Package matrix - Floyd–Warshall all-pairs shortest paths.
//
// Purpose:
//   - Turn a sparse "direct edge" cost table into a full shortest-path
//     dissimilarity, the graph route into a distance matrix for annealing.
//
// Contract:
//   - Input is square; +Inf means "no direct edge"; the diagonal is forced to 0.
//   - The kernel relaxes in place with a strict "<" tie rule (deterministic).
//   - Unreachable pairs remain +Inf; callers decide whether that is an error.
//
// Complexity:
//   - Time O(n^3), Space O(1) extra.

package matrix

import "math"

const opFloydWarshall = "FloydWarshall"

// floydWarshallInPlace runs the triple loop directly over the flat buffer.
// Upstream guarantees a square shape.
func floydWarshallInPlace(d *Dense) {
	n := d.r
	var (
		k, i, j      int
		baseK, baseI int
		ik, ij, kj   float64
		cand         float64
	)
	data := d.data

	for k = 0; k < n; k++ { // outer: pick intermediate vertex k
		baseK = k * n
		for i = 0; i < n; i++ { // middle: source vertex i
			ik = data[i*n+k]
			if math.IsInf(ik, 1) {
				continue // no path via k can improve i→j
			}
			baseI = i * n
			for j = 0; j < n; j++ { // inner: destination vertex j
				kj = data[baseK+j]
				if math.IsInf(kj, 1) {
					continue
				}
				ij = data[baseI+j]
				cand = ik + kj
				if cand < ij {
					data[baseI+j] = cand
				}
			}
		}
	}
}

// FloydWarshall computes all-pairs shortest paths in place.
// Implementation:
//   - Stage 1: validate square shape; reject NaN and -Inf entries.
//   - Stage 2: force a zero diagonal.
//   - Stage 3: relax through every intermediate vertex.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf (NaN or -Inf present),
//     ErrNegativeEntry (negative finite weight).
//
// Notes:
//   - *Dense inputs holding +Inf must be allocated with WithNoValidateNaNInf.
//   - Non-Dense inputs are relaxed on a Dense copy and written back via Set.
func FloydWarshall(m Matrix) error {
	if err := ValidateSquare(m); err != nil {
		return matrixErrorf(opFloydWarshall, err)
	}

	d, isDense := m.(*Dense)
	if !isDense {
		var err error
		if d, err = DenseOf(m, WithNoValidateNaNInf()); err != nil {
			return matrixErrorf(opFloydWarshall, err)
		}
	}

	n := d.r
	for idx, v := range d.data {
		if math.IsNaN(v) || math.IsInf(v, -1) {
			return matrixErrorf(opFloydWarshall, denseErrorf(ctxAt, idx/n, idx%n, ErrNaNInf))
		}
		if v < 0 {
			return matrixErrorf(opFloydWarshall, denseErrorf(ctxAt, idx/n, idx%n, ErrNegativeEntry))
		}
	}
	var i int
	for i = 0; i < n; i++ {
		d.data[i*n+i] = 0
	}

	floydWarshallInPlace(d)

	if isDense {
		return nil
	}
	var j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if err := m.Set(i, j, d.data[i*n+j]); err != nil {
				return matrixErrorf(opFloydWarshall, err)
			}
		}
	}

	return nil
}
