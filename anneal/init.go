// SPDX-License-Identifier: MIT

package anneal

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/detan/matrix"
)

// defaultSeed backs RandomAssignments when rng is nil.
const defaultSeed int64 = 1

// SeededRand returns a deterministic *rand.Rand. seed 0 maps to a fixed
// default so that the zero value is reproducible too.
func SeededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// RandomAssignments builds an n×k near-uniform starting point:
// each entry is 1/k + jitter·(u − ½) with u ~ U[0,1), and each row is then
// normalised to sum to 1. A symmetric (exactly uniform) start is a fixed
// point of the update for any distances, so a small positive jitter is what
// lets annealing break the tie.
//
// Errors: ErrShape for n < 1 or k < 2; ErrRange unless 0 ≤ jitter < 2/k.
// rng == nil uses SeededRand(0). rng is advanced n·k times.
func RandomAssignments(n, k int, jitter float64, rng *rand.Rand) (*matrix.Dense, error) {
	if n < 1 || k < 2 {
		return nil, fmt.Errorf("RandomAssignments: %w: %dx%d", ErrShape, n, k)
	}
	base := 1 / float64(k)
	if !(jitter >= 0 && jitter < 2*base) {
		return nil, fmt.Errorf("RandomAssignments: jitter %g: %w", jitter, ErrRange)
	}
	if rng == nil {
		rng = SeededRand(0)
	}

	raw, err := matrix.NewDense(n, k)
	if err != nil {
		return nil, fmt.Errorf("RandomAssignments: %w", err)
	}
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < k; j++ {
			if err = raw.Set(i, j, base+jitter*(rng.Float64()-0.5)); err != nil {
				return nil, fmt.Errorf("RandomAssignments: %w", err)
			}
		}
	}

	// Entries stay above base−jitter/2 > 0, so every row sum is positive.
	sums, err := matrix.RowSums(raw)
	if err != nil {
		return nil, fmt.Errorf("RandomAssignments: %w", err)
	}
	for i = range sums {
		sums[i] = 1 / sums[i]
	}
	out, err := matrix.ScaleRows(raw, sums)
	if err != nil {
		return nil, fmt.Errorf("RandomAssignments: %w", err)
	}

	return out, nil
}
