// SPDX-License-Identifier: MIT

package dissim

import (
	"fmt"

	"github.com/katalvlaran/detan/matrix"
)

// FromUpperTriangle returns U + Uᵀ for a square table U whose entries below
// the diagonal are zero. The diagonal of U is normally zero as well; any
// value there is doubled.
//
// Errors: ErrEmptyInput, ErrRagged (non-square), ErrNotUpperTriangular,
// ErrNegativeWeight, ErrNonFinite.
func FromUpperTriangle(rows [][]float64) (*matrix.Dense, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("FromUpperTriangle: %w", ErrEmptyInput)
	}
	for i, r := range rows {
		if len(r) != n {
			return nil, fmt.Errorf("FromUpperTriangle: row %d has %d entries, want %d: %w", i, len(r), n, ErrRagged)
		}
		for j, v := range r {
			if err := checkWeight(v); err != nil {
				return nil, fmt.Errorf("FromUpperTriangle(%d,%d): %w", i, j, err)
			}
			if j < i && v != 0 {
				return nil, fmt.Errorf("FromUpperTriangle(%d,%d): %w", i, j, ErrNotUpperTriangular)
			}
		}
	}

	u, err := matrix.NewDenseFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("FromUpperTriangle: %w", err)
	}
	ut, err := matrix.Transpose(u)
	if err != nil {
		return nil, fmt.Errorf("FromUpperTriangle: %w", err)
	}
	sum, err := matrix.Add(u, ut)
	if err != nil {
		return nil, fmt.Errorf("FromUpperTriangle: %w", err)
	}

	return matrix.DenseOf(sum)
}

// checkWeight accepts finite, non-negative values.
func checkWeight(v float64) error {
	if !isFinite(v) {
		return ErrNonFinite
	}
	if v < 0 {
		return ErrNegativeWeight
	}

	return nil
}
