// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Element-wise and broadcast kernels shared by the annealing update
//     (column scaling by inverse group mass) and by convergence checks
//     (max absolute difference between successive iterates).
//   - Keep all loops deterministic and cache-friendly with Dense fast-paths.
//
// Determinism & Performance:
//   - Fixed loop orders (i→j or flat 0..n-1).
//   - No hidden allocations beyond the output Dense; O(r*c) time and space.

package matrix

import "math"

const (
	opScaleCols  = "ScaleCols"
	opScaleRows  = "ScaleRows"
	opMaxAbsDiff = "MaxAbsDiff"
	opAllClose   = "AllClose"
)

// ScaleCols computes out[i,j] = X[i,j] * scale[j].
// Time: O(r*c). Space: O(r*c). Deterministic i→j loops.
//
// AI-Hint: with scale[j] = 1/colSum[j] this turns D·Y into mass-normalised potentials.
func ScaleCols(X Matrix, scale []float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	if err := ValidateVecLen(scale, X.Cols()); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}

	return ewScale(X, opScaleCols, func(i, j int) float64 { return scale[j] })
}

// ScaleRows computes out[i,j] = X[i,j] * scale[i].
// Time: O(r*c). Space: O(r*c). Deterministic i→j loops.
//
// AI-Hint: use for L1 row-normalisation (scale[i] = 1/rowSum[i]).
func ScaleRows(X Matrix, scale []float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opScaleRows, err)
	}
	if err := ValidateVecLen(scale, X.Rows()); err != nil {
		return nil, matrixErrorf(opScaleRows, err)
	}

	return ewScale(X, opScaleRows, func(i, j int) float64 { return scale[i] })
}

// ewScale is the shared micro-kernel behind ScaleCols/ScaleRows.
// The output inherits X's NaN/Inf policy.
func ewScale(X Matrix, tag string, factor func(i, j int) float64) (*Dense, error) {
	r, c := X.Rows(), X.Cols()
	out, err := NewDense(r, c, policyOf(X))
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}

	var i, j, base int
	if d, ok := X.(*Dense); ok {
		for i = 0; i < r; i++ {
			base = i * c
			for j = 0; j < c; j++ {
				out.data[base+j] = d.data[base+j] * factor(i, j)
			}
		}

		return out, nil
	}

	var v float64
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, matrixErrorf(tag, err)
			}
			if err = out.Set(i, j, v*factor(i, j)); err != nil {
				return nil, matrixErrorf(tag, err)
			}
		}
	}

	return out, nil
}

// MaxAbsDiff returns max_{i,j} |a[i,j] − b[i,j]|.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - Any NaN pair makes the result NaN, so `diff < tol` is false for a
//     degenerate iterate and a convergence loop never mistakes it for a fixed point.
//
// Time: O(r*c). Space: O(1). Deterministic.
func MaxAbsDiff(a, b Matrix) (float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return 0, matrixErrorf(opMaxAbsDiff, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return 0, matrixErrorf(opMaxAbsDiff, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return 0, matrixErrorf(opMaxAbsDiff, err)
	}

	var best, diff float64
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range da.data {
				diff = math.Abs(da.data[idx] - db.data[idx])
				if math.IsNaN(diff) {
					return math.NaN(), nil
				}
				if diff > best {
					best = diff
				}
			}

			return best, nil
		}
	}

	r, c := a.Rows(), a.Cols()
	var i, j int
	var av, bv float64
	var err error
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if av, err = a.At(i, j); err != nil {
				return 0, matrixErrorf(opMaxAbsDiff, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return 0, matrixErrorf(opMaxAbsDiff, err)
			}
			diff = math.Abs(av - bv)
			if math.IsNaN(diff) {
				return math.NaN(), nil
			}
			if diff > best {
				best = diff
			}
		}
	}

	return best, nil
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// NaN != anything. Time: O(r*c). Space: O(1). Deterministic.
//
// Policy:
//   - rtol, atol are treated as |rtol|, |atol|; NaN/Inf tolerances → ErrNaNInf.
//
// AI-Hints:
//   - AllClose with small atol/rtol is ideal for invariance tests in unit tests.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if isNonFinite(rtol) || isNonFinite(atol) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateNotNil(a); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	r, c := a.Rows(), a.Cols()
	var i, j int
	var av, bv float64
	var err error
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if av, err = a.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if !(math.Abs(av-bv) <= atol+rtol*math.Abs(bv)) {
				return false, nil
			}
		}
	}

	return true, nil
}

// AllFinite reports whether every entry of m is finite. A nil matrix is not.
// Complexity: O(r*c), early exit on the first NaN/Inf.
func AllFinite(m Matrix) bool {
	return ValidateFinite(m) == nil
}
