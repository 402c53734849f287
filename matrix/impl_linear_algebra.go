// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise addition, transpose, matrix multiplication, matrix-vector
// products and row/column reductions. All functions perform strict fail-fast
// validation and return clear errors on dimension mismatches.
//
// Notes:
//   - All kernels use central validators and wrap sentinels via matrixErrorf.
//   - Every kernel has a *Dense fast path over the flat buffer and a generic
//     At/Set fallback with identical loop order.
//   - Results inherit the NaN/Inf policy of the first operand when it is a
//     *Dense, so diagnostic iterates stay representable end to end.

package matrix

import "fmt"

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opRowSums   = "RowSums"
	opColSums   = "ColSums"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// policyOf returns the option that reproduces m's NaN/Inf policy.
func policyOf(m Matrix) Option {
	if d, ok := m.(*Dense); ok && !d.validateNaNInf {
		return WithNoValidateNaNInf()
	}

	return WithValidateNaNInf()
}

// Add returns a + b for identically shaped operands.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Add(a, b Matrix) (Matrix, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}
	r, c := a.Rows(), a.Cols()
	res, err := NewDense(r, c, policyOf(a))
	if err != nil {
		return nil, matrixErrorf(opAdd, err)
	}

	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range res.data {
				res.data[idx] = da.data[idx] + db.data[idx]
			}

			return res, nil
		}
	}

	var i, j int
	var av, bv float64
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
			if err = res.Set(i, j, av+bv); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// The original matrix is never mutated.
// Complexity: O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	r, c := m.Rows(), m.Cols()
	res, err := NewDense(c, r, policyOf(m))
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if d, ok := m.(*Dense); ok {
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				res.data[j*r+i] = d.data[i*c+j]
			}
		}

		return res, nil
	}

	var v float64
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			if err = res.Set(j, i, v); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
		}
	}

	return res, nil
}

// Mul computes C = A × B.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (a.Cols != b.Rows).
//
// Determinism:
//   - Fixed loop orders (i→k→j for fast path, i→j→k for fallback).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c). Skipping zero A[i,k] avoids useless multiplies.
//
// Notes:
//   - Zero skipping means 0·Inf terms contribute nothing; distances are finite
//     by the time they reach here, so this never changes a result.
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if a.Cols() != b.Rows() {
		return nil, matrixErrorf(opMul, ErrDimensionMismatch)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols, policyOf(b))
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	// Fast-path for two Dense matrices
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var rowOffsetA, rowOffsetB, rowOffsetR int
			for i = 0; i < aRows; i++ {
				rowOffsetA = i * aCols
				rowOffsetR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowOffsetA+k]
					if av == 0 {
						continue // skip zero for performance
					}
					rowOffsetB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
					}
				}
			}

			return res, nil
		}
	}

	// Fallback: generic interface triple-loop (i-j-k)
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				current += av * bv
			}
			if err = res.Set(i, j, current); err != nil {
				return nil, matrixErrorf(opMul, err)
			}
		}
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; x non-nil; len(x) == m.Cols().
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	var i, j int
	if d, ok := m.(*Dense); ok {
		var base int
		var acc float64
		for i = 0; i < rows; i++ {
			acc = ZeroSum
			base = i * cols
			for j = 0; j < cols; j++ {
				acc += d.data[base+j] * x[j]
			}
			y[i] = acc
		}

		return y, nil
	}

	var mv float64
	var err error
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// RowSums returns vector r where r[i] = sum_j m[i,j].
// Implementation: MatVec(m, ones(cols)).
// Complexity: O(rc).
func RowSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	ones := make([]float64, m.Cols())
	for j := range ones {
		ones[j] = 1.0
	}

	return MatVec(m, ones)
}

// ColSums returns vector c where c[j] = sum_i m[i,j].
// For an assignment matrix these are the expected group masses.
// Complexity: O(rc), no transpose allocation.
func ColSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	r, c := m.Rows(), m.Cols()
	out := make([]float64, c)

	var i, j int
	if d, ok := m.(*Dense); ok {
		var base int
		for i = 0; i < r; i++ {
			base = i * c
			for j = 0; j < c; j++ {
				out[j] += d.data[base+j]
			}
		}

		return out, nil
	}

	var v float64
	var err error
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opColSums, err)
			}
			out[j] += v
		}
	}

	return out, nil
}
