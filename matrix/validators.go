// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels/facades minimal by delegating shape/nil/symmetry checks here.
//  - Return sentinel errors tagged with the validator name so call sites can
//    wrap uniformly and callers can still match with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Symmetry check runs O(n²) on the upper triangle only.
//
// AI-Hints:
//  - Use ValidateSymmetric on distance matrices before binding them to an update rule.
//  - Use ValidateRowStochastic on initial assignment matrices.
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → Shape → values).

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// normalizeTol maps a tolerance to a non-negative finite value or reports ErrNaNInf.
func normalizeTol(tag string, tol float64) (float64, error) {
	if isNonFinite(tol) {
		return 0, validatorErrorf(tag, ErrNaNInf)
	}
	if tol < 0 {
		tol = -tol
	}

	return tol, nil
}

// ValidateNotNil – Ensures the matrix reference is non-nil.
// Also catches a typed-nil *Dense stored in the interface.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape – Ensures matrices a and b have equal dimensions.
//
// Implementation: Assumes a and b are not nil (caller must ensure).
// Complexity: O(1).
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
// Errors: ErrNilMatrix, ErrNonSquare.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSymmetric verifies |A[i,j] − A[j,i]| ≤ tol for all i<j.
//
// Returns ErrNilMatrix/ErrNonSquare on structural issues, ErrNaNInf on a bad
// tol, ErrAsymmetry on violation. A NaN pair counts as a violation.
// Complexity: O(n^2) where n = Rows(A). Space: O(1).
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}
	tol, err := normalizeTol("ValidateSymmetric", tol)
	if err != nil {
		return err
	}

	n := m.Rows()
	var (
		i, j     int
		aij, aji float64
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ { // scan only upper triangle
			if aij, err = m.At(i, j); err != nil {
				return validatorErrorf("ValidateSymmetric", err)
			}
			if aji, err = m.At(j, i); err != nil {
				return validatorErrorf("ValidateSymmetric", err)
			}
			// Negated comparison so that NaN fails the check.
			if !(math.Abs(aij-aji) <= tol) {
				return validatorErrorf(fmt.Sprintf("ValidateSymmetric(%d,%d)", i, j), ErrAsymmetry)
			}
		}
	}

	return nil
}

// ValidateFinite rejects any NaN or ±Inf entry.
// Errors: ErrNilMatrix, ErrNaNInf (tagged with coordinates).
// Complexity: O(r*c).
func ValidateFinite(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}

	return scanEntries(m, "ValidateFinite", func(v float64) error {
		if isNonFinite(v) {
			return ErrNaNInf
		}

		return nil
	})
}

// ValidateNonNegative rejects any entry < 0. NaN is reported as ErrNaNInf.
// Complexity: O(r*c).
func ValidateNonNegative(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}

	return scanEntries(m, "ValidateNonNegative", func(v float64) error {
		if math.IsNaN(v) {
			return ErrNaNInf
		}
		if v < 0 {
			return ErrNegativeEntry
		}

		return nil
	})
}

// ValidateRowStochastic checks that every row is a probability distribution:
// each entry finite and within [0,1], and |Σ_j m[i,j] − 1| ≤ tol.
//
// Errors: ErrNilMatrix, ErrNaNInf (bad tol or non-finite entry),
// ErrNotRowStochastic (tagged with the offending row).
// Complexity: O(r*c).
func ValidateRowStochastic(m Matrix, tol float64) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	tol, err := normalizeTol("ValidateRowStochastic", tol)
	if err != nil {
		return err
	}

	err = scanEntries(m, "ValidateRowStochastic", func(v float64) error {
		if isNonFinite(v) {
			return ErrNaNInf
		}
		if v < 0 || v > 1 {
			return ErrNotRowStochastic
		}

		return nil
	})
	if err != nil {
		return err
	}

	sums, err := RowSums(m)
	if err != nil {
		return validatorErrorf("ValidateRowStochastic", err)
	}
	for i, s := range sums {
		if math.Abs(s-1) > tol {
			return validatorErrorf(fmt.Sprintf("ValidateRowStochastic: row %d sums to %g", i, s), ErrNotRowStochastic)
		}
	}

	return nil
}

// scanEntries applies check to every entry in row-major order and tags the
// first failure with its coordinates. Dense inputs use the flat buffer.
func scanEntries(m Matrix, tag string, check func(v float64) error) error {
	r, c := m.Rows(), m.Cols()
	if d, ok := m.(*Dense); ok {
		for idx, v := range d.data {
			if err := check(v); err != nil {
				return validatorErrorf(fmt.Sprintf("%s(%d,%d)", tag, idx/c, idx%c), err)
			}
		}

		return nil
	}

	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return validatorErrorf(tag, err)
			}
			if err = check(v); err != nil {
				return validatorErrorf(fmt.Sprintf("%s(%d,%d)", tag, i, j), err)
			}
		}
	}

	return nil
}
