// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All kernels return these sentinels (optionally wrapped with an
// operation tag) and tests check them via errors.Is. No exported function
// panics on user-triggered error conditions.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for easy grepping across logs.
// Kernels wrap with fmt.Errorf("Op: %w", ErrX); callers match with errors.Is.
//
// ERROR PRIORITY (enforced in tests):
// nil -> shape/index -> dimension mismatch -> NaN/Inf -> structural violations.

var (
	// ErrBadShape is returned when a slice-of-rows input is empty or ragged.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set/Row) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., Add of different shapes, or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the configured tolerance.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNegativeEntry signals a negative value where only non-negative values
	// are admissible (distances, probabilities).
	ErrNegativeEntry = errors.New("matrix: negative entry")

	// ErrNotRowStochastic signals that a row is not a probability distribution:
	// an entry lies outside [0,1] or the row sum deviates from 1 beyond eps.
	ErrNotRowStochastic = errors.New("matrix: row is not stochastic within eps")
)

// ErrIndexOutOfBounds historically named the same condition as ErrOutOfRange.
// Keep it as an alias so errors.Is(err, ErrIndexOutOfBounds) remains true.
var ErrIndexOutOfBounds = ErrOutOfRange // Deprecated: use ErrOutOfRange.
