// SPDX-License-Identifier: MIT
// Package anneal: sentinel error set.
//
// Every constructor and operation returns one of these sentinels, wrapped with
// an operation tag and, where one exists, the matrix-level cause:
//
//	fmt.Errorf("New: %w: %w", ErrRowStochasticity, matrix.ErrNotRowStochastic)
//
// so errors.Is matches both the anneal and the matrix sentinel.
package anneal

import "errors"

var (
	// ErrShape indicates a missing matrix, a non-square distance matrix,
	// fewer than two groups, or an N that disagrees with the bound distances.
	ErrShape = errors.New("anneal: shape mismatch")

	// ErrAsymmetry indicates a distance matrix with D[i][j] != D[j][i]
	// beyond the tolerance.
	ErrAsymmetry = errors.New("anneal: distance matrix is not symmetric")

	// ErrRowStochasticity indicates an assignment row outside [0,1] or not
	// summing to 1 within the tolerance.
	ErrRowStochasticity = errors.New("anneal: assignments are not row-stochastic")

	// ErrRange indicates a cooling ratio outside (0,1), a non-positive
	// temperature, or a negative / non-finite distance.
	ErrRange = errors.New("anneal: value out of range")

	// ErrNilUpdater indicates that New was given no update rule.
	ErrNilUpdater = errors.New("anneal: nil updater")

	// ErrNumericalDegeneracy is reported by Inspect for a row that holds a
	// NaN/Inf or claims certain membership in more than one group.
	ErrNumericalDegeneracy = errors.New("anneal: numerical degeneracy")
)
