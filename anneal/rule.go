// SPDX-License-Identifier: MIT

// Package anneal - the update rule.
//
// MAIN DESCRIPTION:
//   - A Rule is bound once to a validated distance matrix D (N×N) and maps
//     (assignments Y, temperature T) to the next assignments Y′.
//   - One update is two stages: potentials P = potential(D, Y), then the
//     row-wise softmin Y′[i][j] = exp(−P[i][j]/T) / Σ_m exp(−P[i][m]/T).
//
// Implementation:
//   - Stage 1 (MeanPotential): P = (D·Y) · diag(1/colsum(Y)).
//   - Stage 1 (ExactPotential): P[i][j] = ((D·Y)[i][j] − Q_j/(2·S_ij)) / (S_ij + 1)
//     where m_j = Σ_l Y[l][j], S_ij = m_j − Y[i][j], Q_j = Σ_ab Y[a][j]·D[a][b]·Y[b][j].
//   - Stage 2: literal exponentials, no max-shift. A row whose exponentials
//     all underflow becomes 0/0 = NaN and stays visible to the caller.
//
// Complexity:
//   - Time O(N²·k) per update (dominated by D·Y), Space O(N·k).
//
// Concurrency:
//   - A Rule is immutable after NewRule; Update is re-entrant and never
//     mutates its inputs.
package anneal

import (
	"fmt"
	"math"

	"github.com/katalvlaran/detan/matrix"
)

// Updater produces the next assignment matrix from the current one at
// temperature t. Implementations must not mutate y and must return a
// freshly allocated N×k matrix.
type Updater interface {
	Update(y matrix.Matrix, t float64) (*matrix.Dense, error)
}

// UpdateFunc adapts an ordinary function to Updater.
type UpdateFunc func(y matrix.Matrix, t float64) (*matrix.Dense, error)

// Update calls f(y, t).
func (f UpdateFunc) Update(y matrix.Matrix, t float64) (*matrix.Dense, error) {
	return f(y, t)
}

// Rule is the standard pairwise-clustering update bound to one distance matrix.
type Rule struct {
	d         *matrix.Dense // private copy, never mutated
	potential Potential
}

var _ Updater = (*Rule)(nil)

// NewRule validates d and binds a private copy of it.
//
// Errors:
//   - ErrShape: d is nil or not square.
//   - ErrRange: an entry is NaN, ±Inf or negative; unknown Potential.
//   - ErrAsymmetry: |d[i][j] − d[j][i]| exceeds the tolerance.
func NewRule(d matrix.Matrix, opts ...Option) (*Rule, error) {
	o := gatherOptions(opts...)

	if o.potential != MeanPotential && o.potential != ExactPotential {
		return nil, fmt.Errorf("NewRule: %v: %w", o.potential, ErrRange)
	}
	dd, err := bindDistances(d, o.tolerance)
	if err != nil {
		return nil, fmt.Errorf("NewRule: %w", err)
	}

	return &Rule{d: dd, potential: o.potential}, nil
}

// bindDistances runs the distance checks in priority order
// (shape → finiteness/sign → symmetry) and returns an owned copy.
func bindDistances(d matrix.Matrix, tol float64) (*matrix.Dense, error) {
	if err := matrix.ValidateSquare(d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShape, err)
	}
	if err := matrix.ValidateFinite(d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRange, err)
	}
	if err := matrix.ValidateNonNegative(d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRange, err)
	}
	if err := matrix.ValidateSymmetric(d, tol); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAsymmetry, err)
	}

	return matrix.DenseOf(d)
}

// Items returns N, the number of items the rule was bound to.
func (r *Rule) Items() int { return r.d.Rows() }

// Potential reports which potential the rule computes.
func (r *Rule) Potential() Potential { return r.potential }

// Update returns the next assignments for y at temperature t.
// y must be N×k with k ≥ 2 (ErrShape); t must be finite and positive (ErrRange).
func (r *Rule) Update(y matrix.Matrix, t float64) (*matrix.Dense, error) {
	if !positiveFinite(t) {
		return nil, fmt.Errorf("Rule.Update: temperature %g: %w", t, ErrRange)
	}

	var (
		p   *matrix.Dense
		err error
	)
	switch r.potential {
	case ExactPotential:
		p, err = ExactPotentials(r.d, y)
	default:
		p, err = Potentials(r.d, y)
	}
	if err != nil {
		return nil, fmt.Errorf("Rule.Update: %w", err)
	}

	return Expectations(p, t)
}

// Func returns r.Update as an UpdateFunc.
func (r *Rule) Func() UpdateFunc { return r.Update }

// checkPair verifies that d is N×N and y is N×k with k ≥ 2.
func checkPair(d, y matrix.Matrix) error {
	if err := matrix.ValidateSquare(d); err != nil {
		return fmt.Errorf("%w: %w", ErrShape, err)
	}
	if err := matrix.ValidateNotNil(y); err != nil {
		return fmt.Errorf("%w: %w", ErrShape, err)
	}
	if y.Rows() != d.Rows() {
		return fmt.Errorf("%w: %d assignment rows for %d items", ErrShape, y.Rows(), d.Rows())
	}
	if y.Cols() < 2 {
		return fmt.Errorf("%w: %d groups, need at least 2", ErrShape, y.Cols())
	}

	return nil
}

// relaxed copies m into a Dense that tolerates NaN/Inf, so that
// degenerate iterates can flow through the kernels unchanged.
func relaxed(m matrix.Matrix) (*matrix.Dense, error) {
	return matrix.DenseOf(m, matrix.WithNoValidateNaNInf())
}

// Potentials computes the mean potential
//
//	P[i][j] = Σ_l Y[l][j]·D[i][l] / Σ_l Y[l][j]
//
// i.e. the expected distance from item i to the members of group j.
// A group with zero total mass yields non-finite entries in its column.
// d is not checked for symmetry here; NewRule does that once.
func Potentials(d, y matrix.Matrix) (*matrix.Dense, error) {
	if err := checkPair(d, y); err != nil {
		return nil, fmt.Errorf("Potentials: %w", err)
	}
	yd, err := relaxed(y)
	if err != nil {
		return nil, fmt.Errorf("Potentials: %w", err)
	}

	dy, err := matrix.Mul(d, yd)
	if err != nil {
		return nil, fmt.Errorf("Potentials: %w", err)
	}
	mass, err := matrix.ColSums(yd)
	if err != nil {
		return nil, fmt.Errorf("Potentials: %w", err)
	}
	for j := range mass {
		mass[j] = 1 / mass[j]
	}

	return matrix.ScaleCols(dy, mass)
}

// ExactPotentials computes the mean-field potential with self-exclusion
//
//	P[i][j] = ((D·Y)[i][j] − Q_j / (2·S_ij)) / (S_ij + 1)
//
// with m_j = Σ_l Y[l][j], S_ij = m_j − Y[i][j] and
// Q_j = Σ_a Y[a][j]·(D·Y)[a][j].
func ExactPotentials(d, y matrix.Matrix) (*matrix.Dense, error) {
	if err := checkPair(d, y); err != nil {
		return nil, fmt.Errorf("ExactPotentials: %w", err)
	}
	yd, err := relaxed(y)
	if err != nil {
		return nil, fmt.Errorf("ExactPotentials: %w", err)
	}
	dyM, err := matrix.Mul(d, yd)
	if err != nil {
		return nil, fmt.Errorf("ExactPotentials: %w", err)
	}
	dyD, err := relaxed(dyM)
	if err != nil {
		return nil, fmt.Errorf("ExactPotentials: %w", err)
	}

	yr, dy := yd.Slices(), dyD.Slices()
	n, k := len(yr), len(yr[0])

	mass := make([]float64, k)
	q := make([]float64, k)
	var a, i, j int
	for a = 0; a < n; a++ {
		for j = 0; j < k; j++ {
			mass[j] += yr[a][j]
			q[j] += yr[a][j] * dy[a][j]
		}
	}

	out, err := matrix.NewDense(n, k, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("ExactPotentials: %w", err)
	}
	var s float64
	for i = 0; i < n; i++ {
		for j = 0; j < k; j++ {
			s = mass[j] - yr[i][j]
			if err = out.Set(i, j, (dy[i][j]-q[j]/(2*s))/(s+1)); err != nil {
				return nil, fmt.Errorf("ExactPotentials: %w", err)
			}
		}
	}

	return out, nil
}

// Expectations applies the row-wise softmin at temperature t:
//
//	Y′[i][j] = exp(−P[i][j]/t) / Σ_m exp(−P[i][m]/t)
//
// The exponentials are taken literally. When every exponential of a row
// underflows to zero the row becomes NaN rather than being rescued.
// Errors: ErrRange for t not finite and positive; ErrShape for a nil p.
func Expectations(p matrix.Matrix, t float64) (*matrix.Dense, error) {
	if !positiveFinite(t) {
		return nil, fmt.Errorf("Expectations: temperature %g: %w", t, ErrRange)
	}
	if err := matrix.ValidateNotNil(p); err != nil {
		return nil, fmt.Errorf("Expectations: %w: %w", ErrShape, err)
	}
	pd, err := relaxed(p)
	if err != nil {
		return nil, fmt.Errorf("Expectations: %w", err)
	}

	n, k := pd.Shape()
	out, err := matrix.NewDense(n, k, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("Expectations: %w", err)
	}

	e := make([]float64, k)
	var (
		i, j int
		row  []float64
		sum  float64
	)
	for i = 0; i < n; i++ {
		if row, err = pd.Row(i); err != nil {
			return nil, fmt.Errorf("Expectations: %w", err)
		}
		sum = 0
		for j = 0; j < k; j++ {
			e[j] = math.Exp(-row[j] / t)
			sum += e[j]
		}
		for j = 0; j < k; j++ {
			if err = out.Set(i, j, e[j]/sum); err != nil {
				return nil, fmt.Errorf("Expectations: %w", err)
			}
		}
	}

	return out, nil
}
