// SPDX-License-Identifier: MIT

package anneal

import (
	"fmt"
	"math"

	"github.com/katalvlaran/detan/matrix"
)

// DegeneracyKind classifies what Inspect found wrong with a row.
type DegeneracyKind int

const (
	// NonFinite marks a NaN or ±Inf entry.
	NonFinite DegeneracyKind = iota + 1

	// DuplicateHard marks a row with two or more entries within tol of 1.
	DuplicateHard
)

// String implements fmt.Stringer.
func (k DegeneracyKind) String() string {
	switch k {
	case NonFinite:
		return "non-finite"
	case DuplicateHard:
		return "duplicate-hard"
	default:
		return fmt.Sprintf("DegeneracyKind(%d)", int(k))
	}
}

// DegeneracyError locates the first degenerate entry found by Inspect.
// It unwraps to ErrNumericalDegeneracy.
type DegeneracyError struct {
	Row, Col int
	Kind     DegeneracyKind
	Value    float64
}

func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("%v: %s at (%d,%d) = %g", ErrNumericalDegeneracy, e.Kind, e.Row, e.Col, e.Value)
}

// Unwrap returns ErrNumericalDegeneracy.
func (e *DegeneracyError) Unwrap() error { return ErrNumericalDegeneracy }

// Inspect scans an assignment matrix row by row and reports the first sign
// of numerical degeneracy:
//   - NonFinite: an entry is NaN or ±Inf (an underflowed softmin row);
//   - DuplicateHard: a second entry of the same row is ≥ 1−tol.
//
// tol must lie in [0, 0.5) (ErrRange). Step never calls Inspect; the
// caller decides whether and how to react, for example by Restore or Reheat.
func Inspect(y matrix.Matrix, tol float64) error {
	if !(tol >= 0 && tol < 0.5) {
		return fmt.Errorf("Inspect: tol %g: %w", tol, ErrRange)
	}
	if err := matrix.ValidateNotNil(y); err != nil {
		return fmt.Errorf("Inspect: %w: %w", ErrShape, err)
	}

	yd, err := relaxed(y)
	if err != nil {
		return fmt.Errorf("Inspect: %w", err)
	}

	var (
		found *DegeneracyError
		row   = -1
		hard  int
	)
	yd.Do(func(i, j int, v float64) bool {
		if i != row {
			row, hard = i, 0
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			found = &DegeneracyError{Row: i, Col: j, Kind: NonFinite, Value: v}
			return false
		}
		if v >= 1-tol {
			hard++
			if hard > 1 {
				found = &DegeneracyError{Row: i, Col: j, Kind: DuplicateHard, Value: v}
				return false
			}
		}
		return true
	})
	if found != nil {
		return fmt.Errorf("Inspect: %w", found)
	}

	return nil
}
