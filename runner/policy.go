package runner

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadPolicy indicates a Policy field outside its documented range.
	ErrBadPolicy = errors.New("runner: invalid policy")

	// ErrDegenerate indicates that numerical degeneracy persisted after
	// MaxRetries reheats.
	ErrDegenerate = errors.New("runner: degeneracy persisted after retries")

	// ErrNilState indicates that Run was given no state.
	ErrNilState = errors.New("runner: nil state")
)

// Policy carries every decision the annealing engine leaves to its caller.
// There are no defaults: each field must be set explicitly.
type Policy struct {
	// Tolerance ends a round once max|Y′ − Y| < Tolerance. Must be > 0.
	Tolerance float64

	// CoolingSteps is the number of rounds, each ending with one Cool. Must be ≥ 0.
	CoolingSteps int

	// MaxInnerSteps caps the steps of a single round. Must be ≥ 1.
	MaxInnerSteps int

	// DegeneracyTol is passed to anneal.Inspect after every step. Must be in [0, 0.5).
	DegeneracyTol float64

	// MaxRetries bounds how many reheats a run may spend. Must be ≥ 0.
	MaxRetries int

	// RetryRatio scales the cooling step on every reheat:
	// ratio′ = 1 − (1 − ratio)·RetryRatio. Must be in (0, 1).
	RetryRatio float64
}

// Validate reports the first out-of-range field, wrapped in ErrBadPolicy.
func (p Policy) Validate() error {
	switch {
	case !(p.Tolerance > 0) || math.IsInf(p.Tolerance, 1):
		return fmt.Errorf("%w: Tolerance %g must be finite and > 0", ErrBadPolicy, p.Tolerance)
	case p.CoolingSteps < 0:
		return fmt.Errorf("%w: CoolingSteps %d must be >= 0", ErrBadPolicy, p.CoolingSteps)
	case p.MaxInnerSteps < 1:
		return fmt.Errorf("%w: MaxInnerSteps %d must be >= 1", ErrBadPolicy, p.MaxInnerSteps)
	case !(p.DegeneracyTol >= 0 && p.DegeneracyTol < 0.5):
		return fmt.Errorf("%w: DegeneracyTol %g must be in [0, 0.5)", ErrBadPolicy, p.DegeneracyTol)
	case p.MaxRetries < 0:
		return fmt.Errorf("%w: MaxRetries %d must be >= 0", ErrBadPolicy, p.MaxRetries)
	case !(p.RetryRatio > 0 && p.RetryRatio < 1):
		return fmt.Errorf("%w: RetryRatio %g must be in (0, 1)", ErrBadPolicy, p.RetryRatio)
	}

	return nil
}

// gentler returns the cooling ratio used after a reheat.
func (p Policy) gentler(ratio float64) float64 {
	return 1 - (1-ratio)*p.RetryRatio
}
