// SPDX-License-Identifier: MIT

package anneal

import (
	"fmt"
	"math"
)

const (
	// DefaultTemperature is the starting temperature T0 when none is given.
	DefaultTemperature = 1.0

	// DefaultTolerance bounds both |D[i][j]−D[j][i]| and |Σ_j Y[i][j] − 1|.
	DefaultTolerance = 1e-9
)

// Potential selects how NewRule turns distances and assignments into
// per-group potentials.
type Potential int

const (
	// MeanPotential is the expected distance from item i to the members of
	// group j: (D·Y)[i][j] / Σ_l Y[l][j].
	MeanPotential Potential = iota

	// ExactPotential is the mean-field potential with the item's own
	// contribution removed from the group mass.
	ExactPotential
)

// String implements fmt.Stringer.
func (p Potential) String() string {
	switch p {
	case MeanPotential:
		return "mean"
	case ExactPotential:
		return "exact"
	default:
		return fmt.Sprintf("Potential(%d)", int(p))
	}
}

// ParsePotential maps "mean" and "exact" (as printed by String) back to a
// Potential. The empty string selects MeanPotential.
func ParsePotential(s string) (Potential, error) {
	switch s {
	case "", "mean":
		return MeanPotential, nil
	case "exact":
		return ExactPotential, nil
	default:
		return 0, fmt.Errorf("ParsePotential(%q): %w", s, ErrRange)
	}
}

// Option configures NewRule and New.
type Option func(*Options)

// Options holds the resolved configuration. Fields are unexported; use the
// With* setters.
type Options struct {
	temperature float64
	tolerance   float64
	potential   Potential
}

// WithTemperature sets the starting temperature used by New.
// Values that are not finite and positive are reported by New as ErrRange.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.temperature = t }
}

// WithTolerance sets the symmetry / row-sum tolerance.
// Panics if tol is negative or not finite (programmer error).
func WithTolerance(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic("anneal: WithTolerance requires a finite tol >= 0")
	}

	return func(o *Options) { o.tolerance = tol }
}

// WithPotential selects the potential used by NewRule.
func WithPotential(p Potential) Option {
	return func(o *Options) { o.potential = p }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		temperature: DefaultTemperature,
		tolerance:   DefaultTolerance,
		potential:   MeanPotential,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// positiveFinite reports whether v lies in (0, +Inf).
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
