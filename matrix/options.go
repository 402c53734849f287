// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//
// Notes:
//   - validateNaNInf controls whether Set()/ingestion rejects NaN/Inf at all.
//     Assignment matrices produced by annealing are allocated with the check
//     disabled, so a NaN produced by an underflowing softmin stays visible.
//   - Structural tolerances are explicit arguments of the validators
//     (ValidateSymmetric, ValidateRowStochastic); DefaultEpsilon is the
//     recommended value for double-precision data.
package matrix

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the recommended tolerance for structural checks.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported to prevent external mutation; public entry points
// accept `...Option` and resolve them via gatherOptions.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
}

// WithValidateNaNInf enables strict finite-value validation (the default).
// Affects newly created matrices only; existing matrices keep their policy.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables NaN/Inf validation on newly created matrices.
// Use it for buffers whose contents are diagnostic (e.g., iterates that may
// degenerate) rather than trusted input.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// gatherOptions applies setters over defaults in order; later setters win.
// Nil setters are skipped.
// Complexity: O(len(opts)).
func gatherOptions(opts ...Option) Options {
	o := Options{validateNaNInf: DefaultValidateNaNInf}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
