// SPDX-License-Identifier: MIT

// Package anneal - the annealing state machine.
//
// MAIN DESCRIPTION:
//   - State owns the current assignment matrix, the temperature, a fixed
//     cooling ratio and one checkpoint. Callers drive it with Step, Cool
//     and Restore; the state never decides when to do any of them.
//
// Lifecycle:
//
//	New ──► Initialized (T = T0, checkpoint = initial)
//	Step    current ← update(current, T)
//	Cool    checkpoint ← current, T ← T·ratio
//	Restore current ← checkpoint (T unchanged)
//	Reheat  new State from checkpoint at the pre-cooling temperature
//
// Invariants:
//   - After n calls to Cool, Temperature() == T0·ratioⁿ.
//   - Restore reproduces the assignments captured by the latest Cool exactly.
//   - A failed Step leaves the state untouched.
//
// Concurrency:
//   - A State is not safe for concurrent use. Distinct States built on the
//     same Rule may run in parallel.
package anneal

import (
	"fmt"

	"github.com/katalvlaran/detan/matrix"
)

// sizer is implemented by updaters bound to a fixed number of items (*Rule).
type sizer interface {
	Items() int
}

// State is one annealing run.
type State struct {
	update Updater

	current    *matrix.Dense
	checkpoint *matrix.Dense

	temperature           float64
	checkpointTemperature float64
	ratio                 float64

	cools int
	steps int

	// cooled is set once Cool has run on this State.
	cooled bool
}

// New validates its inputs and returns a State in the initialized phase.
//
// Validation order:
//   - Stage 1: u non-nil (ErrNilUpdater).
//   - Stage 2: initial is N×k with N ≥ 1 and k ≥ 2; N agrees with u when u
//     reports Items() (ErrShape).
//   - Stage 3: ratio in (0,1) and temperature finite and positive (ErrRange).
//   - Stage 4: initial is row-stochastic within the tolerance (ErrRowStochasticity).
//
// The initial matrix is copied; later changes to it do not affect the State.
func New(u Updater, initial matrix.Matrix, ratio float64, opts ...Option) (*State, error) {
	o := gatherOptions(opts...)

	if u == nil {
		return nil, fmt.Errorf("New: %w", ErrNilUpdater)
	}
	if err := matrix.ValidateNotNil(initial); err != nil {
		return nil, fmt.Errorf("New: %w: %w", ErrShape, err)
	}
	if initial.Cols() < 2 {
		return nil, fmt.Errorf("New: %w: %d groups, need at least 2", ErrShape, initial.Cols())
	}
	if s, ok := u.(sizer); ok && s.Items() != initial.Rows() {
		return nil, fmt.Errorf("New: %w: %d assignment rows for %d items", ErrShape, initial.Rows(), s.Items())
	}
	if err := checkRatio(ratio); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	if !positiveFinite(o.temperature) {
		return nil, fmt.Errorf("New: temperature %g: %w", o.temperature, ErrRange)
	}
	if err := matrix.ValidateRowStochastic(initial, o.tolerance); err != nil {
		return nil, fmt.Errorf("New: %w: %w", ErrRowStochasticity, err)
	}

	cur, err := relaxed(initial)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	return &State{
		update:                u,
		current:               cur,
		checkpoint:            cloneDense(cur),
		temperature:           o.temperature,
		checkpointTemperature: o.temperature,
		ratio:                 ratio,
	}, nil
}

// checkRatio accepts only ratios strictly inside (0,1).
func checkRatio(r float64) error {
	if !(r > 0 && r < 1) {
		return fmt.Errorf("cooling ratio %g: %w", r, ErrRange)
	}

	return nil
}

func cloneDense(m *matrix.Dense) *matrix.Dense {
	return m.Clone().(*matrix.Dense)
}

// Step applies the updater once at the current temperature, replaces the
// current assignments and returns them. On error, including an output of
// the wrong shape (ErrShape), the state is left as it was.
func (s *State) Step() (*matrix.Dense, error) {
	next, err := s.update.Update(s.current, s.temperature)
	if err != nil {
		return nil, fmt.Errorf("Step: %w", err)
	}
	if next == nil {
		return nil, fmt.Errorf("Step: %w: updater returned nil", ErrShape)
	}
	if next.Rows() != s.current.Rows() || next.Cols() != s.current.Cols() {
		return nil, fmt.Errorf("Step: %w: updater returned %dx%d, want %dx%d",
			ErrShape, next.Rows(), next.Cols(), s.current.Rows(), s.current.Cols())
	}

	s.current = next
	s.steps++

	return next, nil
}

// Cool saves the current assignments and temperature as the checkpoint,
// then multiplies the temperature by the cooling ratio. No update is applied.
func (s *State) Cool() {
	s.checkpoint = cloneDense(s.current)
	s.checkpointTemperature = s.temperature
	s.temperature *= s.ratio
	s.cools++
	s.cooled = true
}

// Restore replaces the current assignments with the checkpoint.
// The temperature is not changed.
func (s *State) Restore() {
	s.current = cloneDense(s.checkpoint)
}

// Reheat returns a new State that starts from the checkpoint assignments at
// the temperature in force when the checkpoint was taken, cooling by ratio.
// The receiver is not modified. ratio must lie in (0,1) (ErrRange).
//
// Cools of the result undoes the receiver's latest Cool. A State that has
// not cooled yet is already at its checkpoint temperature, so reheating it
// keeps the count.
func (s *State) Reheat(ratio float64) (*State, error) {
	if err := checkRatio(ratio); err != nil {
		return nil, fmt.Errorf("Reheat: %w", err)
	}

	cools := s.cools
	if s.cooled {
		cools--
	}

	return &State{
		update:                s.update,
		current:               cloneDense(s.checkpoint),
		checkpoint:            cloneDense(s.checkpoint),
		temperature:           s.checkpointTemperature,
		checkpointTemperature: s.checkpointTemperature,
		ratio:                 ratio,
		cools:                 cools,
	}, nil
}

// Assignments returns the current assignment matrix. Treat it as read-only.
func (s *State) Assignments() *matrix.Dense { return s.current }

// Checkpoint returns the checkpoint saved by the latest Cool (the initial
// assignments before any). Treat it as read-only.
func (s *State) Checkpoint() *matrix.Dense { return s.checkpoint }

// Temperature returns the current temperature.
func (s *State) Temperature() float64 { return s.temperature }

// CheckpointTemperature returns the temperature at which the checkpoint was taken.
func (s *State) CheckpointTemperature() float64 { return s.checkpointTemperature }

// Ratio returns the cooling ratio.
func (s *State) Ratio() float64 { return s.ratio }

// Cools returns how many cooling moves separate this state from T0.
func (s *State) Cools() int { return s.cools }

// Steps returns how many updates this State has applied.
func (s *State) Steps() int { return s.steps }

// Items returns N.
func (s *State) Items() int { return s.current.Rows() }

// Groups returns k.
func (s *State) Groups() int { return s.current.Cols() }
