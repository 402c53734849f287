// Package anneal clusters N items into k soft groups by deterministic
// annealing on a pairwise dissimilarity matrix.
//
// Two pieces make up the engine:
//
//   - Rule: the update rule bound to a symmetric, non-negative distance
//     matrix D. Given assignments Y (N×k, rows are probability
//     distributions) and a temperature T it returns
//     Y′ = softmin(potential(D, Y) / T).
//
//   - State: one annealing run: current assignments, temperature, a
//     fixed cooling ratio and a single checkpoint, driven by
//     Step / Cool / Restore.
//
// The package carries no policy. Convergence thresholds, the number of
// cooling moves, and how to react to degeneracy are all the caller's; see
// package runner for a ready-made driver and Inspect for detection.
//
// Typical use:
//
//	rule, err := anneal.NewRule(d)
//	y0, err := anneal.RandomAssignments(rule.Items(), 2, 0.1, anneal.SeededRand(1))
//	st, err := anneal.New(rule, y0, 0.73)
//	for round := 0; round < 20; round++ {
//		for {
//			prev := st.Assignments()
//			next, err := st.Step()
//			diff, _ := matrix.MaxAbsDiff(prev, next)
//			if diff < 1e-6 {
//				break
//			}
//		}
//		st.Cool()
//	}
//
// Numerical degeneracy (NaN rows, two certain memberships in one row) is
// never masked; the exponentials are evaluated without stabilisation so a
// degenerate iterate stays observable.
//
// Errors: ErrShape, ErrAsymmetry, ErrRowStochasticity, ErrRange,
// ErrNilUpdater and ErrNumericalDegeneracy. Construction errors also wrap
// the matrix-level cause.
package anneal
