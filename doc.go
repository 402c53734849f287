// Package detan is a deterministic-annealing engine for pairwise clustering:
// given only the distances between N items, it splits them into k soft groups.
//
// 🚀 What is in the module?
//
//	A small stack of packages, each usable on its own:
//		• matrix/   dense row-major matrices, kernels, structural validators
//		• dissim/   distance builders: upper triangle, vectors, DTW series, graphs
//		• anneal/   update rule, annealing State with Cool / Restore / Reheat
//		• runner/   settle-cool loop, degeneracy retries, concurrent restarts
//		• cmd/detan CLI running YAML problem files
//
// ✨ Why deterministic annealing?
//
//   - No random moves – every step is a closed-form mean-field update
//   - Soft assignments – the output is an N×k row-stochastic matrix
//   - Explicit schedule – temperature is T₀·ratioⁿ after n cools
//   - Caller-owned policy – the library never picks a tolerance for you
//
// Quick example:
//
//	d, _ := dissim.FromUpperTriangle(upper)
//	rule, _ := anneal.NewRule(d)
//	st, _ := anneal.New(rule, y0, 0.73)
//	res, err := runner.Run(ctx, st, policy)
//
// Or from the command line:
//
//	detan run -c examples/six_items.yaml --format json
package detan
