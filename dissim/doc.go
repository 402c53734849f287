// Package dissim builds symmetric, non-negative, zero-diagonal
// dissimilarity matrices ready for anneal.NewRule.
//
// Builders:
//
//   - FromUpperTriangle: D + Dᵀ from an upper-triangular table.
//   - FromVectors:       pairwise distances between points under a Metric
//     (Euclidean, SquaredEuclidean, Manhattan, Cosine).
//   - FromSeries:        pairwise Dynamic Time Warping distances between
//     time series, computed in parallel. Complexity O(n²·L²).
//   - FromEdges:         shortest-path distances in an undirected weighted
//     graph (Floyd–Warshall). Complexity O(n³).
//
// Every builder returns a fresh *matrix.Dense with strict NaN/Inf
// validation, so the result can be passed to anneal.NewRule unchanged.
// No builder logs or panics on user input; failures are sentinel errors.
package dissim
