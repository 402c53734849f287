// Package matrix provides the dense numeric substrate for detan: a row-major
// float64 matrix with safe accessors, a handful of deterministic kernels and
// the validators used to admit distance and assignment matrices.
//
// 🚀 What lives here?
//
//   - Dense storage: NewDense, NewDenseFrom, DenseOf; At/Set never panic.
//   - Kernels: Add, Transpose, Mul, MatVec, RowSums, ColSums,
//     ScaleCols, ScaleRows, MaxAbsDiff, AllClose, AllFinite.
//   - Validators: ValidateSquare, ValidateSymmetric, ValidateFinite,
//     ValidateNonNegative, ValidateRowStochastic.
//   - Graph metric: FloydWarshall (in-place all-pairs shortest paths).
//
// ⚙️ Numeric policy:
//
//	Matrices validate NaN/Inf on ingestion and Set by default. Buffers whose
//	contents are diagnostic, such as annealing iterates that may legitimately
//	degenerate to NaN, are created with WithNoValidateNaNInf. Kernel results
//	inherit the policy of their *Dense operand.
//
// Errors are package sentinels (errors.go) wrapped with an operation tag;
// match them with errors.Is.
package matrix
