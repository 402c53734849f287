// SPDX-License-Identifier: MIT
// Package dissim: sentinel error set.
package dissim

import "errors"

var (
	// ErrEmptyInput indicates no items, or an item with no data.
	ErrEmptyInput = errors.New("dissim: empty input")

	// ErrRagged indicates rows or vectors of unequal length.
	ErrRagged = errors.New("dissim: ragged input")

	// ErrNotUpperTriangular indicates a non-zero entry below the diagonal.
	ErrNotUpperTriangular = errors.New("dissim: entry below the diagonal")

	// ErrNegativeWeight indicates a negative distance, edge weight or slope penalty.
	ErrNegativeWeight = errors.New("dissim: negative weight")

	// ErrNonFinite indicates a NaN or ±Inf coordinate, sample or weight.
	ErrNonFinite = errors.New("dissim: NaN or Inf value")

	// ErrBadEdge indicates an edge endpoint outside [0,n).
	ErrBadEdge = errors.New("dissim: edge endpoint out of range")

	// ErrDisconnected indicates a pair of vertices with no connecting path.
	ErrDisconnected = errors.New("dissim: graph is disconnected")

	// ErrUnknownMetric indicates an unsupported Metric value or name.
	ErrUnknownMetric = errors.New("dissim: unknown metric")

	// ErrZeroVector indicates a zero vector under the cosine metric.
	ErrZeroVector = errors.New("dissim: zero vector has no direction")

	// ErrBadWindow indicates a warping window narrower than the length
	// difference of two series, which leaves no admissible warping path.
	ErrBadWindow = errors.New("dissim: window narrower than length difference")
)
