// SPDX-License-Identifier: MIT

package dissim

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/detan/matrix"
)

// Metric selects the point-to-point distance used by FromVectors.
type Metric int

const (
	// Euclidean is the L2 distance √Σ(a−b)².
	Euclidean Metric = iota
	// SquaredEuclidean is Σ(a−b)², the quantity k-means minimises.
	SquaredEuclidean
	// Manhattan is the L1 distance Σ|a−b|.
	Manhattan
	// Cosine is 1 − a·b / (‖a‖‖b‖), clamped to [0, 2].
	Cosine
)

var metricNames = [...]string{
	Euclidean:        "euclidean",
	SquaredEuclidean: "sqeuclidean",
	Manhattan:        "manhattan",
	Cosine:           "cosine",
}

// String implements fmt.Stringer.
func (m Metric) String() string {
	if m >= 0 && int(m) < len(metricNames) {
		return metricNames[m]
	}

	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric maps a case-insensitive name back to a Metric.
// The empty string selects Euclidean.
func ParseMetric(s string) (Metric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Euclidean, nil
	}
	for i, name := range metricNames {
		if name == s {
			return Metric(i), nil
		}
	}

	return 0, fmt.Errorf("ParseMetric(%q): %w", s, ErrUnknownMetric)
}

// FromVectors returns the n×n matrix of pairwise distances between points.
// All points must share one dimension ≥ 1 and hold finite coordinates.
//
// Errors: ErrEmptyInput, ErrRagged, ErrNonFinite, ErrUnknownMetric,
// ErrZeroVector (Cosine only).
// Complexity: O(n²·dim).
func FromVectors(points [][]float64, metric Metric) (*matrix.Dense, error) {
	dist, err := pointMetric(metric)
	if err != nil {
		return nil, fmt.Errorf("FromVectors: %w", err)
	}
	n := len(points)
	if n == 0 || len(points[0]) == 0 {
		return nil, fmt.Errorf("FromVectors: %w", ErrEmptyInput)
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("FromVectors: point %d has dimension %d, want %d: %w", i, len(p), dim, ErrRagged)
		}
		for _, v := range p {
			if !isFinite(v) {
				return nil, fmt.Errorf("FromVectors: point %d: %w", i, ErrNonFinite)
			}
		}
		if metric == Cosine && norm(p) == 0 {
			return nil, fmt.Errorf("FromVectors: point %d: %w", i, ErrZeroVector)
		}
	}

	out, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("FromVectors: %w", err)
	}
	var (
		i, j int
		d    float64
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			d = dist(points[i], points[j])
			if err = out.Set(i, j, d); err != nil {
				return nil, fmt.Errorf("FromVectors: %w", err)
			}
			if err = out.Set(j, i, d); err != nil {
				return nil, fmt.Errorf("FromVectors: %w", err)
			}
		}
	}

	return out, nil
}

func pointMetric(m Metric) (func(a, b []float64) float64, error) {
	switch m {
	case Euclidean:
		return func(a, b []float64) float64 { return math.Sqrt(sqDist(a, b)) }, nil
	case SquaredEuclidean:
		return sqDist, nil
	case Manhattan:
		return l1Dist, nil
	case Cosine:
		return cosDist, nil
	default:
		return nil, fmt.Errorf("%v: %w", m, ErrUnknownMetric)
	}
}

func sqDist(a, b []float64) float64 {
	var s, d float64
	for k := range a {
		d = a[k] - b[k]
		s += d * d
	}

	return s
}

func l1Dist(a, b []float64) float64 {
	var s float64
	for k := range a {
		s += math.Abs(a[k] - b[k])
	}

	return s
}

func cosDist(a, b []float64) float64 {
	var dot float64
	for k := range a {
		dot += a[k] * b[k]
	}
	d := 1 - dot/(norm(a)*norm(b))

	return math.Min(math.Max(d, 0), 2)
}

func norm(a []float64) float64 {
	var s float64
	for _, v := range a {
		s += v * v
	}

	return math.Sqrt(s)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
