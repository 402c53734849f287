// SPDX-License-Identifier: MIT

package dissim

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/katalvlaran/detan/matrix"
	"golang.org/x/sync/errgroup"
)

// DTW (Dynamic Time Warping)
//
// Description:
//
//	DTW aligns two sequences that may vary in speed and sums the absolute
//	differences along the cheapest monotone warping path.
//
// Algorithm Outline (rolling array):
//  1. Let n = len(a), m = len(b). Keep two rows prev, curr of length m+1.
//  2. prev[0] = 0, prev[j] = +∞ for j=1..m.
//  3. For i = 1..n: curr[0] = +∞; for j = 1..m with |i−j| ≤ Window:
//     curr[j] = |a[i−1] − b[j−1]| + min(prev[j]+SlopePenalty,
//     curr[j−1]+SlopePenalty, prev[j−1]); swap rows.
//  4. distance = prev[m].
//
// Complexity:
//
//	Time   = O(n·m)
//	Memory = O(m)
//
// DTW(a, b) == DTW(b, a), DTW(a, a) == 0 and every distance is ≥ 0, so the
// pairwise matrix built by FromSeries is a valid dissimilarity.

// SeriesOptions configures DTW and FromSeries.
//
// Fields:
//   - Window:       Sakoe–Chiba half-width; |i−j| ≤ Window. A value of 0
//     (or negative) means no windowing constraint.
//   - SlopePenalty: extra cost for insertion/deletion steps (≥ 0).
//   - Workers:      goroutines used by FromSeries; 0 (or negative) means
//     runtime.GOMAXPROCS(0).
type SeriesOptions struct {
	Window       int
	SlopePenalty float64
	Workers      int
}

// DTW returns the Dynamic Time Warping distance between a and b.
//
// Errors: ErrEmptyInput, ErrNonFinite, ErrNegativeWeight (SlopePenalty),
// ErrBadWindow (Window > 0 and |len(a)−len(b)| > Window).
func DTW(a, b []float64, opts SeriesOptions) (float64, error) {
	if err := checkSeriesOptions(opts); err != nil {
		return 0, fmt.Errorf("DTW: %w", err)
	}
	if err := checkSeries(a); err != nil {
		return 0, fmt.Errorf("DTW: %w", err)
	}
	if err := checkSeries(b); err != nil {
		return 0, fmt.Errorf("DTW: %w", err)
	}
	if err := checkBand(len(a), len(b), opts.Window); err != nil {
		return 0, fmt.Errorf("DTW: %w", err)
	}

	return dtw(a, b, opts.Window, opts.SlopePenalty), nil
}

// dtw is the unchecked rolling-array kernel.
func dtw(a, b []float64, window int, penalty float64) float64 {
	n, m := len(a), len(b)
	inf := math.Inf(1)
	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = inf
	}

	var i, j int
	for i = 1; i <= n; i++ {
		curr[0] = inf
		for j = 1; j <= m; j++ {
			if window > 0 && abs(i-j) > window {
				curr[j] = inf
				continue
			}
			curr[j] = math.Abs(a[i-1]-b[j-1]) + min3(prev[j]+penalty, curr[j-1]+penalty, prev[j-1])
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

func checkSeriesOptions(opts SeriesOptions) error {
	if !isFinite(opts.SlopePenalty) {
		return ErrNonFinite
	}
	if opts.SlopePenalty < 0 {
		return ErrNegativeWeight
	}

	return nil
}

func checkSeries(s []float64) error {
	if len(s) == 0 {
		return ErrEmptyInput
	}
	for _, v := range s {
		if !isFinite(v) {
			return ErrNonFinite
		}
	}

	return nil
}

func checkBand(n, m, window int) error {
	if window > 0 && abs(n-m) > window {
		return fmt.Errorf("lengths %d and %d, window %d: %w", n, m, window, ErrBadWindow)
	}

	return nil
}

// FromSeries returns the n×n matrix of pairwise DTW distances.
// Rows of the upper triangle are distributed over opts.Workers goroutines;
// the first failure or a cancelled ctx stops the remaining work.
//
// Errors: as DTW, plus ErrEmptyInput for no series and ctx.Err().
// Complexity: O(n²·L²) time for series of length L, O(n²) memory.
func FromSeries(ctx context.Context, series [][]float64, opts SeriesOptions) (*matrix.Dense, error) {
	n := len(series)
	if n == 0 {
		return nil, fmt.Errorf("FromSeries: %w", ErrEmptyInput)
	}
	if err := checkSeriesOptions(opts); err != nil {
		return nil, fmt.Errorf("FromSeries: %w", err)
	}
	for i, s := range series {
		if err := checkSeries(s); err != nil {
			return nil, fmt.Errorf("FromSeries: series %d: %w", i, err)
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if err := checkBand(len(series[i]), len(series[j]), opts.Window); err != nil {
				return nil, fmt.Errorf("FromSeries: series %d vs %d: %w", i, j, err)
			}
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n-1; i++ {
		g.Go(func() error {
			// Row i owns cells (i,j) and (j,i) for j > i.
			for j := i + 1; j < n; j++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				d := dtw(series[i], series[j], opts.Window, opts.SlopePenalty)
				out[i][j], out[j][i] = d, d
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("FromSeries: %w", err)
	}

	return matrix.NewDenseFrom(out)
}

// abs returns the absolute value of an int.
func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

// min3 returns the minimum of three float64 values.
func min3(a, b, c float64) float64 {
	if a < b {
		if a < c {
			return a
		}

		return c
	}
	if b < c {
		return b
	}

	return c
}
