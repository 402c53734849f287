package config

import (
	"context"
	"fmt"

	"github.com/katalvlaran/detan/anneal"
	"github.com/katalvlaran/detan/dissim"
	"github.com/katalvlaran/detan/matrix"
	"github.com/katalvlaran/detan/runner"
)

// BuildDistances turns the single distance source into an N×N matrix.
// ctx bounds the Dynamic Time Warping workers of a series source.
func (p *Problem) BuildDistances(ctx context.Context) (*matrix.Dense, error) {
	d := p.Distances
	switch {
	case d.Full != nil:
		return matrix.NewDenseFrom(d.Full)
	case d.Upper != nil:
		return dissim.FromUpperTriangle(d.Upper)
	case d.Vectors != nil:
		metric, err := dissim.ParseMetric(d.Vectors.Metric)
		if err != nil {
			return nil, err
		}
		return dissim.FromVectors(d.Vectors.Points, metric)
	case d.Series != nil:
		return dissim.FromSeries(ctx, d.Series.Data, dissim.SeriesOptions{
			Window:       d.Series.Window,
			SlopePenalty: d.Series.SlopePenalty,
			Workers:      d.Series.Workers,
		})
	case d.Edges != nil:
		edges := make([]dissim.Edge, len(d.Edges.List))
		for i, e := range d.Edges.List {
			edges[i] = dissim.Edge{U: e.U, V: e.V, W: e.W}
		}
		return dissim.FromEdges(d.Edges.Nodes, edges)
	}

	return nil, fmt.Errorf("%w: no distance source", ErrInvalid)
}

// options converts the optional scalar fields to anneal options.
func (p *Problem) options() ([]anneal.Option, error) {
	pot, err := anneal.ParsePotential(p.Potential)
	if err != nil {
		return nil, err
	}
	opts := []anneal.Option{anneal.WithPotential(pot)}
	if p.Temperature > 0 {
		opts = append(opts, anneal.WithTemperature(p.Temperature))
	}

	return opts, nil
}

// Rule builds the distances and binds them to an update rule.
func (p *Problem) Rule(ctx context.Context) (*anneal.Rule, error) {
	d, err := p.BuildDistances(ctx)
	if err != nil {
		return nil, fmt.Errorf("build distances: %w", err)
	}
	if len(p.Labels) > 0 && len(p.Labels) != d.Rows() {
		return nil, fmt.Errorf("%w: %d labels for %d items", ErrInvalid, len(p.Labels), d.Rows())
	}
	opts, err := p.options()
	if err != nil {
		return nil, err
	}

	return anneal.NewRule(d, opts...)
}

// RunnerPolicy returns the policy section as a runner.Policy.
func (p *Problem) RunnerPolicy() runner.Policy {
	return runner.Policy{
		Tolerance:     p.Policy.Tolerance,
		CoolingSteps:  p.Policy.CoolingSteps,
		MaxInnerSteps: p.Policy.MaxInnerSteps,
		DegeneracyTol: p.Policy.DegeneracyTol,
		MaxRetries:    p.Policy.MaxRetries,
		RetryRatio:    p.Policy.RetryRatio,
	}
}

// Jobs builds one runner.Job per restart over a shared rule.
//
// Restarts draw successive RandomAssignments from one generator seeded
// with Seed, so the whole batch is reproducible. An explicit Initial matrix
// replaces the random start and allows a single restart only.
func (p *Problem) Jobs(rule *anneal.Rule, restarts int) ([]runner.Job, error) {
	if restarts < 1 {
		return nil, fmt.Errorf("%w: restarts %d must be >= 1", ErrInvalid, restarts)
	}
	if p.Initial != nil && restarts > 1 {
		return nil, fmt.Errorf("%w: initial assignments allow a single restart", ErrInvalid)
	}
	opts, err := p.options()
	if err != nil {
		return nil, err
	}

	rng := anneal.SeededRand(p.Seed)
	jobs := make([]runner.Job, restarts)
	for i := range jobs {
		var y0 *matrix.Dense
		if p.Initial != nil {
			y0, err = matrix.NewDenseFrom(p.Initial)
		} else {
			y0, err = anneal.RandomAssignments(rule.Items(), p.Groups, p.Jitter, rng)
		}
		if err != nil {
			return nil, fmt.Errorf("restart %d: %w", i, err)
		}
		st, err := anneal.New(rule, y0, p.Ratio, opts...)
		if err != nil {
			return nil, fmt.Errorf("restart %d: %w", i, err)
		}
		jobs[i] = runner.Job{State: st, Policy: p.RunnerPolicy()}
	}

	return jobs, nil
}
