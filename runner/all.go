package runner

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/detan/anneal"
)

// Job pairs an independent state with the policy to run it under.
type Job struct {
	State  *anneal.State
	Policy Policy
}

// RunAll runs every job concurrently, at most limit at a time (limit ≤ 0
// means no limit). Jobs do not share state, so one job failing does not
// stop the others.
//
// results[i] belongs to jobs[i] and may be partial or nil when that job
// failed. The returned error joins the per-job errors, each tagged with
// its index; it is nil only if every job succeeded.
func RunAll(ctx context.Context, jobs []Job, limit int, opts ...Option) ([]*Result, error) {
	o := gatherOptions(opts...)
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	// The group only bounds concurrency. Errors go to errs[i] so that a
	// failing job neither cancels nor hides the others; Go funcs return nil.
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			res, err := Run(ctx, job.State, job.Policy, WithLogger(o.logger.WithJob(i)))
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("job %d: %w", i, err)
			}

			return nil
		})
	}
	_ = g.Wait() // always nil, see above

	return results, errors.Join(errs...)
}
