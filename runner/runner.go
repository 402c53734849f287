// Package runner drives an anneal.State through a caller-supplied Policy.
//
// The anneal package only knows how to Step, Cool and Restore. This package
// is the caller-side loop around it: settle each temperature to a
// tolerance, inspect every iterate for numerical degeneracy, reheat with a
// gentler cooling ratio when it appears, and cool. RunAll runs independent
// states concurrently.
//
// Every knob comes from Policy; the runner never invents a threshold.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/katalvlaran/detan/anneal"
	"github.com/katalvlaran/detan/matrix"
)

// Result summarises one run.
type Result struct {
	// ID identifies the run in logs and output.
	ID uuid.UUID

	// State is the final state. After a reheat it is a different *State
	// from the one passed to Run. After ErrDegenerate it holds the last
	// checkpoint, which is the last iterate known to be healthy.
	State *anneal.State

	// Rounds is the number of cooling moves in effect at the end.
	Rounds int

	// Steps counts every update applied, retries included.
	Steps int

	// Retries counts reheats.
	Retries int

	// Converged is false if any round ended on MaxInnerSteps rather than Tolerance.
	Converged bool
}

// Option configures Run and RunAll.
type Option func(*options)

type options struct {
	logger *Logger
}

// WithLogger sets the logger. Nil keeps the no-op default.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(opts ...Option) options {
	o := options{logger: NoopLogger()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// Run anneals st under p.
//
// Implementation:
//   - Stage 1: validate inputs (ErrNilState, ErrBadPolicy).
//   - Stage 2: for each of p.CoolingSteps rounds, Step until the max absolute
//     change is below p.Tolerance or p.MaxInnerSteps steps were taken,
//     calling anneal.Inspect after every step; then Cool.
//   - Stage 3: on degeneracy, Reheat from the checkpoint with a gentler
//     ratio and redo the round; after p.MaxRetries reheats, Restore and
//     return ErrDegenerate.
//
// ctx is checked before every step. On any error the partial Result is
// returned alongside it.
func Run(ctx context.Context, st *anneal.State, p Policy, opts ...Option) (*Result, error) {
	if st == nil {
		return nil, fmt.Errorf("Run: %w", ErrNilState)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	o := gatherOptions(opts...)

	res := &Result{ID: uuid.New(), State: st, Converged: true}
	log := o.logger.WithRun(res.ID)
	log.DebugContext(ctx, "run started",
		"items", st.Items(),
		"groups", st.Groups(),
		"ratio", st.Ratio(),
		"temperature", st.Temperature(),
	)

	err := run(ctx, res, p, log)
	log.LogDone(ctx, res, err)

	return res, err
}

func run(ctx context.Context, res *Result, p Policy, log *Logger) error {
	st := res.State
	for res.Rounds < p.CoolingSteps {
		steps, settled, err := settle(ctx, st, p)
		res.Steps += steps

		if errors.Is(err, anneal.ErrNumericalDegeneracy) {
			if res.Retries >= p.MaxRetries {
				st.Restore()
				return fmt.Errorf("Run: round %d: %w: %w", res.Rounds, ErrDegenerate, err)
			}
			next, rerr := st.Reheat(p.gentler(st.Ratio()))
			if rerr != nil {
				return fmt.Errorf("Run: round %d: %w", res.Rounds, rerr)
			}
			res.Retries++
			log.LogReheat(ctx, res.Rounds, res.Retries, next.Ratio(), err)

			// Reheat steps back to the temperature before the latest Cool,
			// if st cooled at all.
			res.Rounds -= st.Cools() - next.Cools()
			st, res.State = next, next
			continue
		}
		if err != nil {
			return fmt.Errorf("Run: round %d: %w", res.Rounds, err)
		}

		if !settled {
			res.Converged = false
		}
		log.LogRound(ctx, res.Rounds, steps, st.Temperature(), settled)
		st.Cool()
		res.Rounds++
	}

	return nil
}

// settle steps st at its current temperature until the change drops below
// p.Tolerance (settled = true) or p.MaxInnerSteps is reached.
func settle(ctx context.Context, st *anneal.State, p Policy) (steps int, settled bool, err error) {
	var (
		diff       float64
		prev, next *matrix.Dense
	)
	for steps < p.MaxInnerSteps {
		if err = ctx.Err(); err != nil {
			return steps, false, err
		}
		prev = st.Assignments()
		if next, err = st.Step(); err != nil {
			return steps, false, err
		}
		steps++

		if err = anneal.Inspect(next, p.DegeneracyTol); err != nil {
			return steps, false, err
		}
		if diff, err = matrix.MaxAbsDiff(prev, next); err != nil {
			return steps, false, err
		}
		if diff < p.Tolerance {
			return steps, true, nil
		}
	}

	return steps, false, nil
}
