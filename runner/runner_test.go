package runner_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/katalvlaran/detan/anneal"
	"github.com/katalvlaran/detan/dissim"
	"github.com/katalvlaran/detan/matrix"
	"github.com/katalvlaran/detan/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoStart = [][]float64{
	{0.51, 0.49},
	{0.49, 0.51},
	{0.52, 0.48},
	{0.47, 0.53},
	{0.505, 0.495},
	{0.495, 0.505},
}

// demoPolicy mirrors the classic six-item schedule.
var demoPolicy = runner.Policy{
	Tolerance:     1e-6,
	CoolingSteps:  20,
	MaxInnerSteps: 100000,
	DegeneracyTol: 1e-12,
	MaxRetries:    3,
	RetryRatio:    0.9,
}

func demoRule(t testing.TB) *anneal.Rule {
	t.Helper()
	d, err := dissim.FromUpperTriangle([][]float64{
		{0.0, 2.1, 0.10, 0.85, 0.2, 0.78},
		{0, 0, 0.92, 0.05, 1.01, 0.01},
		{0, 0, 0, 2.02, 0.15, 0.99},
		{0, 0, 0, 0, 1.30, 0.31},
		{0, 0, 0, 0, 0, 1.05},
		{0, 0, 0, 0, 0, 0},
	})
	require.NoError(t, err)
	r, err := anneal.NewRule(d)
	require.NoError(t, err)

	return r
}

func demoState(t testing.TB, u anneal.Updater) *anneal.State {
	t.Helper()
	y0, err := matrix.NewDenseFrom(demoStart)
	require.NoError(t, err)
	st, err := anneal.New(u, y0, 0.73)
	require.NoError(t, err)

	return st
}

// requireSplit checks the {0,2,4} | {1,3,5} partition by dominant membership.
func requireSplit(t *testing.T, y *matrix.Dense) {
	t.Helper()
	label := make([]bool, y.Rows())
	for i := range label {
		row, err := y.Row(i)
		require.NoError(t, err)
		label[i] = row[1] > row[0]
	}
	assert.Equal(t, label[0], label[2])
	assert.Equal(t, label[0], label[4])
	assert.Equal(t, label[1], label[3])
	assert.Equal(t, label[1], label[5])
	assert.NotEqual(t, label[0], label[1])
}

// TestPolicyValidate covers every field bound.
func TestPolicyValidate(t *testing.T) {
	t.Parallel()
	require.NoError(t, demoPolicy.Validate())

	mutate := func(f func(*runner.Policy)) runner.Policy {
		p := demoPolicy
		f(&p)
		return p
	}
	tests := []struct {
		name string
		p    runner.Policy
	}{
		{"zero tolerance", mutate(func(p *runner.Policy) { p.Tolerance = 0 })},
		{"nan tolerance", mutate(func(p *runner.Policy) { p.Tolerance = math.NaN() })},
		{"negative cooling steps", mutate(func(p *runner.Policy) { p.CoolingSteps = -1 })},
		{"zero inner steps", mutate(func(p *runner.Policy) { p.MaxInnerSteps = 0 })},
		{"degeneracy tol half", mutate(func(p *runner.Policy) { p.DegeneracyTol = 0.5 })},
		{"negative retries", mutate(func(p *runner.Policy) { p.MaxRetries = -1 })},
		{"retry ratio one", mutate(func(p *runner.Policy) { p.RetryRatio = 1 })},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.p.Validate(), runner.ErrBadPolicy)
		})
	}
}

// TestRun_DemoSchedule reproduces the six-item partition.
func TestRun_DemoSchedule(t *testing.T) {
	st := demoState(t, demoRule(t))

	res, err := runner.Run(context.Background(), st, demoPolicy)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Same(t, st, res.State)
	assert.Equal(t, 20, res.Rounds)
	assert.Equal(t, 0, res.Retries)
	assert.True(t, res.Converged)
	assert.Equal(t, st.Steps(), res.Steps)
	assert.InEpsilon(t, 0.0018469587772135185, st.Temperature(), 1e-12)
	requireSplit(t, st.Assignments())
}

// TestRun_RecoversFromInjectedDegeneracy: one NaN iterate triggers a single
// reheat with a gentler ratio, after which the run completes.
func TestRun_RecoversFromInjectedDegeneracy(t *testing.T) {
	rule := demoRule(t)
	calls := 0
	flaky := anneal.UpdateFunc(func(y matrix.Matrix, temp float64) (*matrix.Dense, error) {
		calls++
		next, err := rule.Update(y, temp)
		if err == nil && calls == 5 {
			_ = next.Set(2, 0, math.NaN())
		}
		return next, err
	})
	st := demoState(t, flaky)

	res, err := runner.Run(context.Background(), st, demoPolicy)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Retries)
	assert.Equal(t, 20, res.Rounds)
	assert.NotSame(t, st, res.State)
	assert.InDelta(t, 1-(1-0.73)*0.9, res.State.Ratio(), 1e-15)
	assert.Equal(t, 0.73, st.Ratio(), "original state keeps its ratio")
	assert.Equal(t, calls, res.Steps)
	require.NoError(t, matrix.ValidateRowStochastic(res.State.Assignments(), 1e-9))
	require.NoError(t, anneal.Inspect(res.State.Assignments(), 1e-12))
}

// TestRun_ConsecutiveDegeneracy: two degenerate steps in a row reheat twice
// to the same temperature and still run exactly CoolingSteps cooling moves.
func TestRun_ConsecutiveDegeneracy(t *testing.T) {
	calls := 0
	identity := anneal.UpdateFunc(func(y matrix.Matrix, _ float64) (*matrix.Dense, error) {
		calls++
		next, err := matrix.DenseOf(y, matrix.WithNoValidateNaNInf())
		if err == nil && (calls == 3 || calls == 4) {
			_ = next.Set(0, 0, math.NaN())
		}
		return next, err
	})
	y0, err := matrix.NewDenseFrom(demoStart)
	require.NoError(t, err)
	st, err := anneal.New(identity, y0, 0.5)
	require.NoError(t, err)

	p := demoPolicy
	p.CoolingSteps = 3
	res, err := runner.Run(context.Background(), st, p)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Retries)
	assert.Equal(t, 3, res.Rounds)
	assert.Equal(t, 3, res.State.Cools())
	assert.Equal(t, 6, calls)
	assert.Equal(t, 6, res.Steps)

	// Both reheats land on 0.5; the second retry ratio is gentler still.
	second := 1 - (1-(1-(1-0.5)*0.9))*0.9
	assert.InDelta(t, second, res.State.Ratio(), 1e-15)
	assert.InDelta(t, 0.5*second*second, res.State.Temperature(), 1e-15)
	assert.Equal(t, demoStart, res.State.Assignments().Slices())
}

// TestRun_PersistentDegeneracy gives up after MaxRetries and leaves the last
// healthy assignments in place.
func TestRun_PersistentDegeneracy(t *testing.T) {
	broken := anneal.UpdateFunc(func(y matrix.Matrix, _ float64) (*matrix.Dense, error) {
		out, err := matrix.NewDense(y.Rows(), y.Cols(), matrix.WithNoValidateNaNInf())
		if err != nil {
			return nil, err
		}
		return out, out.Apply(func(int, int, float64) float64 { return math.NaN() })
	})
	st := demoState(t, broken)

	p := demoPolicy
	p.MaxRetries = 2
	res, err := runner.Run(context.Background(), st, p)
	require.ErrorIs(t, err, runner.ErrDegenerate)
	require.ErrorIs(t, err, anneal.ErrNumericalDegeneracy)

	var de *anneal.DegeneracyError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, anneal.NonFinite, de.Kind)
	assert.Equal(t, 2, res.Retries)
	assert.Equal(t, 3, res.Steps)
	assert.Equal(t, demoStart, res.State.Assignments().Slices())
}

// TestRun_StepLimit marks the result unconverged when a round runs out of steps.
func TestRun_StepLimit(t *testing.T) {
	p := demoPolicy
	p.MaxInnerSteps = 1
	p.Tolerance = 1e-300
	p.CoolingSteps = 3

	res, err := runner.Run(context.Background(), demoState(t, demoRule(t)), p)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 3, res.Steps)
	assert.Equal(t, 3, res.Rounds)
}

// TestRun_Rejects covers argument validation and cancellation.
func TestRun_Rejects(t *testing.T) {
	_, err := runner.Run(context.Background(), nil, demoPolicy)
	require.ErrorIs(t, err, runner.ErrNilState)

	_, err = runner.Run(context.Background(), demoState(t, demoRule(t)), runner.Policy{})
	require.ErrorIs(t, err, runner.ErrBadPolicy)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := runner.Run(ctx, demoState(t, demoRule(t)), demoPolicy)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Steps)
}

// TestRunAll runs restarts in parallel and reports failures per job.
func TestRunAll(t *testing.T) {
	rule := demoRule(t)
	var jobs []runner.Job
	for seed := int64(1); seed <= 3; seed++ {
		y0, err := anneal.RandomAssignments(6, 2, 0.1, anneal.SeededRand(seed))
		require.NoError(t, err)
		st, err := anneal.New(rule, y0, 0.73)
		require.NoError(t, err)
		jobs = append(jobs, runner.Job{State: st, Policy: demoPolicy})
	}
	jobs = append(jobs, runner.Job{State: nil, Policy: demoPolicy})

	results, err := runner.RunAll(context.Background(), jobs, 2)
	require.ErrorIs(t, err, runner.ErrNilState)
	assert.Contains(t, err.Error(), "job 3")
	require.Len(t, results, 4)
	assert.Nil(t, results[3])

	ids := map[uuid.UUID]bool{}
	for i := 0; i < 3; i++ {
		require.NotNil(t, results[i])
		assert.Equal(t, 20, results[i].Rounds)
		requireSplit(t, results[i].State.Assignments())
		ids[results[i].ID] = true
	}
	assert.Len(t, ids, 3, "run IDs must be unique")

	results, err = runner.RunAll(context.Background(), []runner.Job{{State: demoState(t, rule), Policy: demoPolicy}}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	requireSplit(t, results[0].State.Assignments())
}

// TestRun_Logging checks the structured records emitted by a run.
func TestRun_Logging(t *testing.T) {
	var buf bytes.Buffer
	log := runner.NewJSONLogger(&buf, slog.LevelDebug)

	p := demoPolicy
	p.CoolingSteps = 2
	res, err := runner.Run(context.Background(), demoState(t, demoRule(t)), p, runner.WithLogger(log))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"run started"`)
	assert.Contains(t, out, `"msg":"round settled"`)
	assert.Contains(t, out, `"msg":"run completed"`)
	assert.Contains(t, out, res.ID.String())

	// Info level drops the per-round debug records.
	buf.Reset()
	log = runner.NewTextLogger(&buf, slog.LevelInfo)
	_, err = runner.Run(context.Background(), demoState(t, demoRule(t)), p, runner.WithLogger(log))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "round settled")
	assert.Contains(t, buf.String(), "run completed")
}
