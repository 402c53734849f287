// SPDX-License-Identifier: MIT
package anneal_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/detan/anneal"
	"github.com/katalvlaran/detan/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoRule(t testing.TB, opts ...anneal.Option) *anneal.Rule {
	t.Helper()
	r, err := anneal.NewRule(demoDistances(t), opts...)
	require.NoError(t, err)

	return r
}

// TestNew_Rejects covers construction-time validation.
func TestNew_Rejects(t *testing.T) {
	t.Parallel()
	r := demoRule(t)

	halfFirstRow := mustDense(demoStart).Slices()
	halfFirstRow[0] = []float64{0.25, 0.25}

	tests := []struct {
		name    string
		u       anneal.Updater
		y       matrix.Matrix
		ratio   float64
		opts    []anneal.Option
		want    error
		wantMat error
	}{
		{"nil updater", nil, mustDense(demoStart), 0.5, nil, anneal.ErrNilUpdater, nil},
		{"nil assignments", r, nil, 0.5, nil, anneal.ErrShape, matrix.ErrNilMatrix},
		{"one group", r, mustDense([][]float64{{1}, {1}, {1}, {1}, {1}, {1}}), 0.5, nil, anneal.ErrShape, nil},
		{"wrong N", r, uniform(5, 2), 0.5, nil, anneal.ErrShape, nil},
		{"ratio one", r, mustDense(demoStart), 1.0, nil, anneal.ErrRange, nil},
		{"ratio zero", r, mustDense(demoStart), 0.0, nil, anneal.ErrRange, nil},
		{"ratio nan", r, mustDense(demoStart), math.NaN(), nil, anneal.ErrRange, nil},
		{"zero temperature", r, mustDense(demoStart), 0.5, []anneal.Option{anneal.WithTemperature(0)}, anneal.ErrRange, nil},
		{"inf temperature", r, mustDense(demoStart), 0.5, []anneal.Option{anneal.WithTemperature(math.Inf(1))}, anneal.ErrRange, nil},
		{"first row sums to 0.5", r, mustDense(halfFirstRow), 0.5, nil, anneal.ErrRowStochasticity, matrix.ErrNotRowStochastic},
		{"entry above one", r, mustDense([][]float64{{1.5, -0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}}),
			0.5, nil, anneal.ErrRowStochasticity, nil},
		{"nan entry", r, mustDense([][]float64{{math.NaN(), 1}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}},
			matrix.WithNoValidateNaNInf()), 0.5, nil, anneal.ErrRowStochasticity, matrix.ErrNaNInf},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			st, err := anneal.New(tc.u, tc.y, tc.ratio, tc.opts...)
			require.Nil(t, st)
			require.ErrorIs(t, err, tc.want)
			if tc.wantMat != nil {
				require.ErrorIs(t, err, tc.wantMat)
			}
		})
	}
}

// TestNew_InitialPhase checks the state right after construction.
func TestNew_InitialPhase(t *testing.T) {
	y0 := mustDense(demoStart)
	st, err := anneal.New(demoRule(t), y0, 0.73, anneal.WithTemperature(2))
	require.NoError(t, err)

	assert.Equal(t, 2.0, st.Temperature())
	assert.Equal(t, 2.0, st.CheckpointTemperature())
	assert.Equal(t, 0.73, st.Ratio())
	assert.Equal(t, 0, st.Cools())
	assert.Equal(t, 0, st.Steps())
	assert.Equal(t, 6, st.Items())
	assert.Equal(t, 2, st.Groups())
	assert.Equal(t, demoStart, st.Assignments().Slices())
	assert.Equal(t, demoStart, st.Checkpoint().Slices())

	// The state owns a copy.
	require.NoError(t, y0.Set(0, 0, 0.9))
	v, _ := st.Assignments().At(0, 0)
	assert.Equal(t, 0.51, v)

	// Defaults.
	st, err = anneal.New(demoRule(t), y0Clone(), 0.5)
	require.NoError(t, err)
	assert.Equal(t, anneal.DefaultTemperature, st.Temperature())
}

func y0Clone() *matrix.Dense { return mustDense(demoStart) }

// TestStep_RowStochastic: every iterate along a full schedule stays row-stochastic.
func TestStep_RowStochastic(t *testing.T) {
	for _, pot := range []anneal.Potential{anneal.MeanPotential, anneal.ExactPotential} {
		st, err := anneal.New(demoRule(t, anneal.WithPotential(pot)), y0Clone(), 0.73)
		require.NoError(t, err)

		n := 0
		runSchedule(t, st, 1e-6, 20, 100000, func(y *matrix.Dense) {
			n++
			require.NoError(t, matrix.ValidateRowStochastic(y, 1e-9), "%s step %d", pot, n)
		})
		assert.Equal(t, n, st.Steps())
		assert.Greater(t, n, 20)
	}
}

// TestCool_Monotone: after n cooling moves T == T0·rⁿ, and stepping never changes T.
func TestCool_Monotone(t *testing.T) {
	const (
		t0    = 1.5
		ratio = 0.73
	)
	st, err := anneal.New(demoRule(t), y0Clone(), ratio, anneal.WithTemperature(t0))
	require.NoError(t, err)

	want := t0
	for n := 1; n <= 30; n++ {
		prev := st.Temperature()
		_, err = st.Step()
		require.NoError(t, err)
		assert.Equal(t, prev, st.Temperature(), "Step changed T")

		st.Cool()
		want *= ratio
		assert.Equal(t, want, st.Temperature())
		assert.InEpsilon(t, t0*math.Pow(ratio, float64(n)), st.Temperature(), 1e-12)
		assert.Less(t, st.Temperature(), prev)
		assert.Equal(t, prev, st.CheckpointTemperature())
		assert.Equal(t, n, st.Cools())
	}
}

// TestRestore_ExactRollback: Restore reproduces the checkpoint bit for bit
// and leaves the temperature alone.
func TestRestore_ExactRollback(t *testing.T) {
	st, err := anneal.New(demoRule(t), y0Clone(), 0.73)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = st.Step()
		require.NoError(t, err)
	}
	st.Cool()
	saved := st.Assignments().Slices()
	tAfterCool := st.Temperature()

	for i := 0; i < 7; i++ {
		_, err = st.Step()
		require.NoError(t, err)
	}
	require.NotEqual(t, saved, st.Assignments().Slices())

	st.Restore()
	assert.Equal(t, saved, st.Assignments().Slices())
	assert.Equal(t, saved, st.Checkpoint().Slices())
	assert.Equal(t, tAfterCool, st.Temperature())

	// Restore before any Cool returns to the initial assignments.
	st, err = anneal.New(demoRule(t), y0Clone(), 0.73)
	require.NoError(t, err)
	_, err = st.Step()
	require.NoError(t, err)
	st.Restore()
	assert.Equal(t, demoStart, st.Assignments().Slices())
}

// TestRestore_IsolatedFromCallerWrites: mutating the returned current matrix
// does not corrupt the checkpoint.
func TestRestore_IsolatedFromCallerWrites(t *testing.T) {
	st, err := anneal.New(demoRule(t), y0Clone(), 0.73)
	require.NoError(t, err)
	st.Cool()
	require.NoError(t, st.Assignments().Set(0, 0, 0.99))

	st.Restore()
	v, _ := st.Assignments().At(0, 0)
	assert.Equal(t, 0.51, v)
}

// TestStep_FailureLeavesStateUntouched covers updater errors and wrong shapes.
func TestStep_FailureLeavesStateUntouched(t *testing.T) {
	boom := errors.New("boom")
	failing := anneal.UpdateFunc(func(matrix.Matrix, float64) (*matrix.Dense, error) { return nil, boom })
	wide := anneal.UpdateFunc(func(y matrix.Matrix, _ float64) (*matrix.Dense, error) {
		return matrix.NewDense(y.Rows(), y.Cols()+1)
	})
	empty := anneal.UpdateFunc(func(matrix.Matrix, float64) (*matrix.Dense, error) { return nil, nil })

	tests := []struct {
		name string
		u    anneal.Updater
		want error
	}{
		{"updater error", failing, boom},
		{"wrong shape", wide, anneal.ErrShape},
		{"nil result", empty, anneal.ErrShape},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			st, err := anneal.New(tc.u, y0Clone(), 0.5)
			require.NoError(t, err)
			before := st.Assignments()

			_, err = st.Step()
			require.ErrorIs(t, err, tc.want)
			assert.Same(t, before, st.Assignments())
			assert.Equal(t, 0, st.Steps())
			assert.Equal(t, anneal.DefaultTemperature, st.Temperature())
		})
	}
}

// TestReheat starts a gentler run from the checkpoint without touching the receiver.
func TestReheat(t *testing.T) {
	st, err := anneal.New(demoRule(t), y0Clone(), 0.5)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = st.Step()
		require.NoError(t, err)
		st.Cool()
	}
	_, err = st.Step()
	require.NoError(t, err)

	cur := st.Assignments().Slices()
	checkpoint := st.Checkpoint().Slices()

	re, err := st.Reheat(0.9)
	require.NoError(t, err)
	assert.Equal(t, 0.5, re.Temperature())
	assert.Equal(t, 0.5, re.CheckpointTemperature())
	assert.Equal(t, 0.9, re.Ratio())
	assert.Equal(t, 1, re.Cools())
	assert.Equal(t, 0, re.Steps())
	assert.Equal(t, checkpoint, re.Assignments().Slices())

	// The receiver keeps its ratio, temperature and assignments.
	assert.Equal(t, 0.5, st.Ratio())
	assert.Equal(t, 0.25, st.Temperature())
	assert.Equal(t, cur, st.Assignments().Slices())

	re.Cool()
	assert.Equal(t, 0.5*0.9, re.Temperature())

	_, err = st.Reheat(1)
	require.ErrorIs(t, err, anneal.ErrRange)
}

// TestReheat_Twice reheats a state that never cooled: the temperature and the
// cooling count stay where the first Reheat put them.
func TestReheat_Twice(t *testing.T) {
	st, err := anneal.New(demoRule(t), y0Clone(), 0.5)
	require.NoError(t, err)
	st.Cool()
	st.Cool()
	require.Equal(t, 0.25, st.Temperature())
	require.Equal(t, 2, st.Cools())

	once, err := st.Reheat(0.9)
	require.NoError(t, err)
	assert.Equal(t, 0.5, once.Temperature())
	assert.Equal(t, 1, once.Cools())

	twice, err := once.Reheat(0.95)
	require.NoError(t, err)
	assert.Equal(t, 0.5, twice.Temperature())
	assert.Equal(t, 1, twice.Cools())
	assert.Equal(t, 0.95, twice.Ratio())

	// Once it cools again, Reheat undoes that move only.
	twice.Cool()
	assert.Equal(t, 2, twice.Cools())
	again, err := twice.Reheat(0.9)
	require.NoError(t, err)
	assert.Equal(t, 0.5, again.Temperature())
	assert.Equal(t, 1, again.Cools())

	// A fresh state has nothing to undo.
	fresh, err := anneal.New(demoRule(t), y0Clone(), 0.5)
	require.NoError(t, err)
	re, err := fresh.Reheat(0.9)
	require.NoError(t, err)
	assert.Equal(t, 0, re.Cools())
	assert.Equal(t, anneal.DefaultTemperature, re.Temperature())
}
