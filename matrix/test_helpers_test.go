package matrix_test

import "github.com/katalvlaran/detan/matrix"

// sliceMatrix is a minimal foreign Matrix backed by [][]float64.
// It exercises the generic (non-Dense) fallbacks of every kernel.
type sliceMatrix struct {
	a [][]float64
}

var _ matrix.Matrix = sliceMatrix{}

func (m sliceMatrix) Rows() int { return len(m.a) }
func (m sliceMatrix) Cols() int {
	if len(m.a) == 0 {
		return 0
	}

	return len(m.a[0])
}
func (m sliceMatrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.Rows() || j < 0 || j >= m.Cols() {
		return 0, matrix.ErrIndexOutOfBounds
	}

	return m.a[i][j], nil
}
func (m sliceMatrix) Set(i, j int, v float64) error {
	if i < 0 || i >= m.Rows() || j < 0 || j >= m.Cols() {
		return matrix.ErrIndexOutOfBounds
	}
	m.a[i][j] = v

	return nil
}
func (m sliceMatrix) Clone() matrix.Matrix {
	cp := make([][]float64, len(m.a))
	for i := range m.a {
		cp[i] = append([]float64(nil), m.a[i]...)
	}

	return sliceMatrix{a: cp}
}

// mustDense builds a Dense from literal rows or panics; test-only shorthand.
func mustDense(rows [][]float64, opts ...matrix.Option) *matrix.Dense {
	m, err := matrix.NewDenseFrom(rows, opts...)
	if err != nil {
		panic(err)
	}

	return m
}
