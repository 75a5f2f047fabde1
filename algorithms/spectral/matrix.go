package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
)

// Matrix is a dense row-major matrix in the pipeline precision.
// Spectrograms are (frequency bin × frame), mel filter banks are
// (frequency bin × mel band) and mel spectrograms are (frame × mel band).
type Matrix[T common.Float] struct {
	rows, cols int
	data       []T
}

// NewMatrix allocates a zeroed rows × cols matrix
func NewMatrix[T common.Float](rows, cols int) *Matrix[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("spectral: negative matrix dimension %d×%d", rows, cols))
	}
	return &Matrix[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}
}

// NewMatrixFrom wraps row-major data without copying
func NewMatrixFrom[T common.Float](rows, cols int, data []T) (*Matrix[T], error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("data length %d doesn't match %d×%d", len(data), rows, cols)
	}
	return &Matrix[T]{rows: rows, cols: cols, data: data}, nil
}

// MatrixFromDense converts a gonum matrix to the pipeline precision
func MatrixFromDense[T common.Float](d mat.Matrix) *Matrix[T] {
	r, c := d.Dims()
	m := NewMatrix[T](r, c)
	for i := range r {
		for j := range c {
			m.data[i*c+j] = T(d.At(i, j))
		}
	}
	return m
}

// Dims returns the number of rows and columns
func (m *Matrix[T]) Dims() (int, int) { return m.rows, m.cols }

func (m *Matrix[T]) Rows() int { return m.rows }

func (m *Matrix[T]) Cols() int { return m.cols }

func (m *Matrix[T]) At(i, j int) T {
	return m.data[m.index(i, j)]
}

func (m *Matrix[T]) Set(i, j int, v T) {
	m.data[m.index(i, j)] = v
}

func (m *Matrix[T]) index(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("spectral: index (%d, %d) out of range for %d×%d matrix", i, j, m.rows, m.cols))
	}
	return i*m.cols + j
}

// Row returns row i as a view into the matrix
func (m *Matrix[T]) Row(i int) []T {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("spectral: row %d out of range for %d×%d matrix", i, m.rows, m.cols))
	}
	return m.data[i*m.cols : (i+1)*m.cols : (i+1)*m.cols]
}

// Col returns a copy of column j
func (m *Matrix[T]) Col(j int) []T {
	if j < 0 || j >= m.cols {
		panic(fmt.Sprintf("spectral: column %d out of range for %d×%d matrix", j, m.rows, m.cols))
	}
	col := make([]T, m.rows)
	for i := range m.rows {
		col[i] = m.data[i*m.cols+j]
	}
	return col
}

// Data returns the row-major backing slice
func (m *Matrix[T]) Data() []T { return m.data }

// Apply maps fn over every element in place
func (m *Matrix[T]) Apply(fn func(T) T) {
	for i, v := range m.data {
		m.data[i] = fn(v)
	}
}

// Transpose returns a transposed copy
func (m *Matrix[T]) Transpose() *Matrix[T] {
	t := NewMatrix[T](m.cols, m.rows)
	for i := range m.rows {
		for j := range m.cols {
			t.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return t
}

// Dense converts the matrix to a float64 gonum matrix. Empty matrices give nil.
func (m *Matrix[T]) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		// gonum refuses zero-sized dense matrices
		return nil
	}
	return mat.NewDense(m.rows, m.cols, common.ToFloat64(m.data))
}
