package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMatrixLayout(t *testing.T) {
	m, err := NewMatrixFrom(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 6.0, m.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))
	assert.Equal(t, []float64{2, 5}, m.Col(1))

	m.Set(0, 1, 9)
	assert.Equal(t, []float64{1, 9, 3, 4, 5, 6}, m.Data())
}

func TestMatrixRowIsView(t *testing.T) {
	m := NewMatrix[float32](2, 2)
	row := m.Row(1)
	row[0] = 3
	assert.Equal(t, float32(3), m.At(1, 0))

	// capped so appends never spill into the next row
	assert.Equal(t, 2, cap(row))
}

func TestMatrixTranspose(t *testing.T) {
	m, err := NewMatrixFrom(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	tr := m.Transpose()
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, 2, tr.Cols())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Data())
}

func TestMatrixApply(t *testing.T) {
	m, err := NewMatrixFrom(1, 3, []float64{1, 2, 3})
	require.NoError(t, err)

	m.Apply(func(v float64) float64 { return v * 10 })
	assert.Equal(t, []float64{10, 20, 30}, m.Data())
}

func TestMatrixDenseRoundTrip(t *testing.T) {
	m, err := NewMatrixFrom(2, 2, []float32{1, 2, 3, 4})
	require.NoError(t, err)

	d := m.Dense()
	assert.True(t, mat.Equal(d, mat.NewDense(2, 2, []float64{1, 2, 3, 4})))

	back := MatrixFromDense[float32](d.T())
	assert.Equal(t, []float32{1, 3, 2, 4}, back.Data())

	assert.Nil(t, NewMatrix[float64](3, 0).Dense())
}

func TestMatrixErrors(t *testing.T) {
	_, err := NewMatrixFrom(2, 2, []float64{1, 2, 3})
	assert.Error(t, err)

	m := NewMatrix[float64](2, 2)
	assert.Panics(t, func() { m.At(2, 0) })
	assert.Panics(t, func() { m.Set(0, -1, 1) })
	assert.Panics(t, func() { m.Row(5) })
	assert.Panics(t, func() { m.Col(2) })
	assert.Panics(t, func() { NewMatrix[float64](-1, 2) })
}
