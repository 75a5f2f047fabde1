package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		n          int
		want       []float64
	}{
		{"empty", 0, 1, 0, []float64{}},
		{"negative count", 0, 1, -3, []float64{}},
		{"single point is start", -math.Pi, math.Pi, 1, []float64{-math.Pi}},
		{"two points", -1, 1, 2, []float64{-1, 1}},
		{"five points", 0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linspace(tt.start, tt.end, tt.n)
			require.Len(t, got, len(tt.want))
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestPrecisionConversion(t *testing.T) {
	in := []float32{0.5, -1.25, 3}
	wide := ToFloat64(in)
	assert.Equal(t, []float64{0.5, -1.25, 3}, wide)
	assert.Equal(t, in, FromFloat64[float32](wide))
}

func TestNorms(t *testing.T) {
	data := []float64{3, 4}
	assert.InDelta(t, 25.0, SumSquares(data), 1e-12)
	assert.InDelta(t, 5.0, L2Norm(data), 1e-12)
	assert.Equal(t, 0.0, L2Norm(nil))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.5, 0, 1))
	assert.Equal(t, 1.0, Clamp(7.0, 0, 1))
	assert.Equal(t, 0.25, Clamp(0.25, 0, 1))
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 1))
	assert.Equal(t, float32(1), Clamp(float32(math.Inf(1)), 0, 1))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1.5))
	assert.False(t, IsFinite(math.Inf(-1)))
	assert.False(t, IsFinite(float32(math.NaN())))
}
