package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadSignal(t *testing.T) {
	signal := []float64{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name string
		mode PadMode
		nFFT int
		hop  int
		want []float64
	}{
		{"truncate is unchanged", PadTruncate, 4, 2, []float64{1, 2, 3, 4, 5, 6, 7}},
		// n_pad = 2 - (7-4)%2 = 1
		{"end", PadEnd, 4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 0}},
		// n_pad = 4 - (7-4)%4 = 1, front 0, end 1
		{"center odd pad", PadCenter, 4, 4, []float64{1, 2, 3, 4, 5, 6, 7, 0}},
		// n_pad = 5 - (7-4)%5 = 2, front 1, end 1
		{"center even pad", PadCenter, 4, 5, []float64{0, 1, 2, 3, 4, 5, 6, 7, 0}},
		// n_pad = 3 - (7-4)%3 = 3, aligned signals still get a full hop
		{"end aligned", PadEnd, 4, 3, []float64{1, 2, 3, 4, 5, 6, 7, 0, 0, 0}},
		{"center aligned", PadCenter, 4, 3, []float64{0, 1, 2, 3, 4, 5, 6, 7, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := padSignal(signal, tt.mode, tt.nFFT, tt.hop)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, signal)
}

func TestPadSignalDoesNotWriteIntoCallerCapacity(t *testing.T) {
	backing := []float64{1, 2, 3, 4, 99, 99}
	signal := backing[:4]

	_, err := padSignal(signal, PadEnd, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 99, 99}, backing)
}

func TestPadSignalTooShort(t *testing.T) {
	for _, mode := range []PadMode{PadEnd, PadCenter} {
		_, err := padSignal([]float32{1, 2}, mode, 4, 1)
		assert.ErrorIs(t, err, ErrSignalTooShort, mode.String())
	}

	got, err := padSignal([]float32{1, 2}, PadTruncate, 4, 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNumFrames(t *testing.T) {
	assert.Equal(t, 7, numFrames(4000, 1024, 441))
	assert.Equal(t, 1, numFrames(10, 10, 2))
	assert.Equal(t, 0, numFrames(9, 10, 4))
	assert.Equal(t, 0, numFrames(0, 10, 4))
}

func TestParsePadMode(t *testing.T) {
	tests := map[string]PadMode{
		"":         PadTruncate,
		"truncate": PadTruncate,
		"END":      PadEnd,
		" center ": PadCenter,
	}
	for in, want := range tests {
		got, err := ParsePadMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePadMode("reflect")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.Equal(t, "center", PadCenter.String())
	assert.Equal(t, "PadMode(9)", PadMode(9).String())
}
