package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMelConversions(t *testing.T) {
	for _, hz := range []float64{0, 1, 50, 700, 1000, 8000, 22050} {
		assert.InDelta(t, hz, MelToHz(HzToMel(hz)), 1e-9*math.Max(1, hz))
	}
	assert.Equal(t, 0.0, HzToMel(0))
	assert.InDelta(t, 2595*math.Log10(2), HzToMel(700), 1e-12)
	assert.InDelta(t, 1000, HzToMel(1000), 0.5)
}

func TestMelBinsLandmarks(t *testing.T) {
	bins := melBins(44100, 1024, 10, MelOptions{})
	require.Len(t, bins, 12)

	assert.Equal(t, 0.0, bins[0])
	for i := 1; i < len(bins); i++ {
		assert.GreaterOrEqual(t, bins[i], bins[i-1])
		assert.Equal(t, math.Floor(bins[i]), bins[i])
	}
	assert.LessOrEqual(t, bins[len(bins)-1], 512.0)
}

func TestMelFilterBankShape(t *testing.T) {
	fb, err := MelFilterBank[float64](44100, 1024, 10, MelOptions{})
	require.NoError(t, err)

	rows, cols := fb.Dims()
	assert.Equal(t, 513, rows)
	assert.Equal(t, 10, cols)
}

func TestMelFilterBankTriangles(t *testing.T) {
	const (
		sampleRate = 22050
		nFFT       = 2048
		nMels      = 40
	)
	fb, err := MelFilterBank[float64](sampleRate, nFFT, nMels, MelOptions{})
	require.NoError(t, err)

	bins := melBins(sampleRate, nFFT, nMels, MelOptions{})

	for m := range nMels {
		col := fb.Col(m)
		lo, mid, hi := int(bins[m]), int(bins[m+1]), int(bins[m+2])

		for i, v := range col {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			if i < lo || i >= hi {
				assert.Zero(t, v, "filter %d bin %d outside [%d, %d)", m, i, lo, hi)
			}
		}

		if mid != hi {
			assert.Equal(t, 1.0, col[mid], "filter %d peak", m)
		}
		if lo != mid {
			assert.Zero(t, col[lo], "filter %d rising edge starts at zero", m)
			for i := lo + 1; i < mid; i++ {
				assert.Greater(t, col[i], col[i-1])
			}
		}
		for i := mid + 1; i < hi; i++ {
			assert.Less(t, col[i], col[i-1])
		}
	}
}

func TestMelFilterBankContiguousSupport(t *testing.T) {
	fb, err := MelFilterBank[float32](16000, 512, 64, MelOptions{FMin: 20}.WithFMax(7600))
	require.NoError(t, err)

	for m := range fb.Cols() {
		col := fb.Col(m)
		first, last := -1, -1
		for i, v := range col {
			if v > 0 {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		if first < 0 {
			continue
		}
		for i := first; i <= last; i++ {
			assert.Greater(t, col[i], float32(0), "filter %d has a gap at bin %d", m, i)
		}
	}
}

func TestMelFilterBankFirstFilterStartsAtZero(t *testing.T) {
	fb, err := MelFilterBank[float64](44100, 2048, 20, MelOptions{})
	require.NoError(t, err)

	bins := melBins(44100, 2048, 20, MelOptions{})
	require.Equal(t, 0.0, bins[0])
	require.Greater(t, bins[1], 0.0)

	// rising edge starts at bin 0 with value 0 and reaches 1 at bins[1]
	assert.Equal(t, 0.0, fb.At(0, 0))
	assert.Equal(t, 1.0, fb.At(int(bins[1]), 0))
	assert.Greater(t, fb.At(1, 0), 0.0)
}

func TestMelFilterBankDegenerateFilters(t *testing.T) {
	// many more bands than bins, so most triangles collapse
	fb, err := MelFilterBank[float64](8000, 32, 40, MelOptions{})
	require.NoError(t, err)

	empty := 0
	for m := range fb.Cols() {
		sum := 0.0
		for _, v := range fb.Col(m) {
			require.False(t, math.IsNaN(v))
			sum += v
		}
		assert.GreaterOrEqual(t, sum, 0.0)
		if sum == 0 {
			empty++
		}
	}
	assert.Positive(t, empty)
}

func TestMelFilterBankFMaxAboveNyquistIsClipped(t *testing.T) {
	fb, err := MelFilterBank[float64](16000, 256, 20, MelOptions{}.WithFMax(12000))
	require.NoError(t, err)
	assert.Equal(t, 129, fb.Rows())
}

func TestMelFilterBankErrors(t *testing.T) {
	_, err := MelFilterBank[float64](0, 1024, 10, MelOptions{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = MelFilterBank[float64](44100, 0, 10, MelOptions{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = MelFilterBank[float64](44100, 1024, 0, MelOptions{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyFilterBank(t *testing.T) {
	// 3 bins × 2 frames
	spec, err := NewMatrixFrom(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	require.NoError(t, err)

	// 3 bins × 2 bands
	fb, err := NewMatrixFrom(3, 2, []float64{
		1, 0,
		0.5, 0.5,
		0, 1,
	})
	require.NoError(t, err)

	mel, err := ApplyFilterBank(spec, fb)
	require.NoError(t, err)

	rows, cols := mel.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.InDeltaSlice(t, []float64{
		1 + 1.5, 1.5 + 5,
		2 + 2, 2 + 6,
	}, mel.Data(), 1e-12)
}

func TestApplyFilterBankErrors(t *testing.T) {
	_, err := ApplyFilterBank(NewMatrix[float64](4, 2), NewMatrix[float64](3, 2))
	assert.Error(t, err)

	empty, err := ApplyFilterBank(NewMatrix[float64](3, 0), NewMatrix[float64](3, 5))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Rows())
	assert.Equal(t, 5, empty.Cols())
}

func TestMelFilterBankExplicitZeroFMax(t *testing.T) {
	fb, err := MelFilterBank[float64](16000, 256, 8, MelOptions{}.WithFMax(0))
	require.NoError(t, err)
	assert.Equal(t, 129, fb.Rows())
	for _, v := range fb.Data() {
		assert.Zero(t, v)
	}

	def, err := MelFilterBank[float64](16000, 256, 8, MelOptions{})
	require.NoError(t, err)
	var total float64
	for _, v := range def.Data() {
		total += v
	}
	assert.Positive(t, total)
}
