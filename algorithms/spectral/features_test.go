package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// featureFixture is a 5 bin spectrogram (n_fft 8 at 8 kHz, bins 1 kHz apart)
// with a pure bin 2 frame, a flat frame and a silent frame.
func featureFixture(t *testing.T) *Matrix[float64] {
	t.Helper()
	spec, err := NewMatrixFrom(5, 3, []float64{
		0, 1, 0,
		0, 1, 0,
		1, 1, 0,
		0, 1, 0,
		0, 1, 0,
	})
	require.NoError(t, err)
	return spec
}

func TestFFTFrequencies(t *testing.T) {
	assert.Equal(t, []float64{0, 1000, 2000, 3000, 4000}, FFTFrequencies(8000, 8))
	assert.Len(t, FFTFrequencies(44100, 2048), 1025)

	odd := FFTFrequencies(1023, 1023)
	require.Len(t, odd, 512)
	assert.InDelta(t, 511, odd[511], 1e-9)
}

func TestSpectralCentroidOddNFFT(t *testing.T) {
	// n_fft 7 at 7 kHz: bins 0, 1, 2 and 3 kHz, none at Nyquist
	spec, err := NewMatrixFrom(4, 1, []float64{0, 0, 0, 1})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{3000}, SpectralCentroid(spec, 7000, 7), 1e-9)
	assert.Equal(t, []float64{3000}, SpectralRolloff(spec, 7000, 7, DefaultRolloffThreshold))
}

func TestSpectralCentroidAndBandwidth(t *testing.T) {
	spec := featureFixture(t)

	assert.InDeltaSlice(t, []float64{2000, 2000, 0}, SpectralCentroid(spec, 8000, 8), 1e-9)
	assert.InDeltaSlice(t, []float64{0, math.Sqrt(2e6), 0}, SpectralBandwidth(spec, 8000, 8), 1e-9)
}

func TestSpectralRolloff(t *testing.T) {
	spec := featureFixture(t)

	assert.Equal(t, []float64{2000, 4000, 0}, SpectralRolloff(spec, 8000, 8, DefaultRolloffThreshold))
	assert.Equal(t, []float64{2000, 0, 0}, SpectralRolloff(spec, 8000, 8, 0.1))
}

func TestSpectralFlatnessAndCrest(t *testing.T) {
	spec := featureFixture(t)

	flatness := SpectralFlatness(spec)
	assert.InDelta(t, 0, flatness[0], 1e-6)
	assert.InDelta(t, 1, flatness[1], 1e-12)
	assert.Equal(t, 0.0, flatness[2])

	assert.InDeltaSlice(t, []float64{math.Sqrt(5), 1, 0}, SpectralCrest(spec), 1e-12)
}

func TestSpectralFlux(t *testing.T) {
	spec := featureFixture(t)
	assert.InDeltaSlice(t, []float64{2, 0}, SpectralFlux(spec), 1e-12)

	single := NewMatrix[float64](5, 1)
	assert.Empty(t, SpectralFlux(single))
}

func TestSpectralCentroidOfSine(t *testing.T) {
	const (
		sampleRate = 16000
		nFFT       = 1024
		freq       = 2000.0 // exactly bin 128
	)

	signal := make([]float32, 4*nFFT)
	for i := range signal {
		signal[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / sampleRate))
	}

	stft, err := NewBuilder[float32]().NFFT(nFFT).HopLength(nFFT).Logger(quietLogger()).Build()
	require.NoError(t, err)
	spec, err := stft.Process(signal)
	require.NoError(t, err)

	for _, c := range SpectralCentroid(spec, sampleRate, nFFT) {
		assert.InDelta(t, freq, c, 1)
	}
	for _, r := range SpectralRolloff(spec, sampleRate, nFFT, DefaultRolloffThreshold) {
		assert.InDelta(t, freq, r, 2*float64(sampleRate)/nFFT)
	}
}
