package spectral

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
)

// HzToMel converts frequency in Hz to mel scale
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// MelOptions bounds the filter bank in Hz. A nil FMax means sample_rate/2.
type MelOptions struct {
	FMin float64  `json:"f_min" yaml:"f_min"`
	FMax *float64 `json:"f_max,omitempty" yaml:"f_max,omitempty"`
}

// WithFMax returns a copy of the options with an explicit upper bound
func (o MelOptions) WithFMax(hz float64) MelOptions {
	o.FMax = &hz
	return o
}

// melBins returns the n_mels+2 floored FFT bin landmarks
func melBins(sampleRate, nFFT, nMels int, opts MelOptions) []float64 {
	fMax := float64(sampleRate / 2)
	if opts.FMax != nil {
		fMax = *opts.FMax
	}

	points := common.Linspace(HzToMel(opts.FMin), HzToMel(fMax), nMels+2)
	for i, m := range points {
		points[i] = math.Floor(float64(nFFT) * MelToHz(m) / float64(sampleRate))
	}
	return points
}

// MelFilterBank builds the (n_fft/2+1 × n_mels) triangular mel filter bank.
//
// Filter m rises linearly over bins [lo, mid) and falls over [mid, hi) where
// lo, mid, hi are consecutive floored landmarks. A zero width arm contributes
// nothing, so dense mel configurations may produce empty filters.
// No bound is enforced on FMax; landmarks beyond the last bin are clipped.
func MelFilterBank[T common.Float](sampleRate, nFFT, nMels int, opts MelOptions) (*Matrix[T], error) {
	switch {
	case sampleRate <= 0:
		return nil, fmt.Errorf("%w: sample rate must be positive: %d", ErrInvalidConfig, sampleRate)
	case nFFT <= 0:
		return nil, fmt.Errorf("%w: n_fft must be positive: %d", ErrInvalidConfig, nFFT)
	case nMels <= 0:
		return nil, fmt.Errorf("%w: n_mels must be positive: %d", ErrInvalidConfig, nMels)
	}

	bins := melBins(sampleRate, nFFT, nMels, opts)
	fb := NewMatrix[T](nFFT/2+1, nMels)

	for m := 1; m <= nMels; m++ {
		lo, mid, hi := bins[m-1], bins[m], bins[m+1]

		if lo != mid {
			for i := max(lo, 0); i < mid && int(i) < fb.rows; i++ {
				fb.Set(int(i), m-1, T((i-lo)/(mid-lo)))
			}
		}

		if mid != hi {
			for i := max(mid, 0); i < hi && int(i) < fb.rows; i++ {
				fb.Set(int(i), m-1, T((hi-i)/(hi-mid)))
			}
		}
	}

	return fb, nil
}

// ApplyFilterBank projects a (bin × frame) spectrogram onto a (bin × band)
// filter bank, returning spectrogramᵀ · filterbank as (frame × band).
func ApplyFilterBank[T common.Float](spec, fb *Matrix[T]) (*Matrix[T], error) {
	if spec.rows != fb.rows {
		return nil, fmt.Errorf("spectrogram has %d bins but filter bank expects %d", spec.rows, fb.rows)
	}

	if spec.cols == 0 || fb.cols == 0 {
		return NewMatrix[T](spec.cols, fb.cols), nil
	}

	var out mat.Dense
	out.Mul(spec.Dense().T(), fb.Dense())
	return MatrixFromDense[T](&out), nil
}
