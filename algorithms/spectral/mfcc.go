package spectral

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
)

// Defaults for MFCCOptions
const (
	DefaultNumCoefficients = 13
	DefaultLifter          = 22.0
)

// powerFloor is the smallest power converted to dB
const powerFloor = 1e-10

// MFCCOptions configures cepstral coefficients
type MFCCOptions struct {
	NumCoefficients int     `json:"num_coefficients" yaml:"num_coefficients"` // 0 means 13
	Lifter          float64 `json:"lifter" yaml:"lifter"`                     // 0 disables liftering
}

// MFCC computes mel frequency cepstral coefficients on top of a mel spectrogram
type MFCC[T common.Float] struct {
	mel    *MelSpectrogram[T]
	nCoeff int
	lifter float64
	dct    *mat.Dense // (nCoeff × nMels) orthonormal DCT-II
}

// NewMFCC builds the DCT for the mel spectrogram's band count
func NewMFCC[T common.Float](mel *MelSpectrogram[T], opts MFCCOptions) (*MFCC[T], error) {
	if mel == nil {
		return nil, fmt.Errorf("%w: mel spectrogram is required", ErrInvalidConfig)
	}

	nMels := mel.FilterBank().Cols()
	nCoeff := opts.NumCoefficients
	if nCoeff == 0 {
		nCoeff = min(DefaultNumCoefficients, nMels)
	}
	if nCoeff < 0 || nCoeff > nMels {
		return nil, fmt.Errorf("%w: num_coefficients must be within [1, %d]: %d", ErrInvalidConfig, nMels, nCoeff)
	}
	if opts.Lifter < 0 {
		return nil, fmt.Errorf("%w: lifter must not be negative: %v", ErrInvalidConfig, opts.Lifter)
	}

	return &MFCC[T]{
		mel:    mel,
		nCoeff: nCoeff,
		lifter: opts.Lifter,
		dct:    dctMatrix(nCoeff, nMels),
	}, nil
}

// NumCoefficients returns the number of coefficients per frame
func (m *MFCC[T]) NumCoefficients() int { return m.nCoeff }

// Process returns the (frame × coefficient) MFCC matrix of signal
func (m *MFCC[T]) Process(signal []T) (*Matrix[T], error) {
	melSpec, err := m.mel.Process(signal)
	if err != nil {
		return nil, err
	}
	return m.FromMel(melSpec)
}

// FromMel computes coefficients from a (frame × mel) magnitude spectrogram
func (m *MFCC[T]) FromMel(melSpec *Matrix[T]) (*Matrix[T], error) {
	frames, nMels := melSpec.Dims()
	if nMels != m.dct.RawMatrix().Cols {
		return nil, fmt.Errorf("mel band mismatch: got %d, want %d", nMels, m.dct.RawMatrix().Cols)
	}
	if frames == 0 {
		return NewMatrix[T](0, m.nCoeff), nil
	}

	logMel := melSpec.Dense()
	logMel.Apply(func(_, _ int, v float64) float64 {
		return 10 * math.Log10(max(v*v, powerFloor))
	}, logMel)

	var out mat.Dense
	out.Mul(logMel, m.dct.T())

	if m.lifter > 0 {
		for k := range m.nCoeff {
			lift := 1 + (m.lifter/2)*math.Sin(math.Pi*float64(k)/m.lifter)
			for t := range frames {
				out.Set(t, k, out.At(t, k)*lift)
			}
		}
	}

	return MatrixFromDense[T](&out), nil
}

// dctMatrix returns the orthonormal DCT-II basis, one row per coefficient
func dctMatrix(nCoeff, n int) *mat.Dense {
	d := mat.NewDense(nCoeff, n, nil)
	for k := range nCoeff {
		scale := math.Sqrt(2 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1 / float64(n))
		}
		for i := range n {
			d.Set(k, i, scale*math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n)))
		}
	}
	return d
}
