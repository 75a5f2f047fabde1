package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
)

// MelSpectrogram pairs an STFT with a mel filter bank of the same n_fft.
// Like STFT it is immutable and safe for concurrent use.
type MelSpectrogram[T common.Float] struct {
	stft       *STFT[T]
	filterBank *Matrix[T]
	sampleRate int
}

// NewMelSpectrogram builds the filter bank for stft's n_fft
func NewMelSpectrogram[T common.Float](stft *STFT[T], sampleRate, nMels int, opts MelOptions) (*MelSpectrogram[T], error) {
	if stft == nil {
		return nil, fmt.Errorf("%w: stft is nil", ErrInvalidConfig)
	}

	fb, err := MelFilterBank[T](sampleRate, stft.NFFT(), nMels, opts)
	if err != nil {
		return nil, err
	}

	return &MelSpectrogram[T]{
		stft:       stft,
		filterBank: fb,
		sampleRate: sampleRate,
	}, nil
}

// STFT returns the underlying engine
func (m *MelSpectrogram[T]) STFT() *STFT[T] { return m.stft }

// FilterBank returns the (bin × band) filter bank. It must not be modified.
func (m *MelSpectrogram[T]) FilterBank() *Matrix[T] { return m.filterBank }

// SampleRate returns the rate the filter bank was built for
func (m *MelSpectrogram[T]) SampleRate() int { return m.sampleRate }

// Process returns the (frame × mel band) spectrogram of signal
func (m *MelSpectrogram[T]) Process(signal []T) (*Matrix[T], error) {
	spec, err := m.stft.Process(signal)
	if err != nil {
		return nil, err
	}
	return ApplyFilterBank(spec, m.filterBank)
}
