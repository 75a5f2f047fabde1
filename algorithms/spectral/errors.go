package spectral

import "errors"

var (
	// ErrInvalidConfig is wrapped by every configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSignalTooShort is returned when End or Center padding gets a signal shorter than n_fft
	ErrSignalTooShort = errors.New("signal shorter than n_fft")
)
