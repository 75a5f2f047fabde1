package spectral

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
)

// PadMode selects how a signal is padded before framing
type PadMode int

const (
	// PadTruncate does not pad; a trailing partial frame is dropped
	PadTruncate PadMode = iota
	// PadEnd appends zeros so the last hop is filled
	PadEnd
	// PadCenter splits the same zeros between front and end. This is not
	// the reflect padding of librosa's center=True.
	PadCenter
)

func (p PadMode) String() string {
	switch p {
	case PadTruncate:
		return "truncate"
	case PadEnd:
		return "end"
	case PadCenter:
		return "center"
	default:
		return fmt.Sprintf("PadMode(%d)", int(p))
	}
}

// ParsePadMode parses a pad mode name. Empty means truncate.
func ParsePadMode(name string) (PadMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "truncate":
		return PadTruncate, nil
	case "end":
		return PadEnd, nil
	case "center":
		return PadCenter, nil
	default:
		return PadTruncate, fmt.Errorf("%w: unknown pad mode %q", ErrInvalidConfig, name)
	}
}

// padAmount returns the zeros added by End and Center padding.
// A signal already aligned to the hop still gets a full hop of zeros.
func padAmount(signalLen, nFFT, hop int) int {
	return hop - (signalLen-nFFT)%hop
}

// padSignal pads according to mode. The input slice is never modified;
// End and Center return a new slice.
func padSignal[T common.Float](signal []T, mode PadMode, nFFT, hop int) ([]T, error) {
	switch mode {
	case PadTruncate:
		return signal, nil
	case PadEnd, PadCenter:
	default:
		return nil, fmt.Errorf("%w: unknown pad mode %v", ErrInvalidConfig, mode)
	}

	if len(signal) < nFFT {
		return nil, fmt.Errorf("%w: %s padding needs at least %d samples, got %d",
			ErrSignalTooShort, mode, nFFT, len(signal))
	}

	nPad := padAmount(len(signal), nFFT, hop)
	front := 0
	if mode == PadCenter {
		front = nPad / 2
	}

	padded := make([]T, len(signal)+nPad)
	copy(padded[front:], signal)
	return padded, nil
}

// numFrames returns the number of whole frames in a padded signal
func numFrames(paddedLen, nFFT, hop int) int {
	if paddedLen < nFFT {
		return 0
	}
	return 1 + (paddedLen-nFFT)/hop
}
