package windowing

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
)

// WindowType represents different window function types
type WindowType string

const (
	WindowHann           WindowType = "hann"
	WindowHamming        WindowType = "hamming"
	WindowBlackman       WindowType = "blackman"
	WindowBlackmanHarris WindowType = "blackman_harris"
	WindowRectangular    WindowType = "rectangular"
	WindowCosine         WindowType = "cosine" // general cosine with explicit coefficients
)

// DefaultWindowType is used whenever no window is named
const DefaultWindowType = WindowHann

// ParseWindowType parses a window name, case insensitive. Empty means Hann.
func ParseWindowType(name string) (WindowType, error) {
	switch t := WindowType(strings.ToLower(strings.TrimSpace(name))); t {
	case "":
		return DefaultWindowType, nil
	case WindowHann, WindowHamming, WindowBlackman, WindowBlackmanHarris, WindowRectangular, WindowCosine:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported window type: %q", name)
	}
}

// cosineTerms returns the general cosine weights of a named window
func (t WindowType) cosineTerms() ([]float64, bool) {
	switch t {
	case WindowHann:
		return []float64{HannAlpha, 1 - HannAlpha}, true
	case WindowHamming:
		return []float64{HammingAlpha, 1 - HammingAlpha}, true
	case WindowBlackman:
		return BlackmanCoefficients, true
	case WindowBlackmanHarris:
		return BlackmanHarrisCoefficients, true
	case WindowRectangular:
		return []float64{1.0}, true
	default:
		return nil, false
	}
}

// Window represents a window function with its coefficients and metadata
type Window struct {
	Type         WindowType `json:"type"`
	Size         int        `json:"size"`
	Periodic     bool       `json:"periodic"`
	Coefficients []float64  `json:"coefficients"`
	Energy       float64    `json:"energy"`        // Σw²
	CoherentGain float64    `json:"coherent_gain"` // mean of the coefficients
	ENBW         float64    `json:"enbw"`          // equivalent noise bandwidth in bins
}

func newWindow(t WindowType, periodic bool, coefficients []float64) *Window {
	w := &Window{
		Type:         t,
		Size:         len(coefficients),
		Periodic:     periodic,
		Coefficients: coefficients,
	}

	if w.Size == 0 {
		return w
	}

	sum := floats.Sum(coefficients)
	w.Energy = common.SumSquares(coefficients)
	w.CoherentGain = sum / float64(w.Size)
	if sum != 0 {
		w.ENBW = float64(w.Size) * w.Energy / (sum * sum)
	}
	return w
}

// Norm returns the L2 norm of the coefficients
func (w *Window) Norm() float64 {
	return math.Sqrt(w.Energy)
}

// Apply applies the window to a signal
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != w.Size {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.Size)
	}

	windowed := make([]float64, w.Size)
	floats.MulTo(windowed, signal, w.Coefficients)
	return windowed, nil
}

// ApplyInPlace applies the window to a signal in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.Size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.Size)
	}

	floats.Mul(signal, w.Coefficients)
	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (w *Window) GetCoefficients() []float64 {
	coeffs := make([]float64, len(w.Coefficients))
	copy(coeffs, w.Coefficients)
	return coeffs
}
