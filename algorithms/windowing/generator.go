package windowing

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/RyanBlaney/sonido-stft/logging"
)

// maxCachedWindowSize bounds cached windows at 1M samples. Larger windows
// are generated on every call.
const maxCachedWindowSize = 1 << 20

// WindowConfig holds window configuration parameters
type WindowConfig struct {
	Type     WindowType `json:"type"`
	Size     int        `json:"size"`
	Periodic bool       `json:"periodic"` // periodic (spectral analysis) vs symmetric (filter design)

	// Terms are the cosine weights used by WindowCosine
	Terms []float64 `json:"terms,omitempty"`
}

// WindowGenerator generates and caches window functions.
// It is safe for concurrent use.
type WindowGenerator struct {
	logger logging.Logger

	mu    sync.RWMutex
	cache map[string]*Window
}

// NewWindowGenerator creates a new window generator
func NewWindowGenerator() *WindowGenerator {
	return &WindowGenerator{
		logger: logging.WithFields(logging.Fields{
			"component": "window_generator",
		}),
		cache: make(map[string]*Window),
	}
}

var defaultGenerator = NewWindowGenerator()

// Get returns the coefficients of a named window from the shared generator.
// The returned slice is a copy and may be modified by the caller.
func Get(t WindowType, size int, periodic bool) ([]float64, error) {
	w, err := defaultGenerator.Generate(&WindowConfig{
		Type:     t,
		Size:     size,
		Periodic: periodic,
	})
	if err != nil {
		return nil, err
	}
	return w.GetCoefficients(), nil
}

// Generate creates a window with the specified configuration.
// Windows are cached and shared, callers must not modify the returned value.
func (wg *WindowGenerator) Generate(config *WindowConfig) (*Window, error) {
	if config == nil {
		return nil, fmt.Errorf("window config is nil")
	}

	logger := wg.logger.WithFields(logging.Fields{
		"function":    "Generate",
		"window_type": config.Type,
		"window_size": config.Size,
	})

	terms, err := wg.validateConfig(config)
	if err != nil {
		logger.Debug("Invalid window configuration", logging.Fields{"error": err.Error()})
		return nil, err
	}

	if config.Size > maxCachedWindowSize {
		logger.Debug("Window too large to cache")
		return newWindow(config.Type, config.Periodic, GeneralCosine(config.Size, terms, config.Periodic)), nil
	}

	key := cacheKey(config.Type, config.Size, config.Periodic, terms)

	wg.mu.RLock()
	cached, ok := wg.cache[key]
	wg.mu.RUnlock()
	if ok {
		return cached, nil
	}

	window := newWindow(config.Type, config.Periodic, GeneralCosine(config.Size, terms, config.Periodic))

	wg.mu.Lock()
	if existing, ok := wg.cache[key]; ok {
		window = existing
	} else {
		wg.cache[key] = window
	}
	wg.mu.Unlock()

	logger.Debug("Window generated", logging.Fields{
		"periodic":      config.Periodic,
		"energy":        window.Energy,
		"coherent_gain": window.CoherentGain,
		"enbw":          window.ENBW,
	})

	return window, nil
}

// CacheSize returns the number of cached windows
func (wg *WindowGenerator) CacheSize() int {
	wg.mu.RLock()
	defer wg.mu.RUnlock()
	return len(wg.cache)
}

// validateConfig validates the configuration and resolves its cosine terms
func (wg *WindowGenerator) validateConfig(config *WindowConfig) ([]float64, error) {
	if config.Size <= 0 {
		return nil, fmt.Errorf("window size must be positive: %d", config.Size)
	}

	if config.Type == WindowCosine {
		if len(config.Terms) == 0 {
			return nil, fmt.Errorf("cosine window requires at least one term")
		}
		return config.Terms, nil
	}

	terms, ok := config.Type.cosineTerms()
	if !ok {
		return nil, fmt.Errorf("unsupported window type: %q", config.Type)
	}
	return terms, nil
}

func cacheKey(t WindowType, size int, periodic bool, terms []float64) string {
	var b strings.Builder
	b.WriteString(string(t))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(size))
	b.WriteByte('/')
	b.WriteString(strconv.FormatBool(periodic))
	if t == WindowCosine {
		for _, a := range terms {
			b.WriteByte('/')
			b.WriteString(strconv.FormatFloat(a, 'g', -1, 64))
		}
	}
	return b.String()
}
