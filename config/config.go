package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
	"github.com/RyanBlaney/sonido-stft/algorithms/spectral"
	"github.com/RyanBlaney/sonido-stft/algorithms/windowing"
	"github.com/RyanBlaney/sonido-stft/logging"
)

// Config describes a whole spectrogram pipeline, loaded from YAML.
type Config struct {
	LogLevel  string        `yaml:"log_level"` // "debug", "info", "warn", "error"
	Precision int           `yaml:"precision"` // 32 or 64 bit samples
	STFT      STFTConfig    `yaml:"stft"`
	Mel       MelConfig     `yaml:"mel"`
	Scaling   ScalingConfig `yaml:"scaling"`

	MFCC spectral.MFCCOptions `yaml:"mfcc"`
}

// STFTConfig mirrors the spectral.Builder options
type STFTConfig struct {
	NFFT      int    `yaml:"n_fft"`
	HopLength int    `yaml:"hop_length"` // 0 means win_length/4
	WinLength int    `yaml:"win_length"` // 0 means n_fft
	PadMode   string `yaml:"pad_mode"`   // "truncate", "end", "center"
	Window    string `yaml:"window"`     // "hann", "hamming", "blackman", ...
	Normalize bool   `yaml:"normalize"`
	Backend   string `yaml:"backend"` // "gonum" or "go-dsp"
	Workers   int    `yaml:"workers"` // 0 picks a count automatically
}

// MelConfig configures the mel filter bank
type MelConfig struct {
	NMels int     `yaml:"n_mels"`
	FMin  float64 `yaml:"f_min"`
	FMax  float64 `yaml:"f_max"` // 0 means sample_rate/2
}

// ScalingConfig configures the dB normalization to [0,1]
type ScalingConfig struct {
	MinLevelDB float64 `yaml:"min_level_db"`
	RefLevelDB float64 `yaml:"ref_level_db"`
}

// Defaults used when no file or field overrides them
const (
	DefaultPrecision  = 32
	DefaultNFFT       = 2048
	DefaultHopLength  = 441
	DefaultPadMode    = "center"
	DefaultNMels      = 150
	DefaultFMin       = 512.0
	DefaultFMax       = 16000.0
	DefaultMinLevelDB = -80.0
	DefaultRefLevelDB = 20.0
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		Precision: DefaultPrecision,
		STFT: STFTConfig{
			NFFT:      DefaultNFFT,
			HopLength: DefaultHopLength,
			PadMode:   DefaultPadMode,
			Window:    string(windowing.DefaultWindowType),
			Normalize: true,
			Backend:   string(spectral.DefaultBackend),
		},
		Mel: MelConfig{
			NMels: DefaultNMels,
			FMin:  DefaultFMin,
			FMax:  DefaultFMax,
		},
		Scaling: ScalingConfig{
			MinLevelDB: DefaultMinLevelDB,
			RefLevelDB: DefaultRefLevelDB,
		},
		MFCC: spectral.MFCCOptions{
			NumCoefficients: spectral.DefaultNumCoefficients,
			Lifter:          spectral.DefaultLifter,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// An empty path uses "sonido.yaml" when present, otherwise the defaults.
// Environment overrides are applied last, then the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("sonido.yaml"); err == nil {
			path = "sonido.yaml"
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every field without building anything
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Precision != 32 && c.Precision != 64 {
		errs = append(errs, fmt.Errorf("precision must be 32 or 64: %d", c.Precision))
	}

	s := c.STFT
	if s.NFFT <= 0 {
		errs = append(errs, fmt.Errorf("stft.n_fft must be positive: %d", s.NFFT))
	}
	if s.HopLength < 0 {
		errs = append(errs, fmt.Errorf("stft.hop_length must not be negative: %d", s.HopLength))
	}
	if s.WinLength < 0 || s.WinLength > s.NFFT {
		errs = append(errs, fmt.Errorf("stft.win_length must be within [0, n_fft]: %d", s.WinLength))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("stft.workers must not be negative: %d", s.Workers))
	}
	if _, err := spectral.ParsePadMode(s.PadMode); err != nil {
		errs = append(errs, err)
	}
	if wt, err := windowing.ParseWindowType(s.Window); err != nil {
		errs = append(errs, err)
	} else if wt == windowing.WindowCosine {
		errs = append(errs, fmt.Errorf("stft.window %q needs explicit terms and cannot be configured by name", s.Window))
	}
	if _, err := spectral.ParseBackend(s.Backend); err != nil {
		errs = append(errs, err)
	}

	if c.Mel.NMels <= 0 {
		errs = append(errs, fmt.Errorf("mel.n_mels must be positive: %d", c.Mel.NMels))
	}
	if c.Mel.FMin < 0 {
		errs = append(errs, fmt.Errorf("mel.f_min must not be negative: %v", c.Mel.FMin))
	}
	if c.Mel.FMax != 0 && c.Mel.FMax <= c.Mel.FMin {
		errs = append(errs, fmt.Errorf("mel.f_max (%v) must be above f_min (%v)", c.Mel.FMax, c.Mel.FMin))
	}

	if c.MFCC.NumCoefficients < 0 || c.MFCC.NumCoefficients > c.Mel.NMels {
		errs = append(errs, fmt.Errorf("mfcc.num_coefficients must be within [0, n_mels]: %d", c.MFCC.NumCoefficients))
	}
	if c.MFCC.Lifter < 0 {
		errs = append(errs, fmt.Errorf("mfcc.lifter must not be negative: %v", c.MFCC.Lifter))
	}

	if !(c.Scaling.MinLevelDB < 0) {
		errs = append(errs, fmt.Errorf("scaling.min_level_db must be negative: %v", c.Scaling.MinLevelDB))
	}

	return errors.Join(errs...)
}

// MelOptions returns the filter bank bounds. An f_max of 0 leaves the upper
// bound at sample_rate/2.
func (c *Config) MelOptions() spectral.MelOptions {
	opts := spectral.MelOptions{FMin: c.Mel.FMin}
	if c.Mel.FMax != 0 {
		opts = opts.WithFMax(c.Mel.FMax)
	}
	return opts
}

// NewSTFT builds an engine from an STFT section
func NewSTFT[T common.Float](c STFTConfig) (*spectral.STFT[T], error) {
	padMode, err := spectral.ParsePadMode(c.PadMode)
	if err != nil {
		return nil, err
	}
	window, err := windowing.ParseWindowType(c.Window)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", spectral.ErrInvalidConfig, err)
	}
	backend, err := spectral.ParseBackend(c.Backend)
	if err != nil {
		return nil, err
	}

	b := spectral.NewBuilder[T]().
		NFFT(c.NFFT).
		PadMode(padMode).
		WindowNamed(window).
		Normalize(c.Normalize).
		Backend(backend).
		Workers(c.Workers)
	if c.HopLength > 0 {
		b.HopLength(c.HopLength)
	}
	if c.WinLength > 0 {
		b.WinLength(c.WinLength)
	}

	return b.Build()
}

// NewMelSpectrogram builds the full STFT + mel pipeline for a sample rate
func NewMelSpectrogram[T common.Float](c *Config, sampleRate int) (*spectral.MelSpectrogram[T], error) {
	stft, err := NewSTFT[T](c.STFT)
	if err != nil {
		return nil, err
	}
	return spectral.NewMelSpectrogram(stft, sampleRate, c.Mel.NMels, c.MelOptions())
}

// NewMFCC builds the cepstral pipeline on top of NewMelSpectrogram
func NewMFCC[T common.Float](c *Config, sampleRate int) (*spectral.MFCC[T], error) {
	mel, err := NewMelSpectrogram[T](c, sampleRate)
	if err != nil {
		return nil, err
	}
	return spectral.NewMFCC(mel, c.MFCC)
}

// applyEnvOverrides applies SONIDO_* environment variables
func (c *Config) applyEnvOverrides() error {
	if val, ok := os.LookupEnv("SONIDO_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv("SONIDO_BACKEND"); ok {
		c.STFT.Backend = val
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"SONIDO_PRECISION", &c.Precision},
		{"SONIDO_N_FFT", &c.STFT.NFFT},
		{"SONIDO_HOP_LENGTH", &c.STFT.HopLength},
		{"SONIDO_N_MELS", &c.Mel.NMels},
	}
	for _, env := range ints {
		val, ok := os.LookupEnv(env.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s: %w", env.name, err)
		}
		*env.dst = n
	}

	return nil
}
