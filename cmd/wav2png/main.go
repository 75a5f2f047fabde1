// Command wav2png renders the mel spectrogram of WAV files as grayscale PNG images.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-stft/config"
	"github.com/RyanBlaney/sonido-stft/logging"
)

type options struct {
	configPath string
	nFFT       int
	hop        int
	nMels      int
	fMin       float64
	fMax       float64
	precision  int
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "wav2png [flags] FILE...",
		Short:         "Render mel spectrograms of WAV files as PNG images",
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return run(cfg, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file (default ./sonido.yaml when present)")
	flags.IntVar(&opts.nFFT, "n-fft", config.DefaultNFFT, "FFT size")
	flags.IntVar(&opts.hop, "hop", config.DefaultHopLength, "Hop length in samples")
	flags.IntVarP(&opts.nMels, "mels", "m", config.DefaultNMels, "Number of mel bands")
	flags.Float64Var(&opts.fMin, "f-min", config.DefaultFMin, "Lowest mel frequency in Hz")
	flags.Float64Var(&opts.fMax, "f-max", config.DefaultFMax, "Highest mel frequency in Hz (0 = sample_rate/2)")
	flags.IntVarP(&opts.precision, "precision", "p", config.DefaultPrecision, "Sample precision, 32 or 64")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return rootCmd
}

// load reads the config file and applies only the flags set on the command line
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("n-fft") {
		cfg.STFT.NFFT = o.nFFT
	}
	if flags.Changed("hop") {
		cfg.STFT.HopLength = o.hop
	}
	if flags.Changed("mels") {
		cfg.Mel.NMels = o.nMels
	}
	if flags.Changed("f-min") {
		cfg.Mel.FMin = o.fMin
	}
	if flags.Changed("f-max") {
		cfg.Mel.FMax = o.fMax
	}
	if flags.Changed("precision") {
		cfg.Precision = o.precision
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.SetLevel(level)

	return cfg, nil
}

func run(cfg *config.Config, files []string) error {
	logger := logging.WithFields(logging.Fields{"component": "wav2png"})

	for _, path := range files {
		out, err := convertFile(cfg, path)
		if err != nil {
			logger.Error(err, "Failed to render spectrogram", logging.Fields{"file": path})
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Info("Wrote spectrogram", logging.Fields{"file": path, "output": out})
	}

	return nil
}
