package transcode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-stft/logging"
)

// wavFormatPCM is the RIFF format tag for integer PCM
const wavFormatPCM = 1

// ErrInvalidWAV is returned when the input is not an integer PCM WAV stream
var ErrInvalidWAV = errors.New("invalid wav data")

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // interleaved samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	BitDepth   int           `json:"bit_depth"`
	Duration   time.Duration `json:"duration"`
}

// Frames returns the number of samples per channel
func (a *AudioData) Frames() int {
	if a.Channels <= 0 {
		return 0
	}
	return len(a.PCM) / a.Channels
}

// Mono returns the channel average. Mono input is returned unchanged.
func (a *AudioData) Mono() *AudioData {
	if a.Channels <= 1 {
		return a
	}

	frames := a.Frames()
	mono := make([]float64, frames)
	scale := 1.0 / float64(a.Channels)
	for i := range frames {
		var sum float64
		for ch := range a.Channels {
			sum += a.PCM[i*a.Channels+ch]
		}
		mono[i] = sum * scale
	}

	return &AudioData{
		PCM:        mono,
		SampleRate: a.SampleRate,
		Channels:   1,
		BitDepth:   a.BitDepth,
		Duration:   a.Duration,
	}
}

// Float32 returns a single precision copy of the samples
func (a *AudioData) Float32() []float32 {
	out := make([]float32, len(a.PCM))
	for i, v := range a.PCM {
		out[i] = float32(v)
	}
	return out
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetChannels int           `json:"target_channels" yaml:"target_channels"` // 1 downmixes, 0 keeps the source layout
	MaxDuration    time.Duration `json:"max_duration" yaml:"max_duration"`       // 0 means no limit
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetChannels: 0,
		MaxDuration:    0,
	}
}

// Decoder decodes integer PCM WAV streams into normalized samples
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{"component": "wav_decoder"}),
	}
}

// ValidateConfig validates the decoder configuration
func (d *Decoder) ValidateConfig() error {
	if d.config.TargetChannels < 0 || d.config.TargetChannels > 1 {
		return fmt.Errorf("target channels must be 0 (keep) or 1 (mono): %d", d.config.TargetChannels)
	}
	if d.config.MaxDuration < 0 {
		return fmt.Errorf("max duration must not be negative: %v", d.config.MaxDuration)
	}
	return nil
}

// DecodeFile decodes a WAV file from disk
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	d.logger.Debug("Starting audio file decode", logging.Fields{"filename": filename})

	return d.Decode(f)
}

// Decode reads a whole WAV stream
func (d *Decoder) Decode(r io.ReadSeeker) (*AudioData, error) {
	if err := d.ValidateConfig(); err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrInvalidWAV)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: unsupported format tag %d", ErrInvalidWAV, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read pcm data: %w", err)
	}
	if buf == nil {
		return nil, fmt.Errorf("%w: empty pcm buffer", ErrInvalidWAV)
	}

	channels := int(dec.NumChans)
	sampleRate := int(dec.SampleRate)
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(dec.BitDepth)
	}
	if channels <= 0 || sampleRate <= 0 || bitDepth <= 0 {
		return nil, fmt.Errorf("%w: bad header (channels=%d, sample_rate=%d, bit_depth=%d)",
			ErrInvalidWAV, channels, sampleRate, bitDepth)
	}

	samples := buf.Data
	if limit := d.sampleLimit(sampleRate, channels); limit > 0 && len(samples) > limit {
		samples = samples[:limit]
	}
	samples = samples[:len(samples)-len(samples)%channels]

	// 8 bit PCM is unsigned
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	pcm := make([]float64, len(samples))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range samples {
		pcm[i] = float64(v-offset) * scale
	}

	data := &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
	}
	data.Duration = time.Duration(data.Frames()) * time.Second / time.Duration(sampleRate)

	if d.config.TargetChannels == 1 {
		data = data.Mono()
	}

	d.logger.Debug("Audio decoded", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    channels,
		"bit_depth":   bitDepth,
		"frames":      data.Frames(),
		"duration":    data.Duration.String(),
	})

	return data, nil
}

// sampleLimit returns the interleaved sample cap from MaxDuration, 0 for none
func (d *Decoder) sampleLimit(sampleRate, channels int) int {
	if d.config.MaxDuration <= 0 {
		return 0
	}
	frames := int(d.config.MaxDuration * time.Duration(sampleRate) / time.Second)
	return frames * channels
}

// DecodeWAV decodes a WAV stream with the default configuration
func DecodeWAV(r io.ReadSeeker) (*AudioData, error) {
	return NewDecoder(nil).Decode(r)
}

// DecodeWAVFile decodes a WAV file with the default configuration
func DecodeWAVFile(filename string) (*AudioData, error) {
	return NewDecoder(nil).DecodeFile(filename)
}
