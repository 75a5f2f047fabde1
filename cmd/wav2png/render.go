package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
	"github.com/RyanBlaney/sonido-stft/algorithms/spectral"
	"github.com/RyanBlaney/sonido-stft/config"
	"github.com/RyanBlaney/sonido-stft/transcode"
)

// convertFile writes <name>.png next to the input and returns its path
func convertFile(cfg *config.Config, path string) (string, error) {
	data, err := transcode.DecodeWAVFile(path)
	if err != nil {
		return "", err
	}
	data = data.Mono()

	var img *image.Gray
	if cfg.Precision == 64 {
		img, err = renderMel(cfg, data.SampleRate, data.PCM)
	} else {
		img, err = renderMel(cfg, data.SampleRate, data.Float32())
	}
	if err != nil {
		return "", err
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	if err := writePNG(out, img); err != nil {
		return "", err
	}
	return out, nil
}

// renderMel computes the normalized dB mel spectrogram of a mono signal
func renderMel[T common.Float](cfg *config.Config, sampleRate int, signal []T) (*image.Gray, error) {
	mel, err := config.NewMelSpectrogram[T](cfg, sampleRate)
	if err != nil {
		return nil, err
	}

	spec, err := mel.Process(signal)
	if err != nil {
		return nil, err
	}

	spectral.AmplitudeToDB(spec)
	if err := spectral.Normalize(spec, cfg.Scaling.MinLevelDB, cfg.Scaling.RefLevelDB); err != nil {
		return nil, err
	}

	return melImage(spec), nil
}

// melImage maps a (frames x mels) matrix in [0,1] to an image with time on
// the x axis and the lowest mel band on the bottom row. Louder is darker.
func melImage[T common.Float](spec *spectral.Matrix[T]) *image.Gray {
	frames, mels := spec.Dims()
	img := image.NewGray(image.Rect(0, 0, frames, mels))

	for x := range frames {
		for m := range mels {
			v := float64(spec.At(x, m))
			img.SetGray(x, mels-1-m, color.Gray{Y: uint8((1 - v) * 255)})
		}
	}

	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
