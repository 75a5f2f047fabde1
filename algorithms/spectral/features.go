package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
)

// flatnessFloor keeps log() finite for silent bins
const flatnessFloor = 1e-10

// DefaultRolloffThreshold is the energy fraction used by SpectralRolloff
const DefaultRolloffThreshold = 0.85

// FFTFrequencies returns the center frequency k·sr/nFFT in Hz of each of the
// nFFT/2+1 bins of a spectrogram. For odd nFFT the last bin lies below sr/2.
func FFTFrequencies(sampleRate, nFFT int) []float64 {
	freqs := make([]float64, nFFT/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(nFFT)
	}
	return freqs
}

// frames calls fn with each column of a (bin × frame) spectrogram in float64
func frames[T common.Float](spec *Matrix[T], fn func(frame int, col []float64)) {
	for j := range spec.Cols() {
		fn(j, common.ToFloat64(spec.Col(j)))
	}
}


// SpectralCentroid returns the magnitude weighted mean frequency of each frame.
// Silent frames give 0. The spectrogram must hold the nFFT/2+1 bins STFT
// produced with the same nFFT.
func SpectralCentroid[T common.Float](spec *Matrix[T], sampleRate, nFFT int) []float64 {
	freqs := FFTFrequencies(sampleRate, nFFT)
	out := make([]float64, spec.Cols())

	frames(spec, func(j int, col []float64) {
		if total := floats.Sum(col); total > 0 {
			out[j] = floats.Dot(freqs, col) / total
		}
	})
	return out
}

// SpectralBandwidth returns the magnitude weighted standard deviation of
// frequency around each frame's centroid.
func SpectralBandwidth[T common.Float](spec *Matrix[T], sampleRate, nFFT int) []float64 {
	freqs := FFTFrequencies(sampleRate, nFFT)
	centroids := SpectralCentroid(spec, sampleRate, nFFT)
	out := make([]float64, spec.Cols())

	frames(spec, func(j int, col []float64) {
		total := floats.Sum(col)
		if total <= 0 {
			return
		}
		var acc float64
		for i, mag := range col {
			diff := freqs[i] - centroids[j]
			acc += diff * diff * mag
		}
		out[j] = math.Sqrt(acc / total)
	})
	return out
}

// SpectralRolloff returns, for each frame, the lowest frequency below which
// threshold of the frame's energy lies.
func SpectralRolloff[T common.Float](spec *Matrix[T], sampleRate, nFFT int, threshold float64) []float64 {
	freqs := FFTFrequencies(sampleRate, nFFT)
	out := make([]float64, spec.Cols())

	energy := make([]float64, spec.Rows())
	frames(spec, func(j int, col []float64) {
		floats.MulTo(energy, col, col)
		floats.CumSum(energy, energy)

		total := energy[len(energy)-1]
		if total == 0 {
			return
		}
		target := threshold * total
		for i, e := range energy {
			if e >= target {
				out[j] = freqs[i]
				return
			}
		}
		out[j] = freqs[len(freqs)-1]
	})
	return out
}

// SpectralFlatness returns the ratio of geometric to arithmetic mean of each
// frame, in [0,1]. Noise is close to 1 and pure tones close to 0.
func SpectralFlatness[T common.Float](spec *Matrix[T]) []float64 {
	out := make([]float64, spec.Cols())

	frames(spec, func(j int, col []float64) {
		mean := floats.Sum(col) / float64(len(col))
		if mean <= flatnessFloor {
			return
		}
		var logSum float64
		for _, mag := range col {
			logSum += math.Log(max(mag, flatnessFloor))
		}
		out[j] = min(math.Exp(logSum/float64(len(col)))/mean, 1)
	})
	return out
}

// SpectralCrest returns the peak to RMS ratio of each frame
func SpectralCrest[T common.Float](spec *Matrix[T]) []float64 {
	out := make([]float64, spec.Cols())

	frames(spec, func(j int, col []float64) {
		rms := floats.Norm(col, 2) / math.Sqrt(float64(len(col)))
		if rms == 0 {
			return
		}
		out[j] = floats.Max(col) / rms
	})
	return out
}

// SpectralFlux returns the L2 norm of the positive magnitude change between
// consecutive frames. The result has one value less than there are frames.
func SpectralFlux[T common.Float](spec *Matrix[T]) []float64 {
	if spec.Cols() < 2 {
		return []float64{}
	}

	out := make([]float64, spec.Cols()-1)
	diff := make([]float64, spec.Rows())

	var prev []float64
	frames(spec, func(j int, col []float64) {
		if prev != nil {
			floats.SubTo(diff, col, prev)
			var acc float64
			for _, d := range diff {
				if d > 0 {
					acc += d * d
				}
			}
			out[j-1] = math.Sqrt(acc)
		}
		prev = col
	})
	return out
}
