package windowing

import (
	"math"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
)

// GeneralCosine generates a weighted sum of cosines
//
//	w[n] = Σ a[k]·cos(k·φ[n])
//
// where φ holds evenly spaced phases from -π to π inclusive. A periodic
// window is the symmetric window of size+1 samples with the last sample
// dropped, which is the variant used for spectral analysis.
func GeneralCosine(size int, a []float64, periodic bool) []float64 {
	if size <= 0 {
		return []float64{}
	}

	n := size
	if periodic {
		n = size + 1
	}

	phases := common.Linspace(-math.Pi, math.Pi, n)
	w := make([]float64, n)
	for k, ak := range a {
		for i, phi := range phases {
			w[i] += ak * math.Cos(float64(k)*phi)
		}
	}

	return w[:size]
}

// GeneralHamming is the two term cosine window [alpha, 1-alpha]
func GeneralHamming(size int, alpha float64, periodic bool) []float64 {
	return GeneralCosine(size, []float64{alpha, 1.0 - alpha}, periodic)
}
