package windowing

// HannAlpha is the general Hamming alpha of the Hann window
const HannAlpha = 0.5

// Hann generates Hann window coefficients
func Hann(size int, periodic bool) []float64 {
	return GeneralHamming(size, HannAlpha, periodic)
}
