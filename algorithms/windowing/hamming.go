package windowing

// HammingAlpha is the general Hamming alpha of the Hamming window
const HammingAlpha = 0.54

// Hamming generates Hamming window coefficients
func Hamming(size int, periodic bool) []float64 {
	return GeneralHamming(size, HammingAlpha, periodic)
}
