package windowing

// BlackmanCoefficients are the cosine weights of the classic Blackman window
var BlackmanCoefficients = []float64{0.42, 0.5, 0.08}

// Blackman generates Blackman window coefficients
func Blackman(size int, periodic bool) []float64 {
	return GeneralCosine(size, BlackmanCoefficients, periodic)
}
