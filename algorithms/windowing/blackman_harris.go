package windowing

// BlackmanHarrisCoefficients are the 4-term minimum sidelobe weights
var BlackmanHarrisCoefficients = []float64{0.35875, 0.48829, 0.14128, 0.01168}

// BlackmanHarris generates 4-term Blackman-Harris window coefficients
func BlackmanHarris(size int, periodic bool) []float64 {
	return GeneralCosine(size, BlackmanHarrisCoefficients, periodic)
}
