package windowing

// Rectangular generates a boxcar window, the single term cosine window [1]
func Rectangular(size int) []float64 {
	return GeneralCosine(size, []float64{1.0}, false)
}
