package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Float is the sample precision a pipeline is instantiated with.
// A single pipeline never mixes precisions.
type Float interface {
	~float32 | ~float64
}

// Linspace returns n evenly spaced points from start to end inclusive using gonum.
// A single point is start.
func Linspace(start, end float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, end)
}

// ToFloat64 widens a slice to float64
func ToFloat64[T Float](data []T) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

// FromFloat64 converts a float64 slice to the pipeline precision
func FromFloat64[T Float](data []float64) []T {
	out := make([]T, len(data))
	for i, v := range data {
		out[i] = T(v)
	}
	return out
}

// SumSquares returns the energy Σx² of a slice
func SumSquares(data []float64) float64 {
	return floats.Dot(data, data)
}

// L2Norm returns sqrt(Σx²)
func L2Norm(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Norm(data, 2)
}

// Clamp constrains a value to a range. NaN maps to min.
func Clamp[T Float](value, min, max T) T {
	if !(value >= min) {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// IsFinite reports whether v is neither infinite nor NaN
func IsFinite[T Float](v T) bool {
	f := float64(v)
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
