package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-stft/algorithms/common"
)

const (
	// DefaultMinLevelDB is the floor of the range Normalize maps to [0,1]
	DefaultMinLevelDB = -100.0
	// DefaultRefLevelDB is the top of that range
	DefaultRefLevelDB = 0.0
)

// Power squares magnitudes in place
func Power[T common.Float](spec *Matrix[T]) {
	spec.Apply(func(v T) T { return v * v })
}

// AmplitudeToDB converts magnitudes to dB in place with 20·log10.
// Zero becomes -Inf; Normalize clamps it.
func AmplitudeToDB[T common.Float](spec *Matrix[T]) {
	spec.Apply(func(v T) T { return T(20 * math.Log10(float64(v))) })
}

// PowerToDB converts powers to dB in place with 10·log10
func PowerToDB[T common.Float](spec *Matrix[T]) {
	spec.Apply(func(v T) T { return T(10 * math.Log10(float64(v))) })
}

// Normalize maps the dB range [ref+min, ref] linearly onto [0,1] in place,
// clamping values outside it. minLevelDB must be negative. NaN maps to 0.
func Normalize[T common.Float](spec *Matrix[T], minLevelDB, refLevelDB float64) error {
	if !(minLevelDB < 0) {
		return fmt.Errorf("%w: min_level_db must be negative: %v", ErrInvalidConfig, minLevelDB)
	}

	spec.Apply(func(v T) T {
		scaled := (float64(v) - refLevelDB - minLevelDB) / -minLevelDB
		return T(common.Clamp(scaled, 0, 1))
	})
	return nil
}
