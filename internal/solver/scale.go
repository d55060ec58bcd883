package solver

import "math"

// ScaleFactor converts decimal inputs with at most two fractional digits to
// exact integers. All comparisons inside the engine happen in this scaled
// space so that a precision of zero means exact integer equality.
const ScaleFactor = 100

// Scale converts a decimal value to its fixed-point integer representation.
// The value is multiplied by ScaleFactor and rounded to the nearest integer
// with ties rounded away from zero (math.Round semantics). The same rule is
// applied to numbers, target, and precision; consistency of the rule across
// the three matters more than the rule itself.
func Scale(value float64) int64 {
	return int64(math.Round(value * ScaleFactor))
}

// Unscale converts a fixed-point integer back to its decimal value. Used for
// presentation only; the engine never compares unscaled values.
func Unscale(scaled int64) float64 {
	return float64(scaled) / ScaleFactor
}
