package vectorize

import "math"

// Normalize returns v scaled to unit length in a new slice.
// A zero vector stays a zero vector.
func Normalize(v []float32) []float32 {
	result := make([]float32, len(v))
	if len(v) == 0 {
		return result
	}

	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return result
	}

	magnitude := math.Sqrt(sumSquares)
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}

// Zero returns a zero vector of length dim.
func Zero(dim int) []float32 {
	return make([]float32, dim)
}

// IsZero reports whether every component of v is zero.
func IsZero(v []float32) bool {
	for _, val := range v {
		if val != 0 {
			return false
		}
	}
	return true
}
