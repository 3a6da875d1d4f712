package vectorize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		got := Normalize([]float32{3, 4})
		assert.InDelta(t, 0.6, got[0], 1e-6)
		assert.InDelta(t, 0.8, got[1], 1e-6)
	})

	t.Run("does not modify input", func(t *testing.T) {
		in := []float32{3, 4}
		Normalize(in)
		assert.Equal(t, []float32{3, 4}, in)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		assert.Equal(t, []float32{0, 0, 0}, Normalize([]float32{0, 0, 0}))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Normalize(nil))
	})
}

func TestZeroAndIsZero(t *testing.T) {
	assert.Len(t, Zero(5), 5)
	assert.True(t, IsZero(Zero(5)))
	assert.True(t, IsZero(nil))
	assert.False(t, IsZero([]float32{0, 0.1}))
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
