package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorSerialization(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{name: "empty", vector: []float32{}},
		{name: "unit", vector: []float32{1}},
		{name: "mixed signs", vector: []float32{0.25, -0.5, 0.125, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalVector(MarshalVector(tt.vector))
			require.NoError(t, err)
			assert.Equal(t, tt.vector, decoded)
		})
	}
}

func TestUnmarshalVector_Truncated(t *testing.T) {
	data := MarshalVector([]float32{0.1, 0.2, 0.3})

	_, err := UnmarshalVector(data[:len(data)-2])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalVector(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
