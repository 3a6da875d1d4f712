package ollama

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toriana04/fraudintel/ai"
)

func TestNewProvider(t *testing.T) {
	t.Run("forces the ollama provider and strips /v1", func(t *testing.T) {
		cfg := ai.NewConfig(ai.WithHost("http://localhost:11434/v1"))
		provider, err := NewProvider(cfg)
		require.NoError(t, err)
		defer provider.Close()

		assert.Equal(t, ai.ProviderOllama, cfg.Provider)
		assert.Equal(t, "http://localhost:11434", cfg.EmbeddingHost)
		assert.NotNil(t, provider.Embedder())
		assert.NotNil(t, provider.Generator())
	})

	t.Run("invalid configuration", func(t *testing.T) {
		_, err := NewProvider(ai.NewConfig(ai.WithGeneratorModel("")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GeneratorModel")
	})
}
