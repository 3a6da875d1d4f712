package vectorize

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toriana04/fraudintel/ai"
	"github.com/toriana04/fraudintel/ai/mock"
	"github.com/toriana04/fraudintel/storage/badger"
)

const testDim = 8

var noRetry = ai.RetryPolicy{MaxAttempts: 1}

func newTestEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = testDim
	return embedder
}

func fitDense(t *testing.T, embedder ai.Embedder, opts ...DenseOption) *DenseEncoder {
	t.Helper()
	dense, err := NewDense(embedder, append([]DenseOption{WithRetryPolicy(noRetry)}, opts...)...)
	require.NoError(t, err)
	encoder, err := dense.Fit(context.Background(), nil)
	require.NoError(t, err)
	return encoder.(*DenseEncoder)
}

func TestNewDense(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewDense(nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("rejects bad options", func(t *testing.T) {
		_, err := NewDense(newTestEmbedder(), WithBatchSize(0))
		assert.Error(t, err)
		_, err = NewDense(newTestEmbedder(), WithPoolSize(-1))
		assert.Error(t, err)
		_, err = NewDense(newTestEmbedder(), WithRetryPolicy(ai.RetryPolicy{}))
		assert.ErrorIs(t, err, ai.ErrInvalidMaxAttempts)
	})

	t.Run("cache needs namespace", func(t *testing.T) {
		cache, err := badger.NewMemoryVectorCache()
		require.NoError(t, err)
		defer cache.Close()

		_, err = NewDense(newTestEmbedder(), WithVectorCache(cache, ""))
		assert.Error(t, err)
	})
}

func TestDense_Fit(t *testing.T) {
	t.Run("learns dimension", func(t *testing.T) {
		encoder := fitDense(t, newTestEmbedder())
		assert.Equal(t, testDim, encoder.Dimension())
	})

	t.Run("model unavailable", func(t *testing.T) {
		embedder := newTestEmbedder().WithEmbedTextFunc(func(context.Context, string) ([]float32, error) {
			return nil, errors.New("connection refused")
		})
		dense, err := NewDense(embedder, WithRetryPolicy(noRetry))
		require.NoError(t, err)

		_, err = dense.Fit(context.Background(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrModelUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("empty sample vector", func(t *testing.T) {
		embedder := newTestEmbedder().WithEmbedTextFunc(func(context.Context, string) ([]float32, error) {
			return []float32{}, nil
		})
		dense, err := NewDense(embedder, WithRetryPolicy(noRetry))
		require.NoError(t, err)

		_, err = dense.Fit(context.Background(), nil)
		assert.ErrorIs(t, err, ErrModelUnavailable)
	})
}

func TestDense_EncodeAll(t *testing.T) {
	ctx := context.Background()

	t.Run("batches and normalizes", func(t *testing.T) {
		embedder := newTestEmbedder()
		encoder := fitDense(t, embedder, WithBatchSize(2), WithPoolSize(2))

		texts := make([]string, 5)
		for i := range texts {
			texts[i] = fmt.Sprintf("summary %d", i)
		}
		vectors, err := encoder.EncodeAll(ctx, texts)
		require.NoError(t, err)
		require.Len(t, vectors, 5)
		for _, v := range vectors {
			assert.Len(t, v, testDim)
			assert.InDelta(t, 1.0, norm(v), 1e-5)
		}

		// one sample plus three batches
		assert.Equal(t, 4, embedder.CallCount())
		assert.Equal(t, 6, embedder.TextCount())
	})

	t.Run("order preserved", func(t *testing.T) {
		encoder := fitDense(t, newTestEmbedder(), WithBatchSize(1), WithPoolSize(4))
		texts := []string{"check washing", "deepfake", "romance scam", "pump and dump"}

		vectors, err := encoder.EncodeAll(ctx, texts)
		require.NoError(t, err)
		for i, text := range texts {
			assert.Equal(t, Normalize(mock.DeterministicVector(text, testDim)), vectors[i])
		}
	})

	t.Run("empty text skips model", func(t *testing.T) {
		embedder := newTestEmbedder()
		encoder := fitDense(t, embedder)
		before := embedder.CallCount()

		vectors, err := encoder.EncodeAll(ctx, []string{"", ""})
		require.NoError(t, err)
		assert.True(t, IsZero(vectors[0]))
		assert.True(t, IsZero(vectors[1]))
		assert.Equal(t, before, embedder.CallCount())
	})

	t.Run("whitespace text is embedded as is", func(t *testing.T) {
		embedder := newTestEmbedder()
		encoder := fitDense(t, embedder)
		before := embedder.TextCount()

		vectors, err := encoder.EncodeAll(ctx, []string{"", "   "})
		require.NoError(t, err)
		assert.True(t, IsZero(vectors[0]))
		assert.Equal(t, Normalize(mock.DeterministicVector("   ", testDim)), vectors[1])
		assert.Equal(t, before+1, embedder.TextCount())
	})

	t.Run("encode is deterministic", func(t *testing.T) {
		encoder := fitDense(t, newTestEmbedder())
		a, err := encoder.Encode(ctx, "elder fraud")
		require.NoError(t, err)
		b, err := encoder.Encode(ctx, "elder fraud")
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.InDelta(t, 1.0, dot(a, a), 1e-5)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		embedder := newTestEmbedder()
		encoder := fitDense(t, embedder)
		embedder.WithEmbedTextsFunc(func(_ context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range out {
				out[i] = []float32{1, 2}
			}
			return out, nil
		})

		_, err := encoder.Encode(ctx, "anything")
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("batch size mismatch", func(t *testing.T) {
		embedder := newTestEmbedder()
		encoder := fitDense(t, embedder)
		embedder.WithEmbedTextsFunc(func(context.Context, []string) ([][]float32, error) {
			return nil, nil
		})

		_, err := encoder.Encode(ctx, "anything")
		assert.ErrorIs(t, err, ai.ErrBatchSizeMismatch)
	})

	t.Run("embedder failure", func(t *testing.T) {
		embedder := newTestEmbedder()
		encoder := fitDense(t, embedder)
		embedder.WithEmbedTextsFunc(func(context.Context, []string) ([][]float32, error) {
			return nil, errors.New("boom")
		})

		_, err := encoder.EncodeAll(ctx, []string{"a text", "another"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestDense_VectorCache(t *testing.T) {
	ctx := context.Background()
	cache, err := badger.NewMemoryVectorCache()
	require.NoError(t, err)
	defer cache.Close()

	texts := []string{"check washing", "voice cloning", "crypto pump and dump"}

	first := newTestEmbedder()
	encoder := fitDense(t, first, WithVectorCache(cache, "all-minilm"))
	want, err := encoder.EncodeAll(ctx, texts)
	require.NoError(t, err)
	assert.Equal(t, 1+len(texts), first.TextCount())

	second := newTestEmbedder()
	encoder = fitDense(t, second, WithVectorCache(cache, "all-minilm"))
	got, err := encoder.EncodeAll(ctx, texts)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	// only the sample embedding reached the model
	assert.Equal(t, 1, second.CallCount())

	third := newTestEmbedder()
	encoder = fitDense(t, third, WithVectorCache(cache, "other-model"))
	_, err = encoder.EncodeAll(ctx, texts)
	require.NoError(t, err)
	assert.Equal(t, 2, third.CallCount())
}

func TestNew(t *testing.T) {
	v, err := New("tfidf", nil)
	require.NoError(t, err)
	assert.Equal(t, NameTFIDF, v.Name())

	v, err = New(" Dense ", newTestEmbedder())
	require.NoError(t, err)
	assert.Equal(t, NameDense, v.Name())

	_, err = New("dense", nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = New("word2vec", nil)
	assert.ErrorIs(t, err, ErrUnknownVectorizer)
}
