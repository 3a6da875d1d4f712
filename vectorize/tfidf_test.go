package vectorize

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fraudCorpus = []string{
	"Check Fraud Rises Check washing and altered checks are increasing. check fraud mail theft",
	"AI Scams Deepfake voice scams target investors. ai deepfake investment scam",
}

func TestTFIDF_Fit(t *testing.T) {
	model := NewTFIDF().FitModel(fraudCorpus)

	vocab := model.Vocabulary()
	assert.Equal(t, "check", vocab[0])
	assert.Equal(t, "fraud", vocab[1])
	assert.Equal(t, model.Dimension(), len(vocab))

	idf, ok := model.IDF("check")
	require.True(t, ok)
	assert.InDelta(t, math.Log(3.0/2.0)+1, idf, 1e-9)

	_, ok = model.IDF("unknown")
	assert.False(t, ok)
}

func TestTFIDF_SharedTermHasLowerIDF(t *testing.T) {
	model := NewTFIDF().FitModel([]string{"fraud alert", "fraud scheme", "ponzi scheme"})

	shared, _ := model.IDF("fraud")
	unique, _ := model.IDF("alert")
	assert.Less(t, shared, unique)
	assert.Greater(t, shared, 0.0)
}

func TestTFIDF_Encode(t *testing.T) {
	ctx := context.Background()
	encoder, err := NewTFIDF().Fit(ctx, fraudCorpus)
	require.NoError(t, err)

	t.Run("unit length", func(t *testing.T) {
		v, err := encoder.Encode(ctx, "check washing scams")
		require.NoError(t, err)
		assert.Len(t, v, encoder.Dimension())
		assert.InDelta(t, 1.0, norm(v), 1e-6)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, _ := encoder.Encode(ctx, "deepfake voice scams")
		b, _ := encoder.Encode(ctx, "deepfake voice scams")
		assert.Equal(t, a, b)
	})

	t.Run("self similarity is one", func(t *testing.T) {
		vectors, err := encoder.EncodeAll(ctx, fraudCorpus)
		require.NoError(t, err)
		for _, v := range vectors {
			assert.InDelta(t, 1.0, dot(v, v), 1e-6)
		}
	})

	t.Run("empty text is zero vector", func(t *testing.T) {
		v, err := encoder.Encode(ctx, "")
		require.NoError(t, err)
		assert.Len(t, v, encoder.Dimension())
		assert.True(t, IsZero(v))
	})

	t.Run("unknown words are zero vector", func(t *testing.T) {
		v, err := encoder.Encode(ctx, "zebra giraffe")
		require.NoError(t, err)
		assert.True(t, IsZero(v))
	})
}

func TestTFIDF_CheckWashingQuery(t *testing.T) {
	ctx := context.Background()
	encoder, err := NewTFIDF().Fit(ctx, fraudCorpus)
	require.NoError(t, err)

	docs, err := encoder.EncodeAll(ctx, fraudCorpus)
	require.NoError(t, err)
	query, err := encoder.Encode(ctx, "check washing scams")
	require.NoError(t, err)

	checkScore := dot(query, docs[0])
	aiScore := dot(query, docs[1])
	assert.Greater(t, checkScore, aiScore)
	assert.InDelta(t, 0.516, checkScore, 0.001)
	assert.InDelta(t, 0.280, aiScore, 0.001)
}

func TestTFIDF_EmptyCorpus(t *testing.T) {
	ctx := context.Background()
	encoder, err := NewTFIDF().Fit(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, encoder.Dimension())

	v, err := encoder.Encode(ctx, "anything")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestTFIDF_TopTerms(t *testing.T) {
	model := NewTFIDF().FitModel([]string{
		"fraud fraud fraud scheme",
		"fraud report",
	})

	t.Run("ranks by weight", func(t *testing.T) {
		terms := model.TopTerms("ponzi ponzi fraud scheme", 2)
		assert.Equal(t, []string{"ponzi", "scheme"}, terms)
	})

	t.Run("fewer terms than n", func(t *testing.T) {
		assert.Equal(t, []string{"report"}, model.TopTerms("the report", 6))
	})

	t.Run("non-positive n", func(t *testing.T) {
		assert.Empty(t, model.TopTerms("fraud", 0))
	})
}
