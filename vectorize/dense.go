package vectorize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/toriana04/fraudintel/ai"
	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/storage"
)

const (
	// DefaultBatchSize is the number of texts sent per embedding call.
	DefaultBatchSize = 32

	// DefaultPoolSize bounds concurrent embedding calls.
	DefaultPoolSize = 4

	sampleText = "financial fraud"
)

// Dense vectorizes text with sentence embeddings from an ai.Embedder.
type Dense struct {
	embedder  ai.Embedder
	batchSize int
	poolSize  int
	retry     ai.RetryPolicy
	cache     storage.VectorCache
	namespace string
	logger    *slog.Logger
}

var _ Vectorizer = (*Dense)(nil)

// DenseOption configures a Dense vectorizer.
type DenseOption func(*Dense) error

// WithBatchSize sets the number of texts per embedding call.
func WithBatchSize(size int) DenseOption {
	return func(d *Dense) error {
		if size <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		d.batchSize = size
		return nil
	}
}

// WithPoolSize sets the number of concurrent embedding calls.
func WithPoolSize(size int) DenseOption {
	return func(d *Dense) error {
		if size <= 0 {
			return fmt.Errorf("pool size must be positive, got %d", size)
		}
		d.poolSize = size
		return nil
	}
}

// WithRetryPolicy sets how failed embedding calls are retried.
func WithRetryPolicy(policy ai.RetryPolicy) DenseOption {
	return func(d *Dense) error {
		if policy.MaxAttempts <= 0 {
			return ai.ErrInvalidMaxAttempts
		}
		d.retry = policy
		return nil
	}
}

// WithVectorCache stores and reuses vectors under namespace, which should
// identify the embedding model so that switching models never serves stale
// vectors.
func WithVectorCache(cache storage.VectorCache, namespace string) DenseOption {
	return func(d *Dense) error {
		if cache != nil && namespace == "" {
			return storage.ErrEmptyNamespace
		}
		d.cache = cache
		d.namespace = namespace
		return nil
	}
}

// WithDenseLogger sets a custom logger.
func WithDenseLogger(logger *slog.Logger) DenseOption {
	return func(d *Dense) error {
		if logger != nil {
			d.logger = logger
		}
		return nil
	}
}

// NewDense creates a dense vectorizer over embedder.
func NewDense(embedder ai.Embedder, opts ...DenseOption) (*Dense, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	d := &Dense{
		embedder:  embedder,
		batchSize: DefaultBatchSize,
		poolSize:  DefaultPoolSize,
		retry:     ai.DefaultRetryPolicy(),
		logger:    slog.Default().With("component", "dense-vectorizer"),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Name returns "dense".
func (d *Dense) Name() string {
	return NameDense
}

// Fit embeds a sample text once to confirm the model answers and to learn its
// dimension. The corpus itself is not needed.
func (d *Dense) Fit(ctx context.Context, _ []string) (Encoder, error) {
	var sample []float32
	err := d.retry.Do(ctx, func() error {
		var err error
		sample, err = d.embedder.EmbedText(ctx, sampleText)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("%w: model returned an empty vector", ErrModelUnavailable)
	}

	d.logger.Info("embedding model ready", "dimension", len(sample))
	return &DenseEncoder{owner: d, dimension: len(sample)}, nil
}

// DenseEncoder is a fitted Dense vectorizer.
type DenseEncoder struct {
	owner     *Dense
	dimension int
}

var _ Encoder = (*DenseEncoder)(nil)

// Dimension returns the model's embedding size.
func (e *DenseEncoder) Dimension() int {
	return e.dimension
}

// Encode embeds a single text. Empty text maps to the zero vector without
// calling the model.
func (e *DenseEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EncodeAll(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EncodeAll embeds texts in batches on a worker pool. Cached vectors are
// reused; freshly computed ones are written back to the cache.
func (e *DenseEncoder) EncodeAll(ctx context.Context, texts []string) ([][]float32, error) {
	d := e.owner
	vectors := make([][]float32, len(texts))

	ids := make([]core.ID, len(texts))
	var pending []int
	for i, text := range texts {
		if text == "" {
			vectors[i] = Zero(e.dimension)
			continue
		}
		ids[i] = core.IDFromContent(text)
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return vectors, nil
	}

	pending = e.fromCache(ctx, pending, ids, vectors)
	if len(pending) == 0 {
		return vectors, nil
	}

	if err := e.embed(ctx, texts, pending, vectors); err != nil {
		return nil, err
	}

	if d.cache != nil {
		fresh := make(map[core.ID][]float32, len(pending))
		for _, i := range pending {
			fresh[ids[i]] = vectors[i]
		}
		if err := d.cache.PutVectors(ctx, d.namespace, fresh); err != nil {
			d.logger.Warn("failed to cache vectors", "count", len(fresh), "err", err)
		}
	}
	return vectors, nil
}

// fromCache fills vectors from the cache and returns the indices still missing.
func (e *DenseEncoder) fromCache(ctx context.Context, pending []int, ids []core.ID, vectors [][]float32) []int {
	d := e.owner
	if d.cache == nil {
		return pending
	}

	lookup := make([]core.ID, len(pending))
	for j, i := range pending {
		lookup[j] = ids[i]
	}
	cached, err := d.cache.GetVectors(ctx, d.namespace, lookup)
	if err != nil {
		d.logger.Warn("vector cache lookup failed", "err", err)
		return pending
	}

	missing := pending[:0:0]
	for _, i := range pending {
		if vector, ok := cached[ids[i]]; ok && len(vector) == e.dimension {
			vectors[i] = vector
			continue
		}
		missing = append(missing, i)
	}
	d.logger.Debug("vector cache", "hits", len(pending)-len(missing), "misses", len(missing))
	return missing
}

// embed computes vectors for texts[pending] and stores them in vectors.
func (e *DenseEncoder) embed(ctx context.Context, texts []string, pending []int, vectors [][]float32) error {
	d := e.owner

	pool, err := ants.NewPool(d.poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(pending); start += d.batchSize {
		batch := pending[start:min(start+d.batchSize, len(pending))]
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := e.embedBatch(ctx, texts, batch, vectors); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		d.logger.Error("failed to encode texts", "count", len(pending), "err", firstErr)
		return firstErr
	}
	return nil
}

// embedBatch writes only to vectors[batch...]; batches never overlap.
func (e *DenseEncoder) embedBatch(ctx context.Context, texts []string, batch []int, vectors [][]float32) error {
	d := e.owner

	input := make([]string, len(batch))
	for j, i := range batch {
		input[j] = texts[i]
	}

	var embeddings [][]float32
	err := d.retry.Do(ctx, func() error {
		var err error
		embeddings, err = d.embedder.EmbedTexts(ctx, input)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", d.retry.MaxAttempts, err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("%w: expected %d, got %d", ai.ErrBatchSizeMismatch, len(batch), len(embeddings))
	}

	for j, i := range batch {
		if len(embeddings[j]) != e.dimension {
			return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, e.dimension, len(embeddings[j]))
		}
		vectors[i] = Normalize(embeddings[j])
	}
	return nil
}

// New returns the vectorizer registered under name. embedder is required for
// NameDense and ignored for NameTFIDF.
func New(name string, embedder ai.Embedder, opts ...DenseOption) (Vectorizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameTFIDF, "":
		return NewTFIDF(), nil
	case NameDense:
		dense, err := NewDense(embedder, opts...)
		if err != nil {
			return nil, err
		}
		return dense, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVectorizer, name)
	}
}
