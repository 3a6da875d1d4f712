// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fraudintel wires configuration, model provider, embedding cache,
// corpus, index and searcher into a single Engine.
package fraudintel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toriana04/fraudintel/ai"
	"github.com/toriana04/fraudintel/ai/ollama"
	"github.com/toriana04/fraudintel/ai/openai"
	"github.com/toriana04/fraudintel/classify"
	"github.com/toriana04/fraudintel/config"
	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/corpus"
	"github.com/toriana04/fraudintel/glossary"
	"github.com/toriana04/fraudintel/ingestion"
	"github.com/toriana04/fraudintel/insight"
	"github.com/toriana04/fraudintel/search"
	"github.com/toriana04/fraudintel/session"
	"github.com/toriana04/fraudintel/storage"
	"github.com/toriana04/fraudintel/storage/badger"
	"github.com/toriana04/fraudintel/vectorize"
)

// ErrInsightUnavailable is returned by generator-backed operations when no
// model provider is configured.
var ErrInsightUnavailable = errors.New("insight features need a configured model provider")

// Engine is the loaded corpus together with everything needed to query it.
type Engine struct {
	cfg        *config.Config
	classifier *classify.Classifier
	source     corpus.Source
	searcher   *search.Searcher
	provider   ai.AIProvider
	ownsAI     bool
	analyst    *insight.Analyst
	cache      storage.VectorCache
	pool       *pgxpool.Pool
	glossary   *glossary.Glossary
	sessions   *session.Store
	logger     *slog.Logger

	mu     sync.RWMutex
	corpus *corpus.Corpus
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	provider ai.AIProvider
	source   corpus.Source
	logger   *slog.Logger
}

// WithProvider supplies the model provider instead of building one from the
// configuration. The engine does not close it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithSource reads the corpus from src instead of the configured source.
func WithSource(src corpus.Source) Option {
	return func(o *engineOptions) {
		o.source = src
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// Open loads the corpus and builds the search index. Every failure wraps
// core.ErrStartup; nothing can be queried until Open succeeds.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	options := &engineOptions{logger: slog.Default().With("component", "engine")}
	for _, opt := range opts {
		opt(options)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStartup, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Startup.Timeout)
	defer cancel()

	e := &Engine{
		cfg:        cfg,
		classifier: classify.NewDefault(),
		provider:   options.provider,
		glossary:   glossary.Default(),
		sessions:   session.NewStore(session.DefaultHistoryLimit),
		logger:     options.logger,
	}

	if err := e.open(ctx, options); err != nil {
		e.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrStartup, err)
	}
	return e, nil
}

func (e *Engine) open(ctx context.Context, options *engineOptions) error {
	if e.provider == nil && e.cfg.AI.Enabled {
		provider, err := NewProvider(e.cfg.AI.Config())
		if err != nil {
			return err
		}
		e.provider = provider
		e.ownsAI = true
	}
	if e.provider != nil {
		analyst, err := insight.NewAnalyst(e.provider.Generator())
		if err != nil {
			return err
		}
		e.analyst = analyst
	}

	e.source = options.source
	if e.source == nil {
		src, err := e.configuredSource(ctx)
		if err != nil {
			return err
		}
		e.source = src
	}

	vectorizer, err := e.vectorizer()
	if err != nil {
		return err
	}
	searcher, err := search.NewSearcher(vectorizer,
		search.WithRelatedPool(e.cfg.Search.RelatedPool),
		search.WithRelatedLimit(e.cfg.Search.RelatedLimit),
		search.WithSuggestions(e.cfg.Search.Suggestions),
	)
	if err != nil {
		return err
	}
	e.searcher = searcher

	_, err = e.Reload(ctx)
	return err
}

// NewProvider builds the configured openai or ollama provider.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Provider == ai.ProviderOllama {
		return ollama.NewProvider(cfg)
	}
	return openai.NewProvider(cfg)
}

func (e *Engine) configuredSource(ctx context.Context) (corpus.Source, error) {
	c := e.cfg.Corpus
	switch c.Source {
	case config.SourceBlob:
		return &corpus.BlobSource{
			Store: &corpus.BlobStore{
				BaseURL: c.Blob.BaseURL,
				Bucket:  c.Blob.Bucket,
				APIKey:  c.Blob.APIKey,
			},
			Object: c.Blob.Object,
		}, nil
	case config.SourcePostgres:
		pool, err := corpus.NewPool(ctx, c.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", corpus.ErrCorpusUnavailable, err)
		}
		e.pool = pool
		return &corpus.PostgresSource{Pool: pool, Table: c.Postgres.Table}, nil
	default:
		return &corpus.FileSource{Path: c.Path}, nil
	}
}

func (e *Engine) vectorizer() (vectorize.Vectorizer, error) {
	if e.cfg.Vectorizer != vectorize.NameDense {
		return vectorize.New(e.cfg.Vectorizer, nil)
	}
	if e.provider == nil {
		return nil, fmt.Errorf("%w: no model provider", vectorize.ErrModelUnavailable)
	}

	var err error
	if e.cfg.Cache.InMemory {
		e.cache, err = badger.NewMemoryVectorCache()
	} else {
		e.cache, err = badger.NewVectorCache(e.cfg.Cache.VectorPath())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open vector cache: %w", err)
	}
	return vectorize.New(vectorize.NameDense, e.provider.Embedder(),
		vectorize.WithVectorCache(e.cache, e.cfg.AI.EmbeddingModel))
}

// Reload reads the corpus again and rebuilds the index when its content
// changed. It reports whether the previous index was kept.
func (e *Engine) Reload(ctx context.Context) (bool, error) {
	loaded, err := corpus.Load(ctx, e.source, e.classifier)
	if err != nil {
		return false, err
	}
	reused, err := e.searcher.Load(ctx, loaded.Records, loaded.Fingerprint)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	e.corpus = loaded
	e.mu.Unlock()

	e.logger.Info("corpus ready", "source", e.source.Describe(), "records", loaded.Len(),
		"vectorizer", e.cfg.Vectorizer, "reused", reused)
	return reused, nil
}

// Config returns the configuration the engine was opened with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Corpus returns the loaded corpus.
func (e *Engine) Corpus() *corpus.Corpus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.corpus
}

// Records returns the indexed records in row order.
func (e *Engine) Records() []core.ArticleRecord {
	return e.searcher.Index().Records()
}

// Record returns the record at row i.
func (e *Engine) Record(i int) (core.ArticleRecord, error) {
	return e.searcher.Index().Record(i)
}

// Search returns the best match for query and its related articles.
func (e *Engine) Search(ctx context.Context, query string) (core.SearchResult, error) {
	return e.searcher.Search(ctx, query)
}

// Suggest returns up to n titles and keywords similar to query.
func (e *Engine) Suggest(ctx context.Context, query string, n int) ([]string, error) {
	return e.searcher.Suggest(ctx, query, n)
}

// Related returns the articles related to row i.
func (e *Engine) Related(i int) ([]core.ArticleRecord, error) {
	return e.searcher.Related(i)
}

// CategoryOf classifies a summary.
func (e *Engine) CategoryOf(summary string) core.Category {
	return e.classifier.Classify(summary)
}

// Classifier returns the category classifier.
func (e *Engine) Classifier() *classify.Classifier {
	return e.classifier
}

// Comparison is the similarity of two records.
type Comparison struct {
	A     core.ArticleRecord
	B     core.ArticleRecord
	Score float64
}

// Compare scores rows a and b.
func (e *Engine) Compare(ctx context.Context, a, b int) (Comparison, error) {
	idx := e.searcher.Index()
	first, err := idx.Record(a)
	if err != nil {
		return Comparison{}, err
	}
	second, err := idx.Record(b)
	if err != nil {
		return Comparison{}, err
	}
	score, err := e.searcher.Compare(ctx, a, b)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{A: first, B: second, Score: score}, nil
}

// CompareTitles scores the first records titled a and b.
func (e *Engine) CompareTitles(ctx context.Context, a, b string) (Comparison, error) {
	idx := e.searcher.Index()
	if idx == nil {
		return Comparison{}, search.ErrIndexNotLoaded
	}
	i, ok := idx.FindByTitle(a)
	if !ok {
		return Comparison{}, fmt.Errorf("%w: %q", core.ErrRecordNotFound, a)
	}
	j, ok := idx.FindByTitle(b)
	if !ok {
		return Comparison{}, fmt.Errorf("%w: %q", core.ErrRecordNotFound, b)
	}
	return e.Compare(ctx, i, j)
}

// Analyst returns the insight generator.
func (e *Engine) Analyst() (*insight.Analyst, error) {
	if e.analyst == nil {
		return nil, ErrInsightUnavailable
	}
	return e.analyst, nil
}

// Answer is a generated answer and the article it was grounded on.
type Answer struct {
	Text      string
	Grounding *core.BestMatch
}

// Ask answers question using the summary of the best-matching article.
func (e *Engine) Ask(ctx context.Context, question string) (Answer, error) {
	analyst, err := e.Analyst()
	if err != nil {
		return Answer{}, err
	}
	result, err := e.Search(ctx, question)
	if err != nil {
		return Answer{}, err
	}
	if result.Best == nil {
		return Answer{}, fmt.Errorf("%w: empty corpus", core.ErrRecordNotFound)
	}
	text, err := analyst.Answer(ctx, question, result.Best.Record)
	if err != nil {
		return Answer{}, err
	}
	return Answer{Text: text, Grounding: result.Best}, nil
}

// Glossary returns the built-in fraud glossary.
func (e *Engine) Glossary() *glossary.Glossary {
	return e.glossary
}

// Sessions returns the per-session search histories.
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

// NewIngestionPipeline creates a crawler configured from the ingestion
// section. The analyst writes summaries when a provider is configured.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	var enricher ingestion.Enricher
	if e.analyst != nil {
		enricher = e.analyst
	}
	return NewIngestionPipeline(e.cfg, enricher, opts...)
}

// NewIngestionPipeline creates a crawler without loading a corpus, for
// building the first one. enricher may be nil.
func NewIngestionPipeline(cfg *config.Config, enricher ingestion.Enricher, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	c := cfg.Ingestion
	base := []ingestion.Option{
		ingestion.WithPoolSize(c.PoolSize),
		ingestion.WithRate(c.Rate, c.Burst),
		ingestion.WithUserAgent(c.UserAgent),
		ingestion.WithRobots(c.Robots),
	}
	if enricher != nil {
		base = append(base, ingestion.WithEnricher(enricher))
	}
	return ingestion.NewPipeline(append(base, opts...)...)
}

// Close releases the provider, cache and database pool.
func (e *Engine) Close() error {
	var errs []error
	if e.ownsAI && e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("error closing vector cache", "err", err)
			errs = append(errs, err)
		}
	}
	if e.pool != nil {
		e.pool.Close()
	}
	return errors.Join(errs...)
}
