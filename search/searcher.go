package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/vectorize"
)

// DefaultSuggestions is the number of phrases Suggest returns when asked for none.
const DefaultSuggestions = 5

// Searcher answers queries against the currently loaded Index.
type Searcher struct {
	vectorizer   vectorize.Vectorizer
	index        atomic.Pointer[Index]
	loadMu       sync.Mutex
	relatedPool  int
	relatedLimit int
	suggestions  int
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRelatedPool sets how many nearest rows are checked for keyword overlap.
func WithRelatedPool(n int) Option {
	return func(s *Searcher) error {
		if n <= 0 {
			return fmt.Errorf("related pool must be positive, got %d", n)
		}
		s.relatedPool = n
		return nil
	}
}

// WithRelatedLimit caps the number of related articles per result.
func WithRelatedLimit(n int) Option {
	return func(s *Searcher) error {
		if n < 0 {
			return fmt.Errorf("related limit must not be negative, got %d", n)
		}
		s.relatedLimit = n
		return nil
	}
}

// WithSuggestions sets the default number of suggestions.
func WithSuggestions(n int) Option {
	return func(s *Searcher) error {
		if n <= 0 {
			return fmt.Errorf("suggestions must be positive, got %d", n)
		}
		s.suggestions = n
		return nil
	}
}

// NewSearcher creates a new searcher. Call Load before searching.
func NewSearcher(vectorizer vectorize.Vectorizer, opts ...Option) (*Searcher, error) {
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}

	s := &Searcher{
		vectorizer:   vectorizer,
		relatedPool:  DefaultRelatedPool,
		relatedLimit: DefaultRelatedLimit,
		suggestions:  DefaultSuggestions,
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher", "vectorizer", vectorizer.Name())

	return s, nil
}

// Load makes records searchable. When fingerprint matches the loaded index
// the index is kept and Load reports false; otherwise a new index is built
// and swapped in atomically. Searches in flight finish on the old index.
func (s *Searcher) Load(ctx context.Context, records []core.ArticleRecord, fingerprint core.ID) (bool, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if current := s.index.Load(); current != nil && current.Fingerprint() == fingerprint {
		s.logger.Debug("corpus unchanged, reusing index", "records", current.Len())
		return false, nil
	}

	idx, err := BuildIndex(ctx, s.vectorizer, records, fingerprint)
	if err != nil {
		s.logger.Error("failed to build index", "records", len(records), "err", err)
		return false, err
	}
	s.index.Store(idx)
	s.logger.Info("index built", "records", idx.Len(), "dimension", idx.Encoder().Dimension(), "phrases", len(idx.phrases))
	return true, nil
}

// Index returns the loaded index, or nil before the first Load.
func (s *Searcher) Index() *Index {
	return s.index.Load()
}

func (s *Searcher) current() (*Index, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, ErrIndexNotLoaded
	}
	return idx, nil
}

// Search returns the best matching record for query and its related articles.
func (s *Searcher) Search(ctx context.Context, query string) (core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor is Search with hooks at each stage.
// An empty corpus yields a result without a best match. Blank queries are
// encoded as-is and score 0 against every row, so the first row wins.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) (core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	result := core.SearchResult{Query: query, Related: []core.ArticleRecord{}}

	idx, err := s.current()
	if err != nil {
		return result, err
	}

	vector, err := idx.encoder.Encode(ctx, query)
	if err != nil {
		s.logger.Error("error encoding query", "query", query, "err", err)
		return result, err
	}
	monitor.AfterQueryEncoding(vector)

	hit, ok := Top1(vector, idx.vectors)
	if !ok {
		s.logger.Debug("search over empty corpus", "query", query)
		monitor.Finish(&result)
		return result, nil
	}
	monitor.AfterRanking(hit, idx.Len())

	result.Best = &core.BestMatch{Record: idx.records[hit.Index], Score: hit.Score}
	result.Related = RelatedArticles(idx, hit.Index, s.relatedPool, s.relatedLimit)
	monitor.AfterRelated(result.Related)

	s.logger.Debug("search complete", "query", query, "best", hit.Index, "score", hit.Score, "related", len(result.Related))
	monitor.Finish(&result)
	return result, nil
}

// Related lists the articles related to the record at row i.
func (s *Searcher) Related(i int) ([]core.ArticleRecord, error) {
	idx, err := s.current()
	if err != nil {
		return nil, err
	}
	if _, err := idx.Record(i); err != nil {
		return nil, err
	}
	return RelatedArticles(idx, i, s.relatedPool, s.relatedLimit), nil
}

// Compare returns the cosine similarity of rows a and b.
func (s *Searcher) Compare(_ context.Context, a, b int) (float64, error) {
	idx, err := s.current()
	if err != nil {
		return 0, err
	}
	va, err := idx.Vector(a)
	if err != nil {
		return 0, err
	}
	vb, err := idx.Vector(b)
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(va, vb), nil
}

// Suggest returns the n titles or keywords closest to query. n <= 0 uses
// the configured default.
func (s *Searcher) Suggest(ctx context.Context, query string, n int) ([]string, error) {
	if n <= 0 {
		n = s.suggestions
	}

	idx, err := s.current()
	if err != nil {
		return nil, err
	}

	vector, err := idx.encoder.Encode(ctx, query)
	if err != nil {
		return nil, err
	}

	hits := TopK(vector, idx.phraseVecs, n)
	suggestions := make([]string, len(hits))
	for i, hit := range hits {
		suggestions[i] = idx.phrases[hit.Index]
	}
	return suggestions, nil
}
