package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/toriana04/fraudintel/corpus"
)

// TimestampLayout formats the scrape time of undated articles.
const TimestampLayout = "2006-01-02 15:04"

// Stages reported through the progress callback.
const (
	StageDiscover = "discover"
	StageScrape   = "scrape"
	StageEnrich   = "enrich"
)

// Reasons an article can be left out of the output.
const (
	SkipFetch      = "fetch"
	SkipNotFound   = "not_found"
	SkipIrrelevant = "irrelevant"
	SkipShort      = "short_summary"
	SkipDuplicate  = "duplicate"
)

// Progress describes one finished unit of work.
type Progress struct {
	Stage string
	Done  int
	Total int
	URL   string
}

// Report is the outcome of a run.
type Report struct {
	Discovered int                 // Candidate article URLs after discovery
	Articles   []corpus.RawArticle // Output rows in discovery order
	Skipped    map[string]int      // Counts by Skip* reason
}

// Pipeline scrapes fraud articles and turns them into corpus rows.
type Pipeline struct {
	pool     *ants.Pool
	fetcher  *fetcher
	enricher Enricher
	keywords int
	progress func(Progress)
	progMu   sync.Mutex
	now      func() time.Time
	logger   *slog.Logger

	client    *http.Client
	rate      float64
	burst     int
	userAgent string
	robots    bool
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// WithEnricher sets the summary and keyword writer. Without one, summaries
// are body prefixes and keywords are TF-IDF terms.
func WithEnricher(enricher Enricher) Option {
	return func(p *Pipeline) error {
		p.enricher = enricher
		return nil
	}
}

// WithHTTPClient sets the client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) error {
		if client == nil {
			return fmt.Errorf("http client is nil")
		}
		p.client = client
		return nil
	}
}

// WithRate limits requests to perSecond with the given burst. A rate of
// zero or less disables limiting.
func WithRate(perSecond float64, burst int) Option {
	return func(p *Pipeline) error {
		p.rate = perSecond
		p.burst = burst
		return nil
	}
}

// WithUserAgent sets the User-Agent header and the robots.txt agent.
func WithUserAgent(agent string) Option {
	return func(p *Pipeline) error {
		if strings.TrimSpace(agent) != "" {
			p.userAgent = agent
		}
		return nil
	}
}

// WithRobots turns robots.txt checks on or off. Default is on.
func WithRobots(enabled bool) Option {
	return func(p *Pipeline) error {
		p.robots = enabled
		return nil
	}
}

// WithKeywordCount sets how many keywords each article gets.
func WithKeywordCount(n int) Option {
	return func(p *Pipeline) error {
		if n > 0 {
			p.keywords = n
		}
		return nil
	}
}

// WithProgress registers a callback invoked after each unit of work.
// Calls are serialized.
func WithProgress(fn func(Progress)) Option {
	return func(p *Pipeline) error {
		p.progress = fn
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		pool:      pool,
		keywords:  DefaultKeywords,
		now:       time.Now,
		logger:    slog.Default().With("component", "ingestion"),
		client:    &http.Client{Timeout: DefaultTimeout},
		rate:      DefaultRate,
		burst:     DefaultBurst,
		userAgent: DefaultUserAgent,
		robots:    true,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.fetcher = newFetcher(p.client, p.rate, p.burst, p.userAgent, p.robots, p.logger)
	return p, nil
}

// Run discovers, scrapes, filters and enriches articles starting at seeds.
// Per-article failures are counted in the report; only a canceled context
// or a run without seeds returns an error.
func (p *Pipeline) Run(ctx context.Context, seeds Seeds) (*Report, error) {
	if seeds.Empty() {
		return nil, ErrNoSeeds
	}
	report := &Report{Skipped: make(map[string]int)}

	urls := p.discover(ctx, seeds)
	report.Discovered = len(urls)
	p.logger.Info("discovered articles", "count", len(urls))

	scraped := p.scrape(ctx, urls, report)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(scraped) == 0 {
		report.Articles = []corpus.RawArticle{}
		return report, nil
	}

	p.enrich(ctx, scraped)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kept, duplicates, short := dedupe(scraped)
	report.Skipped[SkipDuplicate] += duplicates
	report.Skipped[SkipShort] += short

	report.Articles = make([]corpus.RawArticle, len(kept))
	for i, a := range kept {
		report.Articles[i] = corpus.RawArticle{
			Title:     a.Title,
			URL:       a.URL,
			Summary:   a.Summary,
			Keywords:  strings.Join(a.Keywords, ", "),
			Timestamp: a.Date,
		}
	}
	p.logger.Info("ingestion finished", "articles", len(report.Articles), "skipped", report.Skipped)
	return report, nil
}

// discover returns the article links found on the index pages followed by
// the explicit articles, without duplicates.
func (p *Pipeline) discover(ctx context.Context, seeds Seeds) []string {
	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for i, page := range seeds.IndexPages {
		links, err := p.indexLinks(ctx, page)
		if err != nil {
			p.logger.Warn("failed to read index page", "url", page, "err", err)
		}
		for _, l := range links {
			add(l)
		}
		p.report(Progress{Stage: StageDiscover, Done: i + 1, Total: len(seeds.IndexPages), URL: page})
	}
	for _, a := range seeds.Articles {
		add(strings.TrimSpace(a))
	}
	return urls
}

func (p *Pipeline) indexLinks(ctx context.Context, page string) ([]string, error) {
	base, err := url.Parse(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, page)
	}
	body, err := p.fetcher.get(ctx, page)
	if err != nil {
		return nil, err
	}
	return ExtractLinks(base, body)
}

// scrape fetches and filters urls concurrently. The result keeps the input
// order and holds only fraud-related articles with a real body.
func (p *Pipeline) scrape(ctx context.Context, urls []string, report *Report) []*Article {
	results := make([]*Article, len(urls))
	steps := p.newStepper(StageScrape, len(urls))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	skip := func(reason string) {
		mu.Lock()
		report.Skipped[reason]++
		mu.Unlock()
	}

	for i, u := range urls {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer steps.step(u)

			article, reason := p.scrapeOne(ctx, u)
			if reason != "" {
				skip(reason)
				return
			}
			results[i] = article
		}
		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			p.logger.Error("failed to submit scrape task", "url", u, "err", err)
			skip(SkipFetch)
		}
	}
	wg.Wait()

	kept := make([]*Article, 0, len(results))
	for _, a := range results {
		if a != nil {
			kept = append(kept, a)
		}
	}
	return kept
}

// scrapeOne returns the parsed article, or the reason it was dropped.
func (p *Pipeline) scrapeOne(ctx context.Context, u string) (*Article, string) {
	body, err := p.fetcher.get(ctx, u)
	if err != nil {
		p.logger.Warn("failed to fetch article", "url", u, "err", err)
		return nil, SkipFetch
	}
	article, err := ParseArticle(u, body)
	if err != nil {
		p.logger.Warn("failed to parse article", "url", u, "err", err)
		return nil, SkipFetch
	}
	if LooksLike404(article.Body) {
		p.logger.Debug("dropping error-like page", "url", u, "bodyLength", len(article.Body))
		return nil, SkipNotFound
	}
	if !IsFraudRelated(article.Title) && !IsFraudRelated(article.Body) {
		p.logger.Debug("dropping page not about fraud", "url", u)
		return nil, SkipIrrelevant
	}
	if article.Date == "" {
		article.Date = p.now().Format(TimestampLayout)
	}
	return article, ""
}

// enrich writes summaries and keywords for every article.
func (p *Pipeline) enrich(ctx context.Context, articles []*Article) {
	processors := []processor{
		newSummaryProcessor(p.enricher),
		newKeywordProcessor(p.enricher, articles, p.keywords, p.logger),
	}

	steps := p.newStepper(StageEnrich, len(articles))
	var wg sync.WaitGroup
	for _, a := range articles {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for _, proc := range processors {
				if err := proc.process(ctx, a); err != nil {
					p.logger.Warn("enrichment fell back", "url", a.URL, "err", err)
				}
			}
			steps.step(a.URL)
		}
		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			p.logger.Error("failed to submit enrichment task", "url", a.URL, "err", err)
		}
	}
	wg.Wait()
}

func (p *Pipeline) report(progress Progress) {
	if p.progress == nil {
		return
	}
	p.progMu.Lock()
	defer p.progMu.Unlock()
	p.progress(progress)
}

// stepper counts finished tasks of one stage so progress is reported with
// strictly increasing Done values.
type stepper struct {
	p     *Pipeline
	stage string
	total int

	mu   sync.Mutex
	done int
}

func (p *Pipeline) newStepper(stage string, total int) *stepper {
	return &stepper{p: p, stage: stage, total: total}
}

func (s *stepper) step(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done++
	s.p.report(Progress{Stage: s.stage, Done: s.done, Total: s.total, URL: u})
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
