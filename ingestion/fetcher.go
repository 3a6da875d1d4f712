package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent identifies the crawler to the sites it visits.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 Chrome/124 Safari/537.36"

	// DefaultRate is the number of requests per second across all hosts.
	DefaultRate = 2.0

	// DefaultBurst is the number of requests allowed back to back.
	DefaultBurst = 1

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	maxPageBytes = 4 << 20
)

// fetcher downloads pages while honoring robots.txt and a shared rate limit.
type fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	robots    bool
	logger    *slog.Logger

	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData // by scheme://host, nil when unavailable
}

func newFetcher(client *http.Client, perSecond float64, burst int, userAgent string, robots bool, logger *slog.Logger) *fetcher {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &fetcher{
		client:    client,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: userAgent,
		robots:    robots,
		logger:    logger,
		cache:     make(map[string]*robotstxt.RobotsData),
	}
}

// allowed reports whether robots.txt permits fetching u. Missing or
// unreadable robots files allow everything.
func (f *fetcher) allowed(ctx context.Context, u *url.URL) bool {
	if !f.robots {
		return true
	}
	origin := u.Scheme + "://" + u.Host

	f.mu.Lock()
	data, ok := f.cache[origin]
	f.mu.Unlock()

	if !ok {
		data = f.loadRobots(ctx, origin)
		f.mu.Lock()
		f.cache[origin] = data
		f.mu.Unlock()
	}
	if data == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, f.userAgent)
}

func (f *fetcher) loadRobots(ctx context.Context, origin string) *robotstxt.RobotsData {
	resp, err := f.do(ctx, origin+"/robots.txt")
	if err != nil {
		f.logger.Warn("failed to fetch robots.txt, allowing requests", "origin", origin, "err", err)
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		f.logger.Warn("failed to parse robots.txt, allowing requests", "origin", origin, "err", err)
		return nil
	}
	return data
}

func (f *fetcher) do(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	return f.client.Do(req)
}

// get returns the body of rawURL, which must answer 200.
func (f *fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if !f.allowed(ctx, u) {
		return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}

	resp, err := f.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d for %s", ErrUnexpectedStatus, resp.StatusCode, rawURL)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}
