package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toriana04/fraudintel/corpus"
)

const checkFraudPage = `<html><body>
<h1>Check Fraud Rising</h1>
<time datetime="2024-03-05T10:00:00Z">March 5, 2024</time>
<article><p>Criminals steal checks from mailboxes and wash them. Check fraud losses are rising fast.</p><p>%s</p></article>
</body></html>`

const elderPage = `<html><body>
<nav>Home | About</nav>
<main><p>Older adults are frequent targets of romance and imposter scams.</p><p>%s</p></main>
</body></html>`

const bulletinPage = `<html><body><h1>Office Closure</h1><article><p>%s</p></article></body></html>`

const stubPage = `<html><body><h1>Fraud Alert</h1><article><p>Fraud alert.</p></article></body></html>`

type crawlSite struct {
	*httptest.Server
	mu        sync.Mutex
	requested []string
}

func (s *crawlSite) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requested...)
}

func newCrawlSite(t *testing.T) *crawlSite {
	t.Helper()
	site := &crawlSite{}
	filler := sentences(5)
	pages := map[string]string{
		"/index": `<html><body>
			<a href="/media-center/check-fraud">Check fraud</a>
			<a href="/investors/insights/elder-scams">Elder scams</a>
			<a href="/media-center/bulletin">Bulletin</a>
			<a href="/enforcement/gone">Gone</a>
			<a href="/enforcement/stub">Stub</a>
			<a href="/private/media-center/secret">Secret</a>
			<a href="/about">About</a>
			<a href="/media-center/check-fraud#more">Check fraud again</a>
		</body></html>`,
		"/media-center/check-fraud":       fmt.Sprintf(checkFraudPage, filler),
		"/media-center/check-fraud-copy":  fmt.Sprintf(checkFraudPage, filler),
		"/investors/insights/elder-scams": fmt.Sprintf(elderPage, filler),
		"/media-center/bulletin":          fmt.Sprintf(bulletinPage, filler),
		"/enforcement/stub":               stubPage,
		"/private/media-center/secret":    fmt.Sprintf(checkFraudPage, filler),
	}

	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.requested = append(site.requested, r.URL.Path)
		site.mu.Unlock()

		if r.URL.Path == "/robots.txt" {
			_, _ = io.WriteString(w, "User-agent: *\nDisallow: /private/\n")
			return
		}
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, page)
	}))
	t.Cleanup(site.Close)
	return site
}

// fakeEnricher summarizes with a body prefix and knows keywords only for
// check fraud articles.
type fakeEnricher struct{}

func (fakeEnricher) Summarize(_ context.Context, body string) (string, error) {
	return "Summary: " + prefix(body, 60), nil
}

func (fakeEnricher) Keywords(_ context.Context, body string, n int) ([]string, error) {
	if strings.Contains(body, "checks") {
		return []string{"check fraud", "mail theft"}, nil
	}
	return nil, errors.New("no keywords")
}

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithRate(0, 0), WithPoolSize(4)}, opts...)
	p, err := NewPipeline(opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	p.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC) }
	return p
}

func TestPipeline_Run(t *testing.T) {
	site := newCrawlSite(t)
	p := newTestPipeline(t, WithEnricher(fakeEnricher{}))

	report, err := p.Run(context.Background(), Seeds{
		IndexPages: []string{site.URL + "/index"},
		Articles:   []string{site.URL + "/media-center/check-fraud-copy"},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, report.Discovered)
	assert.Equal(t, map[string]int{
		SkipFetch:      2,
		SkipNotFound:   1,
		SkipIrrelevant: 1,
		SkipDuplicate:  1,
		SkipShort:      0,
	}, report.Skipped)

	require.Len(t, report.Articles, 2)

	check := report.Articles[0]
	assert.Equal(t, "Check Fraud Rising", check.Title)
	assert.Equal(t, site.URL+"/media-center/check-fraud", check.URL)
	assert.Equal(t, "2024-03-05T10:00:00Z", check.Timestamp)
	assert.Equal(t, "check fraud, mail theft", check.Keywords)
	assert.True(t, strings.HasPrefix(check.Summary, "Summary: Criminals steal checks"))

	elder := report.Articles[1]
	assert.Equal(t, NoTitle, elder.Title)
	assert.Equal(t, "2025-01-02 03:04", elder.Timestamp)
	assert.NotEmpty(t, elder.Keywords)
	assert.NotContains(t, elder.Summary, "Home | About")

	assert.NotContains(t, site.paths(), "/private/media-center/secret")
	assert.NotContains(t, site.paths(), "/about")
}

func TestPipeline_RunWithoutEnricher(t *testing.T) {
	site := newCrawlSite(t)
	p := newTestPipeline(t)

	report, err := p.Run(context.Background(), Seeds{
		Articles: []string{site.URL + "/investors/insights/elder-scams"},
	})
	require.NoError(t, err)
	require.Len(t, report.Articles, 1)

	a := report.Articles[0]
	assert.True(t, strings.HasPrefix(a.Summary, "Older adults are frequent targets"))
	assert.LessOrEqual(t, len([]rune(a.Summary)), FallbackSummaryChars)
	assert.Len(t, strings.Split(a.Keywords, ", "), DefaultKeywords)
}

func TestPipeline_RobotsDisabled(t *testing.T) {
	site := newCrawlSite(t)
	p := newTestPipeline(t, WithRobots(false))

	report, err := p.Run(context.Background(), Seeds{
		Articles: []string{site.URL + "/private/media-center/secret"},
	})
	require.NoError(t, err)
	assert.Len(t, report.Articles, 1)
	assert.NotContains(t, site.paths(), "/robots.txt")
}

func TestPipeline_NoSeeds(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Run(context.Background(), Seeds{})
	assert.ErrorIs(t, err, ErrNoSeeds)
}

func TestPipeline_NothingUsable(t *testing.T) {
	site := newCrawlSite(t)
	p := newTestPipeline(t)

	report, err := p.Run(context.Background(), Seeds{
		Articles: []string{site.URL + "/enforcement/stub", "not a url"},
	})
	require.NoError(t, err)
	assert.Empty(t, report.Articles)
	assert.NotNil(t, report.Articles)
	assert.Equal(t, 1, report.Skipped[SkipNotFound])
	assert.Equal(t, 1, report.Skipped[SkipFetch])
}

func TestPipeline_Progress(t *testing.T) {
	site := newCrawlSite(t)

	counts := make(map[string]int)
	var last Progress
	p := newTestPipeline(t,
		WithEnricher(fakeEnricher{}),
		WithProgress(func(pr Progress) {
			counts[pr.Stage]++
			last = pr
		}),
	)

	_, err := p.Run(context.Background(), Seeds{IndexPages: []string{site.URL + "/index"}})
	require.NoError(t, err)

	assert.Equal(t, 1, counts[StageDiscover])
	assert.Equal(t, 6, counts[StageScrape])
	assert.Equal(t, 2, counts[StageEnrich])
	assert.Equal(t, StageEnrich, last.Stage)
	assert.Equal(t, last.Total, last.Done)
}

func TestPipeline_Canceled(t *testing.T) {
	site := newCrawlSite(t)
	p := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, Seeds{Articles: []string{site.URL + "/media-center/check-fraud"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublish(t *testing.T) {
	var body []byte
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	report := &Report{Articles: []corpus.RawArticle{{
		Title: "Check Fraud Rising", URL: "https://example.com/a", Summary: "Checks are stolen.",
		Keywords: "check fraud", Timestamp: "2024-03-05",
	}}}
	store := &corpus.BlobStore{BaseURL: server.URL, Bucket: "fraud", APIKey: "k"}

	require.NoError(t, Publish(context.Background(), store, "articles.csv", report))
	assert.Equal(t, "/storage/v1/object/fraud/articles.csv", path)

	var want bytes.Buffer
	require.NoError(t, WriteCSV(&want, report))
	assert.Equal(t, want.String(), string(body))
}
