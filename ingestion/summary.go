package ingestion

import (
	"context"
	"unicode/utf8"
)

const (
	// MaxBodyChars caps the article text handed to the model.
	MaxBodyChars = 4096

	// FallbackSummaryChars is the length of the body prefix used as a
	// summary when the model is unavailable.
	FallbackSummaryChars = 300
)

// Enricher writes summaries and keywords. *insight.Analyst implements it.
type Enricher interface {
	Summarize(ctx context.Context, body string) (string, error)
	Keywords(ctx context.Context, body string, n int) ([]string, error)
}

// summaryProcessor fills Article.Summary.
type summaryProcessor struct {
	enricher Enricher // nil selects the body prefix
}

func newSummaryProcessor(enricher Enricher) *summaryProcessor {
	return &summaryProcessor{enricher: enricher}
}

func (p *summaryProcessor) process(ctx context.Context, article *Article) error {
	body := prefix(article.Body, MaxBodyChars)
	if p.enricher != nil {
		summary, err := p.enricher.Summarize(ctx, body)
		if err == nil {
			article.Summary = summary
			return nil
		}
		article.Summary = prefix(body, FallbackSummaryChars)
		return err
	}
	article.Summary = prefix(body, FallbackSummaryChars)
	return nil
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
