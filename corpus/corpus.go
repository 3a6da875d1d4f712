package corpus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/toriana04/fraudintel/core"
)

// Categorizer assigns a category to an article summary.
type Categorizer interface {
	Classify(text string) core.Category
}

// Corpus is one immutable load of the article collection.
type Corpus struct {
	Records     []core.ArticleRecord
	Fingerprint core.ID
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	return len(c.Records)
}

// New normalizes raw rows into a Corpus.
func New(raw []RawArticle, categorizer Categorizer) *Corpus {
	records := Normalize(raw, categorizer)
	return &Corpus{
		Records:     records,
		Fingerprint: core.Fingerprint(records),
	}
}

// Load fetches src and normalizes its rows. Any fetch failure is wrapped in
// ErrCorpusUnavailable.
func Load(ctx context.Context, src Source, categorizer Categorizer) (*Corpus, error) {
	if categorizer == nil {
		return nil, ErrClassifierRequired
	}
	logger := slog.Default().With("component", "corpus")

	raw, err := src.Fetch(ctx)
	if err != nil {
		logger.Error("failed to fetch corpus", "source", src.Describe(), "err", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrCorpusUnavailable, src.Describe(), err)
	}

	c := New(raw, categorizer)
	logger.Info("corpus loaded", "source", src.Describe(), "records", c.Len(), "fingerprint", uint64(c.Fingerprint))
	return c, nil
}

// Normalize converts raw rows into records, substituting defaults for
// missing or malformed fields. It never drops a row.
func Normalize(raw []RawArticle, categorizer Categorizer) []core.ArticleRecord {
	logger := slog.Default().With("component", "corpus")
	records := make([]core.ArticleRecord, len(raw))
	for i, row := range raw {
		title := core.NormalizeTitle(row.Title)
		if title == core.UntitledTitle {
			logger.Debug("row has no title", "row", i)
		}
		summary := core.NormalizeText(row.Summary)
		url := core.NormalizeText(row.URL)

		date, ok := core.ParseDate(row.Timestamp)
		if !ok && core.NormalizeText(row.Timestamp) != "" {
			logger.Debug("unparseable date", "row", i, "value", row.Timestamp)
		}

		records[i] = core.ArticleRecord{
			Index:    i,
			ID:       core.RecordID(title, url, summary),
			Title:    title,
			URL:      url,
			Summary:  summary,
			Keywords: core.NormalizeKeywords(row.Keywords),
			Date:     date,
		}
		if categorizer != nil {
			records[i].Category = categorizer.Classify(summary)
		}
	}
	return records
}
