package ingestion

import (
	"context"
	"log/slog"

	"github.com/toriana04/fraudintel/vectorize"
)

// DefaultKeywords is the number of keywords written per article.
const DefaultKeywords = 6

// keywordProcessor fills Article.Keywords, falling back to the highest
// weighted TF-IDF terms of the body when the model gives nothing usable.
type keywordProcessor struct {
	enricher Enricher
	model    *vectorize.TFIDFModel
	n        int
}

// newKeywordProcessor fits the fallback model on the bodies of every
// article in the run so term weights reflect the whole batch.
func newKeywordProcessor(enricher Enricher, articles []*Article, n int, logger *slog.Logger) *keywordProcessor {
	bodies := make([]string, len(articles))
	for i, a := range articles {
		bodies[i] = a.Body
	}
	if n <= 0 {
		n = DefaultKeywords
	}
	return &keywordProcessor{
		enricher: enricher,
		model:    vectorize.NewTFIDF(vectorize.WithTFIDFLogger(logger)).FitModel(bodies),
		n:        n,
	}
}

func (p *keywordProcessor) process(ctx context.Context, article *Article) error {
	var err error
	if p.enricher != nil {
		var keywords []string
		keywords, err = p.enricher.Keywords(ctx, prefix(article.Body, MaxBodyChars), p.n)
		if err == nil && len(keywords) > 0 {
			article.Keywords = keywords
			return nil
		}
	}
	article.Keywords = p.model.TopTerms(article.Body, p.n)
	return err
}
