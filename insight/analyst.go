// Package insight produces natural-language explanations with an
// ai.Generator: concept explanations, article insights, pairwise comparisons,
// grounded answers and trend interpretation. It also writes the summaries
// and keyword lists used when ingesting new articles.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/toriana04/fraudintel/ai"
	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/trends"
)

const (
	// DefaultMaxInput caps the characters of article text sent in one prompt.
	DefaultMaxInput = 4096

	// DefaultKeywords is the keyword count used when a caller asks for none.
	DefaultKeywords = 6
)

var (
	// ErrGeneratorRequired is returned when an Analyst is built without a generator.
	ErrGeneratorRequired = errors.New("generator required")

	// ErrEmptyInput is returned when there is nothing to explain.
	ErrEmptyInput = errors.New("empty input")
)

// Analyst turns fraud content into explanations.
type Analyst struct {
	generator ai.Generator
	retry     ai.RetryPolicy
	maxInput  int
	logger    *slog.Logger
}

// Option configures an Analyst.
type Option func(*Analyst)

// WithRetryPolicy sets how generation calls are retried.
func WithRetryPolicy(policy ai.RetryPolicy) Option {
	return func(a *Analyst) {
		if policy.MaxAttempts > 0 {
			a.retry = policy
		}
	}
}

// WithMaxInput caps the characters of article text per prompt.
func WithMaxInput(n int) Option {
	return func(a *Analyst) {
		if n > 0 {
			a.maxInput = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyst) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyst creates an analyst over generator.
func NewAnalyst(generator ai.Generator, opts ...Option) (*Analyst, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	a := &Analyst{
		generator: generator,
		retry:     ai.DefaultRetryPolicy(),
		maxInput:  DefaultMaxInput,
		logger:    slog.Default().With("component", "analyst"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Analyst) generate(ctx context.Context, task, prompt string) (string, error) {
	var text string
	err := a.retry.Do(ctx, func() error {
		var err error
		text, err = a.generator.Generate(ctx, prompt)
		return err
	})
	if err != nil {
		a.logger.Error("generation failed", "task", task, "err", err)
		return "", fmt.Errorf("%s: %w", task, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", task, ai.ErrEmptyResponse)
	}
	a.logger.Debug("generated", "task", task, "promptLength", len(prompt), "length", len(text))
	return text, nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Explain describes a fraud concept in simple terms.
func (a *Analyst) Explain(ctx context.Context, concept string) (string, error) {
	if strings.TrimSpace(concept) == "" {
		return "", ErrEmptyInput
	}
	return a.generate(ctx, "explain", explainPrompt(truncate(concept, a.maxInput)))
}

// ArticleInsight summarizes an article's type, risk and relevance.
func (a *Analyst) ArticleInsight(ctx context.Context, record core.ArticleRecord) (string, error) {
	if strings.TrimSpace(record.Summary) == "" {
		return "", ErrEmptyInput
	}
	return a.generate(ctx, "insight", articlePrompt(truncate(record.Summary, a.maxInput)))
}

// Compare explains what score means for two articles.
func (a *Analyst) Compare(ctx context.Context, first, second core.ArticleRecord, score float64) (string, error) {
	half := a.maxInput / 2
	return a.generate(ctx, "compare", comparePrompt(truncate(first.Summary, half), truncate(second.Summary, half), score))
}

// Answer responds to question using the summary of grounding as context.
func (a *Analyst) Answer(ctx context.Context, question string, grounding core.ArticleRecord) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyInput
	}
	return a.generate(ctx, "answer", answerPrompt(truncate(grounding.Summary, a.maxInput), question))
}

// InterpretTrends explains monthly category counts.
func (a *Analyst) InterpretTrends(ctx context.Context, buckets []trends.MonthBucket) (string, error) {
	if len(buckets) == 0 {
		return "", ErrEmptyInput
	}
	return a.generate(ctx, "trends", trendsPrompt(trends.Summary(buckets)))
}

// Summarize condenses an article body.
func (a *Analyst) Summarize(ctx context.Context, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptyInput
	}
	return a.generate(ctx, "summarize", summaryPrompt(truncate(body, a.maxInput)))
}

type keywordResponse struct {
	Keywords []string `json:"keywords"`
}

// Keywords extracts up to n lower-cased keywords from body.
func (a *Analyst) Keywords(ctx context.Context, body string, n int) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyInput
	}
	if n <= 0 {
		n = DefaultKeywords
	}
	text, err := a.generate(ctx, "keywords", keywordsPrompt(truncate(body, a.maxInput), n))
	if err != nil {
		return nil, err
	}

	var resp keywordResponse
	if err := ai.DecodeJSONResponse(text, &resp); err != nil {
		a.logger.Warn("unparseable keyword response", "response", text, "err", err)
		return nil, fmt.Errorf("keywords: %w", err)
	}

	keywords := core.NormalizeKeywords(strings.Join(resp.Keywords, ","))
	seen := make(map[string]bool)
	out := make([]string, 0, n)
	for _, k := range keywords {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) == n {
			break
		}
	}
	return out, nil
}
