package vectorize

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

// TFIDF is a sparse bag-of-words vectorizer. Fitting learns a vocabulary and
// smoothed inverse document frequencies from the corpus texts.
type TFIDF struct {
	logger *slog.Logger
}

var _ Vectorizer = (*TFIDF)(nil)

// TFIDFOption configures a TFIDF vectorizer.
type TFIDFOption func(*TFIDF)

// WithTFIDFLogger sets a custom logger.
func WithTFIDFLogger(logger *slog.Logger) TFIDFOption {
	return func(t *TFIDF) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTFIDF creates a TF-IDF vectorizer.
func NewTFIDF(opts ...TFIDFOption) *TFIDF {
	t := &TFIDF{logger: slog.Default().With("component", "tfidf")}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns "tfidf".
func (t *TFIDF) Name() string {
	return NameTFIDF
}

// Fit builds the vocabulary over corpus. It never fails.
func (t *TFIDF) Fit(_ context.Context, corpus []string) (Encoder, error) {
	return t.FitModel(corpus), nil
}

// FitModel is Fit returning the concrete model, which also offers TopTerms.
func (t *TFIDF) FitModel(corpus []string) *TFIDFModel {
	model := &TFIDFModel{
		index: make(map[string]int),
		docs:  len(corpus),
	}

	var df []int
	for _, text := range corpus {
		seen := make(map[int]bool)
		for _, token := range Tokenize(text) {
			col, ok := model.index[token]
			if !ok {
				col = len(model.vocabulary)
				model.index[token] = col
				model.vocabulary = append(model.vocabulary, token)
				df = append(df, 0)
			}
			if !seen[col] {
				seen[col] = true
				df[col]++
			}
		}
	}

	model.idf = make([]float64, len(df))
	for col, n := range df {
		model.idf[col] = smoothIDF(model.docs, n)
	}

	t.logger.Debug("fitted tf-idf model", "documents", model.docs, "vocabulary", len(model.vocabulary))
	return model
}

// smoothIDF is ln((1+N)/(1+df)) + 1, which keeps terms present in every
// document at a positive weight.
func smoothIDF(docs, df int) float64 {
	return math.Log(float64(1+docs)/float64(1+df)) + 1
}

// TFIDFModel is a fitted TF-IDF encoder. It is immutable and safe for
// concurrent use.
type TFIDFModel struct {
	vocabulary []string
	index      map[string]int
	idf        []float64
	docs       int
}

var _ Encoder = (*TFIDFModel)(nil)

// Dimension is the vocabulary size.
func (m *TFIDFModel) Dimension() int {
	return len(m.vocabulary)
}

// Vocabulary returns the terms in column order.
func (m *TFIDFModel) Vocabulary() []string {
	return append([]string(nil), m.vocabulary...)
}

// IDF returns the inverse document frequency of term, and false if the term
// is outside the vocabulary.
func (m *TFIDFModel) IDF(term string) (float64, bool) {
	col, ok := m.index[term]
	if !ok {
		return 0, false
	}
	return m.idf[col], true
}

// Encode returns raw term counts weighted by IDF, L2-normalized. Terms outside
// the vocabulary contribute nothing, so text made only of unknown words
// encodes to the zero vector.
func (m *TFIDFModel) Encode(_ context.Context, text string) ([]float32, error) {
	return m.encode(text), nil
}

// EncodeAll encodes each text.
func (m *TFIDFModel) EncodeAll(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.encode(text)
	}
	return vectors, nil
}

func (m *TFIDFModel) encode(text string) []float32 {
	vector := make([]float32, len(m.vocabulary))
	for _, token := range Tokenize(text) {
		if col, ok := m.index[token]; ok {
			vector[col]++
		}
	}
	for col, count := range vector {
		if count != 0 {
			vector[col] = float32(float64(count) * m.idf[col])
		}
	}
	return Normalize(vector)
}

// TopTerms returns up to n distinct terms of text with the highest TF-IDF
// weight. Terms unseen during fitting get the IDF of a term found in no
// document. Ties keep first-occurrence order.
func (m *TFIDFModel) TopTerms(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}

	type scored struct {
		term  string
		score float64
	}
	var terms []scored
	position := make(map[string]int)
	for _, token := range Tokenize(text) {
		idx, ok := position[token]
		if !ok {
			idx = len(terms)
			position[token] = idx
			terms = append(terms, scored{term: token})
		}
		terms[idx].score++
	}
	for i := range terms {
		idf, ok := m.IDF(terms[i].term)
		if !ok {
			idf = smoothIDF(m.docs, 0)
		}
		terms[i].score *= idf
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].score > terms[j].score
	})

	if len(terms) > n {
		terms = terms[:n]
	}
	result := make([]string, len(terms))
	for i, t := range terms {
		result[i] = t.term
	}
	return result
}
