package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/vectorize"
)

// Index is the searchable form of one corpus load. It is immutable after
// BuildIndex returns and safe for concurrent readers.
type Index struct {
	records     []core.ArticleRecord
	vectors     [][]float32
	keywords    []core.KeywordSet
	phrases     []string
	phraseVecs  [][]float32
	encoder     vectorize.Encoder
	fingerprint core.ID
	vectorizer  string
}

// DocumentText returns the text a record is vectorized from. Dense models
// embed the summary; sparse models use title, summary and keywords together.
func DocumentText(vectorizerName string, record *core.ArticleRecord) string {
	if vectorizerName == vectorize.NameDense {
		return record.Summary
	}
	return record.SearchableText()
}

// BuildIndex fits vectorizer on records and encodes every record plus the
// suggestion phrases. records is copied.
func BuildIndex(ctx context.Context, vectorizer vectorize.Vectorizer, records []core.ArticleRecord, fingerprint core.ID) (*Index, error) {
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}

	idx := &Index{
		records:     append([]core.ArticleRecord(nil), records...),
		keywords:    make([]core.KeywordSet, len(records)),
		fingerprint: fingerprint,
		vectorizer:  vectorizer.Name(),
	}

	texts := make([]string, len(idx.records))
	for i := range idx.records {
		texts[i] = DocumentText(idx.vectorizer, &idx.records[i])
		idx.keywords[i] = idx.records[i].KeywordSet()
	}

	encoder, err := vectorizer.Fit(ctx, texts)
	if err != nil {
		return nil, err
	}
	idx.encoder = encoder

	idx.vectors, err = encoder.EncodeAll(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode corpus: %w", err)
	}

	idx.phrases = suggestionPhrases(idx.records)
	idx.phraseVecs, err = encoder.EncodeAll(ctx, idx.phrases)
	if err != nil {
		return nil, fmt.Errorf("failed to encode suggestions: %w", err)
	}

	return idx, nil
}

// suggestionPhrases lists unique titles then unique keywords, in corpus order.
func suggestionPhrases(records []core.ArticleRecord) []string {
	seen := make(map[string]bool)
	var phrases []string
	add := func(phrase string) {
		key := strings.ToLower(strings.TrimSpace(phrase))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		phrases = append(phrases, phrase)
	}
	for _, record := range records {
		add(record.Title)
	}
	for _, record := range records {
		for _, keyword := range record.Keywords {
			add(keyword)
		}
	}
	return phrases
}

// Len returns the number of records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Fingerprint identifies the corpus content the index was built from.
func (idx *Index) Fingerprint() core.ID {
	return idx.fingerprint
}

// Vectorizer names the strategy that produced the vectors.
func (idx *Index) Vectorizer() string {
	return idx.vectorizer
}

// Encoder returns the fitted encoder used for queries.
func (idx *Index) Encoder() vectorize.Encoder {
	return idx.encoder
}

// Records returns a copy of the indexed records in row order.
func (idx *Index) Records() []core.ArticleRecord {
	return append([]core.ArticleRecord(nil), idx.records...)
}

// Record returns the record at row i.
func (idx *Index) Record(i int) (core.ArticleRecord, error) {
	if i < 0 || i >= len(idx.records) {
		return core.ArticleRecord{}, fmt.Errorf("%w: index %d", core.ErrRecordNotFound, i)
	}
	return idx.records[i], nil
}

// Vector returns the cached vector of row i.
func (idx *Index) Vector(i int) ([]float32, error) {
	if i < 0 || i >= len(idx.vectors) {
		return nil, fmt.Errorf("%w: index %d", core.ErrRecordNotFound, i)
	}
	return idx.vectors[i], nil
}

// FindByTitle returns the first row whose title equals title, ignoring case
// and surrounding space.
func (idx *Index) FindByTitle(title string) (int, bool) {
	want := strings.TrimSpace(title)
	for i := range idx.records {
		if strings.EqualFold(idx.records[i].Title, want) {
			return i, true
		}
	}
	return -1, false
}
