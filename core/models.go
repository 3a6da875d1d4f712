package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier for records and cached vectors.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Category is a fraud-type label assigned to every article.
type Category string

const (
	CategoryAI              Category = "AI Fraud"
	CategoryCheck           Category = "Check Fraud"
	CategoryElder           Category = "Elder Fraud"
	CategoryAccountTakeover Category = "Account Takeover"
	CategoryInvestment      Category = "Investment Scam"
	CategoryDisaster        Category = "Disaster Fraud"
	CategoryGeneral         Category = "General Fraud"
)

// Categories lists every label in classification priority order.
var Categories = []Category{
	CategoryAI,
	CategoryCheck,
	CategoryElder,
	CategoryAccountTakeover,
	CategoryInvestment,
	CategoryDisaster,
	CategoryGeneral,
}

// ParseCategory returns the label matching name case-insensitively.
func ParseCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c, true
		}
	}
	return "", false
}

// ArticleRecord is one normalized row of the article corpus.
type ArticleRecord struct {
	Index    int    // Row position within the loaded corpus
	ID       ID     // Content hash of title, url and summary
	Title    string // Never empty after normalization
	URL      string
	Summary  string
	Keywords []string  // Lower-cased, trimmed, non-empty
	Date     time.Time // Zero when the source date was missing or unparseable
	Category Category
}

// HasDate reports whether the record carries a publication date.
func (r *ArticleRecord) HasDate() bool {
	return !r.Date.IsZero()
}

// DateLabel renders the date as YYYY-MM-DD, or "Unknown".
func (r *ArticleRecord) DateLabel() string {
	if !r.HasDate() {
		return UnknownDate
	}
	return r.Date.Format(time.DateOnly)
}

// SearchableText joins title, summary and keywords into a single document.
func (r *ArticleRecord) SearchableText() string {
	parts := make([]string, 0, 2+len(r.Keywords))
	parts = append(parts, r.Title, r.Summary)
	parts = append(parts, r.Keywords...)
	return strings.Join(parts, " ")
}

// KeywordSet returns the record's keywords as a set.
func (r *ArticleRecord) KeywordSet() KeywordSet {
	return NewKeywordSet(r.Keywords...)
}

// KeywordSet is an unordered collection of normalized keywords.
type KeywordSet map[string]struct{}

// NewKeywordSet builds a set from already-normalized keywords.
func NewKeywordSet(keywords ...string) KeywordSet {
	set := make(KeywordSet, len(keywords))
	for _, k := range keywords {
		set[k] = struct{}{}
	}
	return set
}

// Intersect counts the keywords present in both sets.
func (s KeywordSet) Intersect(other KeywordSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for k := range small {
		if _, ok := large[k]; ok {
			n++
		}
	}
	return n
}

// Hit is one ranked corpus row.
type Hit struct {
	Index int
	Score float64
}

// BestMatch is the single highest-scoring record for a query.
type BestMatch struct {
	Record ArticleRecord
	Score  float64
}

// SearchResult is the outcome of a query. Best is nil only when the corpus is empty.
type SearchResult struct {
	Query   string
	Best    *BestMatch
	Related []ArticleRecord
}

// HistoryEntry records one query issued during a session.
type HistoryEntry struct {
	Query        string
	MatchedTitle string
	Score        float64
	At           time.Time
}
