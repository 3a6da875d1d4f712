// Package trends derives explorer and trend views from corpus records:
// filtering, per-category counts, keyword frequencies and monthly buckets.
package trends

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/toriana04/fraudintel/core"
)

const (
	// ExplorerKeywords is the keyword count shown by the explorer.
	ExplorerKeywords = 20

	// TrendKeywords is the keyword count shown with monthly trends.
	TrendKeywords = 15

	monthLayout = "2006-01"
)

// Filter selects records. Zero fields match everything.
type Filter struct {
	Categories []core.Category
	Keyword    string    // Case-insensitive substring of a keyword or the summary
	From       time.Time // Inclusive; records without a date are excluded when set
	To         time.Time // Inclusive
}

// Match reports whether r passes the filter.
func (f *Filter) Match(r *core.ArticleRecord) bool {
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if c == r.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if needle := strings.ToLower(strings.TrimSpace(f.Keyword)); needle != "" {
		if !strings.Contains(strings.ToLower(r.Summary), needle) &&
			!strings.Contains(strings.Join(r.Keywords, ", "), needle) {
			return false
		}
	}

	if !f.From.IsZero() || !f.To.IsZero() {
		if !r.HasDate() {
			return false
		}
		if !f.From.IsZero() && r.Date.Before(f.From) {
			return false
		}
		if !f.To.IsZero() && r.Date.After(f.To) {
			return false
		}
	}
	return true
}

// Apply returns the records matching f in corpus order.
func (f *Filter) Apply(records []core.ArticleRecord) []core.ArticleRecord {
	out := []core.ArticleRecord{}
	for i := range records {
		if f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// CategoryCount is the number of records in one category.
type CategoryCount struct {
	Category core.Category
	Count    int
}

// CategoryCounts counts records per category, most frequent first. Ties
// follow classifier priority order.
func CategoryCounts(records []core.ArticleRecord) []CategoryCount {
	counts := make(map[core.Category]int)
	for i := range records {
		counts[records[i].Category]++
	}

	result := make([]CategoryCount, 0, len(counts))
	for _, c := range core.Categories {
		if n := counts[c]; n > 0 {
			result = append(result, CategoryCount{Category: c, Count: n})
			delete(counts, c)
		}
	}
	// Labels outside the built-in set, e.g. from custom rules.
	var extra []core.Category
	for c := range counts {
		extra = append(extra, c)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, c := range extra {
		result = append(result, CategoryCount{Category: c, Count: counts[c]})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// KeywordCount is the frequency of one keyword.
type KeywordCount struct {
	Keyword string
	Count   int
}

// TopKeywords returns the n most frequent keywords. Ties keep first-seen order.
func TopKeywords(records []core.ArticleRecord, n int) []KeywordCount {
	if n <= 0 {
		return []KeywordCount{}
	}

	position := make(map[string]int)
	counts := []KeywordCount{}
	for i := range records {
		for _, k := range records[i].Keywords {
			idx, ok := position[k]
			if !ok {
				idx = len(counts)
				position[k] = idx
				counts = append(counts, KeywordCount{Keyword: k})
			}
			counts[idx].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// MonthBucket counts the records of one calendar month by category.
type MonthBucket struct {
	Month  string // YYYY-MM
	Counts map[core.Category]int
	Total  int
}

// Monthly groups dated records by month in ascending order. Records without
// a date are skipped.
func Monthly(records []core.ArticleRecord) []MonthBucket {
	byMonth := make(map[string]*MonthBucket)
	for i := range records {
		r := &records[i]
		if !r.HasDate() {
			continue
		}
		month := r.Date.Format(monthLayout)
		b, ok := byMonth[month]
		if !ok {
			b = &MonthBucket{Month: month, Counts: make(map[core.Category]int)}
			byMonth[month] = b
		}
		b.Counts[r.Category]++
		b.Total++
	}

	buckets := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Month < buckets[j].Month
	})
	return buckets
}

// ParseMonth parses YYYY-MM. end selects the last instant of the month
// instead of the first.
func ParseMonth(s string, end bool) (time.Time, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	if end {
		return t.AddDate(0, 1, 0).Add(-time.Nanosecond), nil
	}
	return t, nil
}

// Categories lists the categories present in buckets, in classifier order.
func Categories(buckets []MonthBucket) []core.Category {
	present := make(map[core.Category]bool)
	for _, b := range buckets {
		for c := range b.Counts {
			present[c] = true
		}
	}
	var result []core.Category
	for _, c := range core.Categories {
		if present[c] {
			result = append(result, c)
			delete(present, c)
		}
	}
	var extra []core.Category
	for c := range present {
		extra = append(extra, c)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(result, extra...)
}

// Summary renders buckets as one line per month listing every category
// present in the range, zeros included.
func Summary(buckets []MonthBucket) string {
	categories := Categories(buckets)

	var b strings.Builder
	b.WriteString("Trend summary for filtered data:")
	for _, bucket := range buckets {
		b.WriteString("\n")
		b.WriteString(bucket.Month)
		b.WriteString(": ")
		for i, c := range categories {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%d", c, bucket.Counts[c])
		}
	}
	return b.String()
}
