package core

import (
	"strings"
	"time"
)

const (
	// UntitledTitle replaces an empty source title.
	UntitledTitle = "Untitled"

	// UnknownDate is the display value for records without a date.
	UnknownDate = "Unknown"
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// missingMarkers are placeholder values written by spreadsheet and dataframe exports.
var missingMarkers = map[string]struct{}{
	"nan":  {},
	"nat":  {},
	"none": {},
	"null": {},
}

func isMissing(s string) bool {
	_, ok := missingMarkers[strings.ToLower(s)]
	return ok
}

// NormalizeKeywords splits a comma-separated keyword field into a list of
// lower-cased, trimmed, non-empty keywords. List literals such as
// "['a', 'b']" or "{a,b}" are unwrapped first.
func NormalizeKeywords(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || isMissing(raw) {
		return []string{}
	}
	if len(raw) >= 2 {
		if (raw[0] == '[' && raw[len(raw)-1] == ']') || (raw[0] == '{' && raw[len(raw)-1] == '}') {
			raw = raw[1 : len(raw)-1]
		}
	}

	fields := strings.Split(raw, ",")
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		k := strings.ToLower(strings.Trim(strings.TrimSpace(f), `"'`))
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
	}
	return keywords
}

// NormalizeTitle trims a title and substitutes UntitledTitle when nothing remains.
func NormalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" || isMissing(title) {
		return UntitledTitle
	}
	return title
}

// NormalizeText trims free text and clears dataframe missing markers.
func NormalizeText(s string) string {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return ""
	}
	return s
}

// ParseDate parses a loosely formatted timestamp. It reports false, with a
// zero time, when the value is empty or matches no known layout.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || isMissing(raw) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Fingerprint hashes the normalized content of records in row order.
// Equal corpora produce equal fingerprints.
func Fingerprint(records []ArticleRecord) ID {
	var b strings.Builder
	for i := range records {
		r := &records[i]
		b.WriteString(r.Title)
		b.WriteByte(0x1f)
		b.WriteString(r.URL)
		b.WriteByte(0x1f)
		b.WriteString(r.Summary)
		b.WriteByte(0x1f)
		b.WriteString(strings.Join(r.Keywords, ","))
		b.WriteByte(0x1f)
		b.WriteString(r.DateLabel())
		b.WriteByte(0x1e)
	}
	return IDFromContent(b.String())
}

// RecordID derives the content ID of a record from its identifying fields.
func RecordID(title, url, summary string) ID {
	return IDFromContent(title + "\x1f" + url + "\x1f" + summary)
}
