package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "comma separated", raw: "check fraud, mail theft", want: []string{"check fraud", "mail theft"}},
		{name: "mixed case and padding", raw: "  AI ,DeepFake  ", want: []string{"ai", "deepfake"}},
		{name: "empty fragments dropped", raw: "ai,, ,deepfake,", want: []string{"ai", "deepfake"}},
		{name: "empty string", raw: "", want: []string{}},
		{name: "dataframe missing marker", raw: "nan", want: []string{}},
		{name: "python list literal", raw: "['ai', 'Investment Scam']", want: []string{"ai", "investment scam"}},
		{name: "postgres array literal", raw: "{ai,\"voice cloning\"}", want: []string{"ai", "voice cloning"}},
		{name: "order preserved", raw: "z, a, m", want: []string{"z", "a", "m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeKeywords(tt.raw)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "AI Scams", NormalizeTitle("  AI Scams "))
	assert.Equal(t, UntitledTitle, NormalizeTitle(""))
	assert.Equal(t, UntitledTitle, NormalizeTitle("NaN"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   time.Time
		wantOK bool
	}{
		{name: "date only", raw: "2025-01-15", want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "scrape timestamp", raw: "2025-11-02 18:45", want: time.Date(2025, 11, 2, 18, 45, 0, 0, time.UTC), wantOK: true},
		{name: "rfc3339", raw: "2024-06-01T10:00:00Z", want: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), wantOK: true},
		{name: "postgres timestamptz", raw: "2024-06-01 12:30:00+02", want: time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC), wantOK: true},
		{name: "long month", raw: "March 4, 2024", want: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "us slashes", raw: "07/04/2023", want: time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "empty", raw: "", wantOK: false},
		{name: "garbage", raw: "sometime last spring", wantOK: false},
		{name: "dataframe missing marker", raw: "NaT", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			} else {
				assert.True(t, got.IsZero())
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	records := []ArticleRecord{
		{Title: "Check Fraud Rises", Summary: "Check washing is increasing.", Keywords: []string{"check fraud"}},
		{Title: "AI Scams", Summary: "Deepfake voice scams.", Keywords: []string{"ai"}},
	}
	same := []ArticleRecord{records[0], records[1]}

	assert.Equal(t, Fingerprint(records), Fingerprint(same))

	changed := []ArticleRecord{records[0], records[1]}
	changed[1].Summary = "Deepfake voice scams target investors."
	assert.NotEqual(t, Fingerprint(records), Fingerprint(changed))

	reordered := []ArticleRecord{records[1], records[0]}
	assert.NotEqual(t, Fingerprint(records), Fingerprint(reordered))
}
