package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "simple text", content: "check washing"},
		{name: "empty string", content: ""},
		{name: "long content", content: "Deepfake voice scams target investors who trust familiar voices on the phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("  elder fraud ")
	require.True(t, ok)
	assert.Equal(t, CategoryElder, c)

	_, ok = ParseCategory("Romance Fraud")
	assert.False(t, ok)
}

func TestArticleRecord_DateLabel(t *testing.T) {
	r := ArticleRecord{}
	assert.False(t, r.HasDate())
	assert.Equal(t, "Unknown", r.DateLabel())

	r.Date = time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	assert.True(t, r.HasDate())
	assert.Equal(t, "2025-03-09", r.DateLabel())
}

func TestArticleRecord_SearchableText(t *testing.T) {
	r := ArticleRecord{
		Title:    "Check Fraud Rises",
		Summary:  "Check washing is increasing.",
		Keywords: []string{"check fraud", "mail theft"},
	}
	assert.Equal(t, "Check Fraud Rises Check washing is increasing. check fraud mail theft", r.SearchableText())
}

func TestKeywordSet_Intersect(t *testing.T) {
	a := NewKeywordSet("ai", "deepfake", "investment scam")
	b := NewKeywordSet("ai", "deepfake")
	c := NewKeywordSet()

	assert.Equal(t, 2, a.Intersect(b))
	assert.Equal(t, 2, b.Intersect(a))
	assert.Equal(t, 0, a.Intersect(c))
	assert.Equal(t, 0, c.Intersect(c))
}
