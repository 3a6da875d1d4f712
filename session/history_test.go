package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toriana04/fraudintel/core"
)

func TestHistory_AppendAndRecent(t *testing.T) {
	h := NewHistory(0)
	for i := range 12 {
		h.Append(core.HistoryEntry{Query: fmt.Sprintf("q%d", i)})
	}

	assert.Equal(t, 12, h.Len())
	recent := h.Recent(DefaultRecent)
	require.Len(t, recent, 10)
	assert.Equal(t, "q2", recent[0].Query)
	assert.Equal(t, "q11", recent[9].Query)
	assert.False(t, recent[0].At.IsZero())

	assert.Len(t, h.Recent(50), 12)
	assert.Empty(t, h.Recent(0))
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(3)
	for i := range 5 {
		h.Append(core.HistoryEntry{Query: fmt.Sprintf("q%d", i)})
	}
	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "q2", entries[0].Query)
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(0)
	h.Append(core.HistoryEntry{Query: "check washing"})
	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.NotNil(t, h.Entries())
	assert.Empty(t, h.Entries())
}

func TestHistory_Record(t *testing.T) {
	h := NewHistory(0)
	h.Record(core.SearchResult{
		Query: "deepfake",
		Best:  &core.BestMatch{Record: core.ArticleRecord{Title: "AI Scams"}, Score: 0.7},
	})
	h.Record(core.SearchResult{Query: "anything"})

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "AI Scams", entries[0].MatchedTitle)
	assert.Equal(t, 0.7, entries[0].Score)
	assert.Equal(t, "", entries[1].MatchedTitle)
}

func TestHistory_EntriesAreCopies(t *testing.T) {
	h := NewHistory(0)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h.Append(core.HistoryEntry{Query: "a", At: at})

	entries := h.Entries()
	entries[0].Query = "mutated"
	assert.Equal(t, "a", h.Entries()[0].Query)
	assert.Equal(t, at, h.Entries()[0].At)
}

func TestHistory_Concurrent(t *testing.T) {
	h := NewHistory(0)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append(core.HistoryEntry{Query: fmt.Sprintf("q%d", i)})
			_ = h.Recent(DefaultRecent)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, h.Len())
}
