// Package session keeps per-user search history.
//
// A History belongs to one session and is never shared with the corpus. The
// Store maps opaque session IDs to histories for servers that handle many
// sessions at once.
package session

import (
	"sync"
	"time"

	"github.com/toriana04/fraudintel/core"
)

// DefaultRecent is how many entries a dashboard shows.
const DefaultRecent = 10

// History is an ordered list of queries, oldest first. It is safe for
// concurrent use.
type History struct {
	mu      sync.Mutex
	entries []core.HistoryEntry
	limit   int
}

// NewHistory creates an empty history. limit bounds the number of retained
// entries; zero keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Append records entry. A zero At is set to the current time.
func (h *History) Append(entry core.HistoryEntry) {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = append(h.entries[:0:0], h.entries[len(h.entries)-h.limit:]...)
	}
}

// Record appends the outcome of a search.
func (h *History) Record(result core.SearchResult) {
	entry := core.HistoryEntry{Query: result.Query}
	if result.Best != nil {
		entry.MatchedTitle = result.Best.Record.Title
		entry.Score = result.Best.Score
	}
	h.Append(entry)
}

// Clear removes every entry.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []core.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]core.HistoryEntry{}, h.entries...)
}

// Recent returns the last n entries, oldest first. n <= 0 returns none.
func (h *History) Recent(n int) []core.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 {
		return []core.HistoryEntry{}
	}
	start := max(len(h.entries)-n, 0)
	return append([]core.HistoryEntry{}, h.entries[start:]...)
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
