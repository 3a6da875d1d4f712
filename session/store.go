package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryLimit bounds each session's history.
const DefaultHistoryLimit = 100

type entry struct {
	history  *History
	lastSeen time.Time
}

// Store holds the histories of concurrent sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	limit    int
	now      func() time.Time
	logger   *slog.Logger
}

// NewStore creates an empty store whose histories keep at most limit entries.
func NewStore(limit int) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		limit:    limit,
		now:      time.Now,
		logger:   slog.Default().With("component", "session-store"),
	}
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the history for id, creating it on first use.
func (s *Store) Get(id string) *History {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		e = &entry{history: NewHistory(s.limit)}
		s.sessions[id] = e
		s.logger.Debug("session created", "sessions", len(s.sessions))
	}
	e.lastSeen = s.now()
	return e.history
}

// Delete forgets id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Expire drops sessions idle for longer than ttl and returns how many were dropped.
func (s *Store) Expire(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	dropped := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		s.logger.Debug("expired sessions", "dropped", dropped, "remaining", len(s.sessions))
	}
	return dropped
}
