package requestlog

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxExpirationHours = math.MaxInt64 / int64(time.Hour)

// Limits are the retention limits of a MemoryStore. Nil fields are unbounded.
type Limits struct {
	// MaxCount caps the number of retained entries.
	MaxCount *int
	// ExpirationHours drops entries older than this many hours.
	ExpirationHours *int
}

// MemoryStore implements Store with an in-memory FIFO buffer.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
	limits  Limits
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore with the given limits.
func NewMemoryStore(limits Limits) *MemoryStore {
	return &MemoryStore{
		limits: limits,
		now:    time.Now,
	}
}

// Log records entry, assigning an ID and timestamp when missing.
func (s *MemoryStore) Log(entry *Entry) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	s.entries = append(s.entries, entry)
	s.pruneLocked()
}

// Get retrieves a log entry by ID.
func (s *MemoryStore) Get(id string) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	for _, e := range s.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// List returns entries oldest first, filtered and paginated.
func (s *MemoryStore) List(filter *Filter) []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter.matches(e) {
			out = append(out, e)
		}
	}

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(out) {
				return []*Entry{}
			}
			out = out[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(out) {
			out = out[:filter.Limit]
		}
	}
	return out
}

// Clear removes all log entries.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Count returns the number of retained entries.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return len(s.entries)
}

// pruneLocked applies the expiration horizon, then the count cap.
func (s *MemoryStore) pruneLocked() {
	// Horizons too long for a time.Duration never expire anything.
	if h := s.limits.ExpirationHours; h != nil && int64(*h) <= maxExpirationHours {
		cutoff := s.now().Add(-time.Duration(*h) * time.Hour)
		kept := s.entries[:0]
		for _, e := range s.entries {
			if e.Timestamp.After(cutoff) {
				kept = append(kept, e)
			}
		}
		clear(s.entries[len(kept):])
		s.entries = kept
	}

	if c := s.limits.MaxCount; c != nil {
		limit := max(*c, 0)
		if over := len(s.entries) - limit; over > 0 {
			s.entries = append([]*Entry(nil), s.entries[over:]...)
		}
	}
}
