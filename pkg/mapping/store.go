package mapping

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/getmockd/mockd-standalone/internal/matching"
)

// Match is the result of finding a mapping for a request.
type Match struct {
	Mapping *Mapping
	Result  matching.Result
	// Partial is set when the mapping did not satisfy every criterion.
	Partial bool
}

// Store is a thread-safe in-memory mapping store. Mappings are kept in
// insertion order.
type Store struct {
	mu       sync.RWMutex
	mappings map[string]*Mapping
	order    []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{mappings: make(map[string]*Mapping)}
}

// Add validates m and stores a copy. A missing GUID is generated and
// written back to m.
func (s *Store) Add(m *Mapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.GUID == "" {
		m.GUID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.mappings[m.GUID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMapping, m.GUID)
	}
	s.mappings[m.GUID] = m.Clone()
	s.order = append(s.order, m.GUID)
	return nil
}

// Update replaces the mapping stored under guid, keeping its position.
func (s *Store) Update(guid string, m *Mapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.GUID = guid

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.mappings[guid]; !exists {
		return fmt.Errorf("%w: %s", ErrMappingNotFound, guid)
	}
	s.mappings[guid] = m.Clone()
	return nil
}

// Get returns a copy of the mapping stored under guid, or nil.
func (s *Store) Get(guid string) *Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mappings[guid].Clone()
}

// Delete removes the mapping stored under guid.
func (s *Store) Delete(guid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.mappings[guid]; !exists {
		return fmt.Errorf("%w: %s", ErrMappingNotFound, guid)
	}
	delete(s.mappings, guid)
	for i, id := range s.order {
		if id == guid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of all mappings in insertion order.
func (s *Store) List() []*Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Mapping, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.mappings[id].Clone())
	}
	return out
}

// Count returns the number of stored mappings.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Reset removes every mapping.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings = make(map[string]*Mapping)
	s.order = nil
}

// Find selects the mapping for a request. Full matches win, ordered by
// priority (lower first), then score, then insertion order. When
// allowPartial is set and nothing matches fully, the partial match with the
// highest satisfied ratio is returned; a candidate must satisfy at least
// one criterion.
func (s *Store) Find(r *http.Request, body []byte, allowPartial bool) (*Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type candidate struct {
		mapping *Mapping
		result  matching.Result
	}
	var full, partial []candidate
	for _, id := range s.order {
		m := s.mappings[id]
		res := matching.Evaluate(m.Request.Criteria(), r, body)
		switch {
		case res.Full():
			full = append(full, candidate{m, res})
		case allowPartial && res.Score > 0:
			partial = append(partial, candidate{m, res})
		}
	}

	if len(full) > 0 {
		sort.SliceStable(full, func(i, j int) bool {
			a, b := full[i], full[j]
			if a.mapping.Priority != b.mapping.Priority {
				return a.mapping.Priority < b.mapping.Priority
			}
			return a.result.Score > b.result.Score
		})
		return &Match{Mapping: full[0].mapping.Clone(), Result: full[0].result}, true
	}

	if len(partial) > 0 {
		sort.SliceStable(partial, func(i, j int) bool {
			a, b := partial[i], partial[j]
			if ra, rb := a.result.Ratio(), b.result.Ratio(); ra != rb {
				return ra > rb
			}
			if a.result.Score != b.result.Score {
				return a.result.Score > b.result.Score
			}
			return a.mapping.Priority < b.mapping.Priority
		})
		return &Match{Mapping: partial[0].mapping.Clone(), Result: partial[0].result, Partial: true}, true
	}

	return nil, false
}
