package requestlog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newTestStore(limits Limits, now *time.Time) *MemoryStore {
	s := NewMemoryStore(limits)
	s.now = func() time.Time { return *now }
	return s
}

func TestMemoryStore_LogAssignsIDAndTimestamp(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(Limits{}, &now)

	e := &Entry{Method: "GET", Path: "/a"}
	s.Log(e)
	s.Log(nil)

	require.NotEmpty(t, e.ID)
	assert.Equal(t, now, e.Timestamp)
	assert.Same(t, e, s.Get(e.ID))
	assert.Nil(t, s.Get("missing"))
	assert.Equal(t, 1, s.Count())
}

func TestMemoryStore_MaxCount(t *testing.T) {
	tests := []struct {
		name    string
		max     *int
		logged  int
		wantLen int
		wantIDs []string
	}{
		{name: "unbounded", max: nil, logged: 5, wantLen: 5},
		{name: "evicts oldest", max: intPtr(2), logged: 4, wantLen: 2, wantIDs: []string{"e2", "e3"}},
		{name: "zero retains nothing", max: intPtr(0), logged: 3, wantLen: 0},
		{name: "negative retains nothing", max: intPtr(-1), logged: 3, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now()
			s := newTestStore(Limits{MaxCount: tt.max}, &now)
			for i := 0; i < tt.logged; i++ {
				s.Log(&Entry{ID: fmt.Sprintf("e%d", i)})
			}

			entries := s.List(nil)
			assert.Len(t, entries, tt.wantLen)
			if tt.wantIDs != nil {
				var ids []string
				for _, e := range entries {
					ids = append(ids, e.ID)
				}
				assert.Equal(t, tt.wantIDs, ids)
			}
		})
	}
}

func TestMemoryStore_Expiration(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(Limits{ExpirationHours: intPtr(2)}, &now)

	s.Log(&Entry{ID: "old", Timestamp: now.Add(-3 * time.Hour)})
	s.Log(&Entry{ID: "recent", Timestamp: now.Add(-1 * time.Hour)})
	s.Log(&Entry{ID: "fresh"})
	assert.Equal(t, 2, s.Count())
	assert.Nil(t, s.Get("old"))

	now = now.Add(90 * time.Minute)
	assert.Equal(t, 1, s.Count(), "expiration applies on reads")
	assert.NotNil(t, s.Get("fresh"))
}

func TestMemoryStore_ZeroExpirationExpiresEverything(t *testing.T) {
	now := time.Now()
	s := newTestStore(Limits{ExpirationHours: intPtr(0)}, &now)
	s.Log(&Entry{})
	assert.Equal(t, 0, s.Count())
}

func TestMemoryStore_HugeExpirationRetains(t *testing.T) {
	tests := []struct {
		name  string
		hours int
	}{
		{name: "one day", hours: 24},
		{name: "below duration range", hours: 2_000_000},
		{name: "above duration range", hours: 3_000_000},
		{name: "far above duration range", hours: 1 << 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now()
			s := newTestStore(Limits{ExpirationHours: intPtr(tt.hours)}, &now)
			s.Log(&Entry{Timestamp: now})
			assert.Equal(t, 1, s.Count())
		})
	}
}

func TestMemoryStore_ListFilter(t *testing.T) {
	now := time.Now()
	s := newTestStore(Limits{}, &now)
	s.Log(&Entry{ID: "1", Method: "GET", Path: "/api/users", MatchedMappingID: "m1", ResponseStatus: 200})
	s.Log(&Entry{ID: "2", Method: "POST", Path: "/api/users", MatchedMappingID: "m2", ResponseStatus: 201})
	s.Log(&Entry{ID: "3", Method: "GET", Path: "/health", ResponseStatus: 404})
	s.Log(&Entry{ID: "4", Method: "GET", Path: "/api/orders", MatchedMappingID: "m1", ResponseStatus: 200})

	ids := func(entries []*Entry) []string {
		out := []string{}
		for _, e := range entries {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "3", "4"}, ids(s.List(&Filter{Method: "get"})))
	assert.Equal(t, []string{"1", "2", "4"}, ids(s.List(&Filter{Path: "/api"})))
	assert.Equal(t, []string{"1", "4"}, ids(s.List(&Filter{MatchedID: "m1"})))
	assert.Equal(t, []string{"3"}, ids(s.List(&Filter{Unmatched: true})))
	assert.Equal(t, []string{"2"}, ids(s.List(&Filter{StatusCode: 201})))
	assert.Equal(t, []string{"2", "3"}, ids(s.List(&Filter{Offset: 1, Limit: 2})))
	assert.Equal(t, []string{}, ids(s.List(&Filter{Offset: 10})))

	s.Clear()
	assert.Equal(t, 0, s.Count())
}

func TestTruncateBody(t *testing.T) {
	small := []byte("hello")
	assert.Equal(t, "hello", TruncateBody(small))

	big := make([]byte, MaxBodySize+10)
	assert.Len(t, TruncateBody(big), MaxBodySize)
}
