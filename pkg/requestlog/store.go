package requestlog

import "strings"

// Logger is the minimal interface for recording request entries.
type Logger interface {
	Log(entry *Entry)
}

// Store defines request history storage queried by the admin API.
type Store interface {
	Logger

	// Get retrieves a log entry by ID, or nil.
	Get(id string) *Entry

	// List returns log entries oldest first, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all log entries.
	Clear()

	// Count returns the number of log entries.
	Count() int
}

// Filter defines criteria for filtering request logs.
type Filter struct {
	// Method filters by HTTP method, case-insensitively.
	Method string

	// Path filters by path prefix.
	Path string

	// MatchedID filters by matched mapping GUID.
	MatchedID string

	// Unmatched selects entries served by no mapping.
	Unmatched bool

	// StatusCode filters by response status code.
	StatusCode int

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of entries to skip.
	Offset int
}

func (f *Filter) matches(e *Entry) bool {
	if f == nil {
		return true
	}
	if f.Method != "" && !strings.EqualFold(f.Method, e.Method) {
		return false
	}
	if f.Path != "" && !strings.HasPrefix(e.Path, f.Path) {
		return false
	}
	if f.MatchedID != "" && f.MatchedID != e.MatchedMappingID {
		return false
	}
	if f.Unmatched && e.MatchedMappingID != "" {
		return false
	}
	if f.StatusCode != 0 && f.StatusCode != e.ResponseStatus {
		return false
	}
	return true
}
