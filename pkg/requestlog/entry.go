package requestlog

import "time"

// Entry captures one request and the outcome of serving it.
type Entry struct {
	// ID is a unique identifier for the log entry.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	Method string `json:"method"`
	Path   string `json:"path"`

	// Query is the raw query string.
	Query string `json:"query,omitempty"`

	// Headers are the request headers (multi-value).
	Headers map[string][]string `json:"headers,omitempty"`

	// Body is the request body content, truncated to MaxBodySize.
	Body string `json:"body,omitempty"`

	// BodySize is the original body size in bytes.
	BodySize int `json:"bodySize"`

	RemoteAddr string `json:"remoteAddr,omitempty"`

	// MatchedMappingID is the GUID of the mapping that served the request.
	MatchedMappingID string `json:"matchedMappingId,omitempty"`

	// PartialMatch is set when the mapping matched only partially.
	PartialMatch bool `json:"partialMatch,omitempty"`

	// Proxied is set when the request was forwarded upstream.
	Proxied bool `json:"proxied,omitempty"`

	ResponseStatus int `json:"responseStatus"`

	// DurationMs is the request processing time in milliseconds.
	DurationMs int `json:"durationMs"`

	// Error contains the error message if the request failed.
	Error string `json:"error,omitempty"`
}

// MaxBodySize is the largest request body kept in an Entry.
const MaxBodySize = 10 * 1024

// TruncateBody returns body as a string capped at MaxBodySize.
func TruncateBody(body []byte) string {
	if len(body) > MaxBodySize {
		return string(body[:MaxBodySize])
	}
	return string(body)
}
