package mapping

import (
	"encoding/json"
	"net/http"

	"github.com/getmockd/mockd-standalone/internal/matching"
)

// Mapping pairs request criteria with a canned response.
type Mapping struct {
	GUID  string `json:"guid" yaml:"guid"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	// Priority orders fully matching mappings; lower values win.
	Priority int                `json:"priority,omitempty" yaml:"priority,omitempty"`
	Request  RequestMatcher     `json:"request" yaml:"request"`
	Response ResponseDefinition `json:"response" yaml:"response"`
}

// RequestMatcher defines the request criteria of a mapping. Empty fields
// are ignored.
type RequestMatcher struct {
	Methods      []string          `json:"methods,omitempty" yaml:"methods,omitempty"`
	Path         string            `json:"path,omitempty" yaml:"path,omitempty"`
	PathPattern  string            `json:"pathPattern,omitempty" yaml:"pathPattern,omitempty"`
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Params       map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	BodyEquals   string            `json:"bodyEquals,omitempty" yaml:"bodyEquals,omitempty"`
	BodyContains string            `json:"bodyContains,omitempty" yaml:"bodyContains,omitempty"`
	BodyJSONPath map[string]any    `json:"bodyJsonPath,omitempty" yaml:"bodyJsonPath,omitempty"`
}

// Criteria converts the matcher for scoring.
func (m RequestMatcher) Criteria() matching.Criteria {
	return matching.Criteria{
		Methods:      m.Methods,
		Path:         m.Path,
		PathPattern:  m.PathPattern,
		Headers:      m.Headers,
		Params:       m.Params,
		BodyEquals:   m.BodyEquals,
		BodyContains: m.BodyContains,
		BodyJSONPath: m.BodyJSONPath,
	}
}

// ResponseDefinition is the response served for a matching request.
type ResponseDefinition struct {
	// StatusCode defaults to 200 when zero.
	StatusCode int               `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string            `json:"body,omitempty" yaml:"body,omitempty"`
	// BodyAsJSON is marshalled as the body; it excludes Body.
	BodyAsJSON any `json:"bodyAsJson,omitempty" yaml:"bodyAsJson,omitempty"`
	DelayMs    int `json:"delayMs,omitempty" yaml:"delayMs,omitempty"`
}

// Status returns the status code, applying the 200 default.
func (r ResponseDefinition) Status() int {
	if r.StatusCode == 0 {
		return http.StatusOK
	}
	return r.StatusCode
}

// BodyBytes returns the response body.
func (r ResponseDefinition) BodyBytes() ([]byte, error) {
	if r.BodyAsJSON != nil {
		return json.Marshal(r.BodyAsJSON)
	}
	return []byte(r.Body), nil
}

// Clone returns a copy whose slices and maps are not shared with m.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Request.Methods = append([]string(nil), m.Request.Methods...)
	cp.Request.Headers = cloneStrings(m.Request.Headers)
	cp.Request.Params = cloneStrings(m.Request.Params)
	if m.Request.BodyJSONPath != nil {
		cp.Request.BodyJSONPath = make(map[string]any, len(m.Request.BodyJSONPath))
		for k, v := range m.Request.BodyJSONPath {
			cp.Request.BodyJSONPath[k] = v
		}
	}
	cp.Response.Headers = cloneStrings(m.Response.Headers)
	return &cp
}

func cloneStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
