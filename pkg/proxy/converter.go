package proxy

import (
	"encoding/json"
	"mime"
	"net/http"
	"sort"
	"strings"

	"github.com/getmockd/mockd-standalone/pkg/mapping"
)

// skippedResponseHeaders are not replayed by recorded mappings.
var skippedResponseHeaders = map[string]bool{
	"Content-Length": true,
	"Date":           true,
}

// ToMapping converts a proxied exchange into a stub mapping that matches
// the same method, path and query parameters and replays the response.
// JSON responses are stored as bodyAsJson.
func ToMapping(r *http.Request, status int, header http.Header, body []byte) *mapping.Mapping {
	m := &mapping.Mapping{
		Title: "Recorded " + r.Method + " " + r.URL.Path,
		Request: mapping.RequestMatcher{
			Methods: []string{r.Method},
			Path:    r.URL.Path,
		},
		Response: mapping.ResponseDefinition{
			StatusCode: status,
		},
	}

	if query := r.URL.Query(); len(query) > 0 {
		m.Request.Params = make(map[string]string, len(query))
		for name, values := range query {
			if len(values) > 0 {
				m.Request.Params[name] = values[0]
			}
		}
	}

	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		canonical := http.CanonicalHeaderKey(name)
		if skippedResponseHeaders[canonical] || isHopByHop(canonical) {
			continue
		}
		if m.Response.Headers == nil {
			m.Response.Headers = make(map[string]string)
		}
		m.Response.Headers[canonical] = strings.Join(header.Values(name), ", ")
	}

	if isJSON(header.Get("Content-Type")) {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err == nil && decoded != nil {
			m.Response.BodyAsJSON = decoded
			return m
		}
	}
	m.Response.Body = string(body)
	return m
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func isHopByHop(name string) bool {
	for _, h := range hopByHopHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}
