package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/getmockd/mockd-standalone/internal/matching"
)

// headerNameRegex validates HTTP header names (RFC 7230).
var headerNameRegex = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+\-.^_\x60|~]+$`)

// Validate checks if the mapping is valid. A missing GUID is allowed; the
// store assigns one.
func (m *Mapping) Validate() error {
	req := m.Request

	if req.Path != "" && req.PathPattern != "" {
		return &ValidationError{Field: "request.path", Message: "path and pathPattern are mutually exclusive"}
	}
	if req.Path != "" {
		if !strings.HasPrefix(req.Path, "/") && !strings.HasPrefix(req.Path, "*") {
			return &ValidationError{Field: "request.path", Message: "path must start with /"}
		}
		if err := matching.ValidatePath(req.Path); err != nil {
			return &ValidationError{Field: "request.path", Message: err.Error()}
		}
	}
	if req.PathPattern != "" {
		if err := matching.ValidatePathPattern(req.PathPattern); err != nil {
			return &ValidationError{Field: "request.pathPattern", Message: fmt.Sprintf("invalid regex: %v", err)}
		}
	}
	for _, method := range req.Methods {
		if strings.TrimSpace(method) == "" {
			return &ValidationError{Field: "request.methods", Message: "method must not be empty"}
		}
	}
	for name := range req.Headers {
		if !headerNameRegex.MatchString(name) {
			return &ValidationError{Field: "request.headers", Message: fmt.Sprintf("invalid header name %q", name)}
		}
	}
	for path := range req.BodyJSONPath {
		if err := matching.ValidateJSONPathExpression(path); err != nil {
			return &ValidationError{Field: "request.bodyJsonPath", Message: err.Error()}
		}
	}

	resp := m.Response
	if resp.StatusCode != 0 && (resp.StatusCode < 100 || resp.StatusCode > 599) {
		return &ValidationError{Field: "response.statusCode", Message: "status code must be between 100 and 599"}
	}
	if resp.Body != "" && resp.BodyAsJSON != nil {
		return &ValidationError{Field: "response.body", Message: "body and bodyAsJson are mutually exclusive"}
	}
	if resp.DelayMs < 0 {
		return &ValidationError{Field: "response.delayMs", Message: "delay must not be negative"}
	}
	for name := range resp.Headers {
		if !headerNameRegex.MatchString(name) {
			return &ValidationError{Field: "response.headers", Message: fmt.Sprintf("invalid header name %q", name)}
		}
	}
	return nil
}
