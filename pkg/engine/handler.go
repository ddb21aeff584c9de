// Core HTTP request handler for the mock engine.

package engine

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/mockd-standalone/pkg/httputil"
	"github.com/getmockd/mockd-standalone/pkg/logging"
	"github.com/getmockd/mockd-standalone/pkg/mapping"
	"github.com/getmockd/mockd-standalone/pkg/proxy"
	"github.com/getmockd/mockd-standalone/pkg/requestlog"
)

// MaxRequestBodySize is the maximum allowed request body size for mapping matching (10MB).
const MaxRequestBodySize = 10 << 20

// NoMatchStatus is the body status text of an unmatched, unproxied request.
const NoMatchStatus = "No matching mapping found"

// Handler matches incoming HTTP requests against stored mappings.
type Handler struct {
	mappings     *mapping.Store
	logger       requestlog.Logger
	recorder     *proxy.Recorder
	allowPartial bool
	log          *slog.Logger
}

// NewHandler creates a new Handler serving mappings from store.
func NewHandler(store *mapping.Store) *Handler {
	return &Handler{
		mappings: store,
		log:      logging.Nop(),
	}
}

// SetLogger sets the request logger for the handler.
func (h *Handler) SetLogger(logger requestlog.Logger) {
	h.logger = logger
}

// SetOperationalLogger sets the operational logger for error/warning messages.
func (h *Handler) SetOperationalLogger(log *slog.Logger) {
	h.log = logging.Component(log, "handler")
}

// SetRecorder forwards unmatched requests to rec.
func (h *Handler) SetRecorder(rec *proxy.Recorder) {
	h.recorder = rec
}

// SetAllowPartial enables serving the best partial match when no mapping
// matches fully.
func (h *Handler) SetAllowPartial(allow bool) {
	h.allowPartial = allow
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.log.Warn("request body too large", "path", r.URL.Path, "limit", MaxRequestBodySize)
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body exceeds maximum allowed size")
		h.logRequest(startTime, r, bodyBytes, func(e *requestlog.Entry) {
			e.ResponseStatus = http.StatusRequestEntityTooLarge
			e.Error = err.Error()
		})
		return
	}
	if err != nil {
		h.log.Warn("failed to read request body", "path", r.URL.Path, "error", err)
		httputil.WriteStatus(w, http.StatusBadRequest, "Failed to read request body")
		h.logRequest(startTime, r, bodyBytes, func(e *requestlog.Entry) {
			e.ResponseStatus = http.StatusBadRequest
			e.Error = err.Error()
		})
		return
	}

	if match, ok := h.mappings.Find(r, bodyBytes, h.allowPartial); ok {
		statusCode := h.writeResponse(w, r, match.Mapping.Response)
		h.logRequest(startTime, r, bodyBytes, func(e *requestlog.Entry) {
			e.MatchedMappingID = match.Mapping.GUID
			e.PartialMatch = match.Partial
			e.ResponseStatus = statusCode
		})
		return
	}

	if h.recorder != nil {
		statusCode, err := h.recorder.Forward(w, r, bodyBytes)
		h.logRequest(startTime, r, bodyBytes, func(e *requestlog.Entry) {
			e.Proxied = true
			e.ResponseStatus = statusCode
			if err != nil {
				e.Error = err.Error()
			}
		})
		return
	}

	httputil.WriteStatus(w, http.StatusNotFound, NoMatchStatus)
	h.logRequest(startTime, r, bodyBytes, func(e *requestlog.Entry) {
		e.ResponseStatus = http.StatusNotFound
	})
}

// logRequest records the request, letting outcome fill in how it was served.
func (h *Handler) logRequest(startTime time.Time, r *http.Request, bodyBytes []byte, outcome func(*requestlog.Entry)) {
	if h.logger == nil {
		return
	}
	entry := &requestlog.Entry{
		Timestamp:  startTime,
		Method:     r.Method,
		Path:       r.URL.Path,
		Query:      r.URL.RawQuery,
		Headers:    r.Header.Clone(),
		Body:       requestlog.TruncateBody(bodyBytes),
		BodySize:   len(bodyBytes),
		RemoteAddr: r.RemoteAddr,
	}
	outcome(entry)
	entry.DurationMs = int(time.Since(startTime).Milliseconds())
	h.logger.Log(entry)
}

// writeResponse writes the mapping response and returns the status written.
func (h *Handler) writeResponse(w http.ResponseWriter, r *http.Request, resp mapping.ResponseDefinition) int {
	if resp.DelayMs > 0 {
		timer := time.NewTimer(time.Duration(resp.DelayMs) * time.Millisecond)
		select {
		case <-timer.C:
		case <-r.Context().Done():
			timer.Stop()
		}
	}

	body, err := resp.BodyBytes()
	if err != nil {
		h.log.Error("failed to encode response body", "error", err)
		httputil.WriteStatus(w, http.StatusInternalServerError, "Failed to encode response body")
		return http.StatusInternalServerError
	}

	userSetContentType := false
	for name, value := range resp.Headers {
		w.Header().Set(name, value)
		if strings.EqualFold(name, "Content-Type") {
			userSetContentType = true
		}
	}

	if !userSetContentType && len(body) > 0 {
		switch {
		case resp.BodyAsJSON != nil || looksLikeJSON(string(body)):
			w.Header().Set("Content-Type", "application/json")
		case looksLikeXML(string(body)):
			w.Header().Set("Content-Type", "application/xml")
		default:
			w.Header().Set("Content-Type", "text/plain")
		}
	}

	status := resp.Status()
	w.WriteHeader(status)
	if len(body) > 0 {
		_, _ = w.Write(body)
	}
	return status
}

// looksLikeJSON returns true if the string appears to be JSON content.
func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}

// looksLikeXML returns true if the string appears to be XML content.
func looksLikeXML(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">")
}
