package proxy

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getmockd/mockd-standalone/pkg/httputil"
	"github.com/getmockd/mockd-standalone/pkg/mapping"
)

// DefaultMaxBodySize is the maximum upstream response body read (10MB).
const DefaultMaxBodySize = 10 * 1024 * 1024

// ErrResponseTooLarge is returned by Forward when the upstream body exceeds
// DefaultMaxBodySize. Nothing is recorded for such exchanges.
var ErrResponseTooLarge = errors.New("upstream response too large")

// Forward sends r, whose body has already been read into body, to the
// target and writes the upstream response to w. It returns the status
// written. Upstream failures are answered with 502 and returned.
func (p *Recorder) Forward(w http.ResponseWriter, r *http.Request, body []byte) (int, error) {
	startTime := time.Now()

	resp, err := p.forwardRequest(r, body)
	if err != nil {
		p.log.Warn("error forwarding request", "method", r.Method, "path", r.URL.Path, "error", err)
		writeBadGateway(w, "Error forwarding request: "+err.Error())
		return http.StatusBadGateway, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBodySize+1))
	if err != nil {
		p.log.Warn("error reading upstream response", "error", err)
		writeBadGateway(w, "Error reading response")
		return http.StatusBadGateway, err
	}
	if len(respBody) > DefaultMaxBodySize {
		p.log.Warn("upstream response too large", "method", r.Method, "path", r.URL.Path, "limit", DefaultMaxBodySize)
		writeBadGateway(w, "Upstream response exceeds maximum allowed size")
		return http.StatusBadGateway, ErrResponseTooLarge
	}

	p.log.Debug("proxied request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(startTime),
	)

	if p.saveMapping {
		p.record(r, resp, respBody)
	}

	copyHeaders(w.Header(), resp.Header)
	removeHopByHopHeaders(w.Header())
	w.Header().Del("Content-Length")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(respBody)
	return resp.StatusCode, nil
}

// forwardRequest forwards an HTTP request to the target server and returns the response.
func (p *Recorder) forwardRequest(r *http.Request, body []byte) (*http.Response, error) {
	outReq, err := http.NewRequestWithContext(r.Context(), r.Method, p.targetURL(r.URL), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	copyHeaders(outReq.Header, r.Header)
	removeHopByHopHeaders(outReq.Header)

	outReq.Header.Set("X-Forwarded-For", r.RemoteAddr)
	outReq.Header.Set("X-Forwarded-Host", r.Host)

	return p.client.Do(outReq)
}

// targetURL joins the target base path with the request path and merges
// the query strings, target parameters first.
func (p *Recorder) targetURL(in *url.URL) string {
	out := *p.target
	out.Path = strings.TrimSuffix(p.target.Path, "/") + in.Path
	out.RawPath = ""
	switch {
	case p.target.RawQuery == "":
		out.RawQuery = in.RawQuery
	case in.RawQuery != "":
		out.RawQuery = p.target.RawQuery + "&" + in.RawQuery
	}
	return out.String()
}

// record converts the exchange to a mapping, stores it and writes it to
// disk. Failures are logged; the proxied response is still served.
func (p *Recorder) record(r *http.Request, resp *http.Response, respBody []byte) {
	m := ToMapping(r, resp.StatusCode, resp.Header, respBody)

	if p.mappings != nil {
		if err := p.mappings.Add(m); err != nil {
			p.log.Warn("error storing recorded mapping", "path", r.URL.Path, "error", err)
			return
		}
	}
	if p.mappingsDir != "" {
		path, err := mapping.SaveFile(p.mappingsDir, m)
		if err != nil {
			p.log.Warn("error saving recorded mapping", "path", r.URL.Path, "error", err)
			return
		}
		p.log.Info("recorded mapping", "guid", m.GUID, "file", path)
	}
}

// copyHeaders copies headers from src to dst.
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

// hopByHopHeaders should not be forwarded.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"TE",
	"Trailers",
	"Transfer-Encoding",
	"Upgrade",
}

// removeHopByHopHeaders removes headers that should not be forwarded.
func removeHopByHopHeaders(h http.Header) {
	for _, header := range hopByHopHeaders {
		h.Del(header)
	}
}

func writeBadGateway(w http.ResponseWriter, message string) {
	httputil.WriteError(w, http.StatusBadGateway, "bad_gateway", message)
}
