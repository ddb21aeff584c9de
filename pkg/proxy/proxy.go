// Package proxy forwards requests no stub mapping matched to an upstream
// server and records the exchanges as new mappings.
package proxy

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/getmockd/mockd-standalone/pkg/config"
	"github.com/getmockd/mockd-standalone/pkg/logging"
	"github.com/getmockd/mockd-standalone/pkg/mapping"
)

// DefaultTimeout bounds a single upstream round trip.
const DefaultTimeout = 30 * time.Second

// ErrInvalidTarget is returned for a proxy URL that is not an absolute http(s) URL.
var ErrInvalidTarget = errors.New("invalid proxy target")

// Recorder forwards requests to a target base URL and optionally saves each
// exchange as a stub mapping.
type Recorder struct {
	target      *url.URL
	saveMapping bool
	client      *http.Client
	clientCert  *tls.Certificate
	transport   http.RoundTripper
	mappings    *mapping.Store
	mappingsDir string
	log         *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClientCertificate presents cert to upstream servers that request one.
func WithClientCertificate(cert tls.Certificate) Option {
	return func(p *Recorder) {
		p.clientCert = &cert
	}
}

// WithMappingStore adds recorded mappings to store.
func WithMappingStore(store *mapping.Store) Option {
	return func(p *Recorder) {
		p.mappings = store
	}
}

// WithMappingsDir writes recorded mappings below dir.
func WithMappingsDir(dir string) Option {
	return func(p *Recorder) {
		p.mappingsDir = dir
	}
}

// WithTransport replaces the upstream transport. A client certificate set
// with WithClientCertificate is ignored when a transport is given.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Recorder) {
		p.transport = rt
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Recorder) {
		p.log = logging.Component(log, "proxy")
	}
}

// New creates a Recorder from proxy-and-record settings.
func New(settings config.ProxyAndRecordSettings, opts ...Option) (*Recorder, error) {
	target, err := url.Parse(settings.URL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, settings.URL)
	}

	p := &Recorder{
		target:      target,
		saveMapping: settings.SaveMapping,
		log:         logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	transport := p.transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if p.clientCert != nil {
			t.TLSClientConfig = &tls.Config{
				Certificates: []tls.Certificate{*p.clientCert},
				MinVersion:   tls.VersionTLS12,
			}
		}
		transport = t
	}
	p.client = &http.Client{
		Transport: transport,
		Timeout:   DefaultTimeout,
		// Redirects are passed back to the caller unchanged.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return p, nil
}

// Target returns the upstream base URL.
func (p *Recorder) Target() string {
	return p.target.String()
}

// SavesMappings reports whether exchanges are recorded.
func (p *Recorder) SavesMappings() bool {
	return p.saveMapping
}
