package engine

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/mockd-standalone/pkg/admin"
	"github.com/getmockd/mockd-standalone/pkg/config"
	"github.com/getmockd/mockd-standalone/pkg/logging"
	"github.com/getmockd/mockd-standalone/pkg/mapping"
	"github.com/getmockd/mockd-standalone/pkg/proxy"
	"github.com/getmockd/mockd-standalone/pkg/requestlog"
	mockdtls "github.com/getmockd/mockd-standalone/pkg/tls"
)

// ErrAlreadyRunning is returned by Start on a running server.
var ErrAlreadyRunning = errors.New("server is already running")

// shutdownTimeout bounds graceful shutdown of each listener.
const shutdownTimeout = 5 * time.Second

// Server is the mock server engine.
type Server struct {
	cfg        config.ServerConfiguration
	mappings   *mapping.Store
	requestLog *requestlog.MemoryStore
	handler    *Handler
	transport  http.RoundTripper
	log        *slog.Logger

	mu            sync.RWMutex
	servers       []*http.Server
	urls          []string
	running       bool
	startTime     time.Time
	staticsLoaded bool
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMappingStore serves mappings from store instead of a new empty one.
func WithMappingStore(store *mapping.Store) ServerOption {
	return func(s *Server) {
		if store != nil {
			s.mappings = store
		}
	}
}

// WithProxyTransport sets the upstream transport used in proxy-and-record mode.
func WithProxyTransport(rt http.RoundTripper) ServerOption {
	return func(s *Server) {
		s.transport = rt
	}
}

// NewServer creates a new Server with the given configuration.
// Optional ServerOption functions can be passed to customize the server.
func NewServer(cfg config.ServerConfiguration, opts ...ServerOption) *Server {
	s := &Server{
		cfg:      cfg,
		mappings: mapping.NewStore(),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.requestLog = requestlog.NewMemoryStore(requestlog.Limits{
		MaxCount:        cfg.MaxRequestLogCount,
		ExpirationHours: cfg.RequestLogExpirationDuration,
	})
	s.handler = NewHandler(s.mappings)
	s.handler.SetLogger(s.requestLog)
	s.handler.SetOperationalLogger(s.log)
	s.handler.SetAllowPartial(cfg.AllowPartialMapping)
	return s
}

// Start creates a server from cfg and starts it.
func Start(cfg config.ServerConfiguration, opts ...ServerOption) (*Server, error) {
	s := NewServer(cfg, opts...)
	if err := s.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

// Start validates the configuration, prepares mappings, request log and
// proxy, binds every listen URL and then serves them. Nothing is served
// unless every listener could be bound.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	if s.cfg.ReadStaticMappings && !s.staticsLoaded {
		if err := s.loadStaticMappings(); err != nil {
			return err
		}
		s.staticsLoaded = true
	}

	if s.cfg.ProxyAndRecord != nil {
		rec, err := s.newRecorder(*s.cfg.ProxyAndRecord)
		if err != nil {
			return err
		}
		s.handler.SetRecorder(rec)
		s.log.Info("proxy and record enabled", "target", rec.Target(), "save", rec.SavesMappings())
	}

	listeners, urls, err := s.bind()
	if err != nil {
		return err
	}

	httpHandler := s.routes()
	s.servers = make([]*http.Server, 0, len(listeners))
	for _, ln := range listeners {
		srv := &http.Server{
			Handler:           httpHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		s.servers = append(s.servers, srv)
		go func(ln net.Listener) {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("server error", "addr", ln.Addr().String(), "error", err)
			}
		}(ln)
	}

	s.urls = urls
	s.running = true
	s.startTime = time.Now()
	s.log.Info("engine started", "urls", urls, "mappings", s.mappings.Count(), "proxy", s.cfg.ProxyAndRecord != nil)
	return nil
}

// loadStaticMappings adds every mapping file below the mappings directory.
func (s *Server) loadStaticMappings() error {
	dir := s.cfg.MappingsDirOrDefault()
	loaded, err := mapping.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to load mappings from %s: %w", dir, err)
	}
	for _, m := range loaded {
		if err := s.mappings.Add(m); err != nil {
			return fmt.Errorf("failed to add mapping %s: %w", m.GUID, err)
		}
	}
	s.log.Debug("static mappings loaded", "dir", dir, "count", len(loaded))
	return nil
}

// newRecorder creates the proxy recorder, selecting the client certificate
// from the certificate directory when one is configured.
func (s *Server) newRecorder(settings config.ProxyAndRecordSettings) (*proxy.Recorder, error) {
	opts := []proxy.Option{
		proxy.WithMappingStore(s.mappings),
		proxy.WithMappingsDir(s.cfg.MappingsDirOrDefault()),
		proxy.WithLogger(s.log),
	}
	if s.transport != nil {
		opts = append(opts, proxy.WithTransport(s.transport))
	}

	if selector := settings.X509Certificate2ThumbprintOrSubjectName; selector != "" {
		dir := s.cfg.CertificateDirOrDefault()
		certs, err := mockdtls.LoadCertificateStore(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load certificates from %s: %w", dir, err)
		}
		cert, err := certs.Find(selector)
		if err != nil {
			return nil, fmt.Errorf("proxy client certificate: %w", err)
		}
		opts = append(opts, proxy.WithClientCertificate(cert.Certificate))
	}

	return proxy.New(settings, opts...)
}

// bind opens a listener for every listen URL and returns them with the
// effective URLs. On failure every listener already opened is closed.
func (s *Server) bind() ([]net.Listener, []string, error) {
	raw := s.cfg.ListenURLs()
	parsed := make([]config.ListenURL, 0, len(raw))
	var httpsHosts []string
	for _, u := range raw {
		l, err := config.ParseListenURL(u)
		if err != nil {
			return nil, nil, err
		}
		parsed = append(parsed, l)
		if l.Scheme == "https" {
			httpsHosts = append(httpsHosts, l.Host)
		}
	}

	var tlsConfig *tls.Config
	if len(httpsHosts) > 0 {
		var err error
		tlsConfig, err = NewTLSManager(httpsHosts...).BuildConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to setup TLS: %w", err)
		}
	}

	listeners := make([]net.Listener, 0, len(parsed))
	urls := make([]string, 0, len(parsed))
	closeAll := func() {
		for _, ln := range listeners {
			_ = ln.Close()
		}
	}

	for _, l := range parsed {
		addr := l.BindAddress()
		ln, err := net.Listen("tcp", addr) //nolint:gosec // G102: wildcard hosts bind all interfaces on request
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to bind %s: %w", addr, err)
		}
		port := l.Port
		if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
			port = tcpAddr.Port
		}
		if l.Scheme == "https" {
			ln = tls.NewListener(ln, tlsConfig)
		}
		listeners = append(listeners, ln)
		urls = append(urls, l.WithPort(port))
	}
	return listeners, urls, nil
}

// routes returns the top-level handler: the admin API under
// admin.PathPrefix when enabled, the mock handler otherwise.
func (s *Server) routes() http.Handler {
	if !s.cfg.StartAdminInterface {
		return s.handler
	}

	adminAPI := admin.NewAPI(s.mappings,
		admin.WithSettings(s.cfg),
		admin.WithRequestLog(s.requestLog),
		admin.WithURLs(s.URLs),
		admin.WithLogger(s.log),
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == admin.PathPrefix || strings.HasPrefix(r.URL.Path, admin.PathPrefix+"/") {
			adminAPI.ServeHTTP(w, r)
			return
		}
		s.handler.ServeHTTP(w, r)
	})
}

// Stop gracefully shuts down every listener.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range s.servers {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown: %w", err))
		}
	}

	s.servers = nil
	s.running = false
	s.log.Info("engine stopped")

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// URLs returns the effective listen URLs. Port 0 is reported as the port
// actually bound.
func (s *Server) URLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime in seconds.
func (s *Server) Uptime() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return int(time.Since(s.startTime).Seconds())
}

// Config returns the server configuration.
func (s *Server) Config() config.ServerConfiguration {
	return s.cfg
}

// Mappings returns the mapping store served by the engine.
func (s *Server) Mappings() *mapping.Store {
	return s.mappings
}

// RequestLog returns the request history.
func (s *Server) RequestLog() requestlog.Store {
	return s.requestLog
}

// Handler returns the mock request handler, without the admin routes.
func (s *Server) Handler() http.Handler {
	return s.handler
}
