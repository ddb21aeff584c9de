package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/getmockd/mockd-standalone/pkg/config"
	"github.com/getmockd/mockd-standalone/pkg/logging"
	"github.com/getmockd/mockd-standalone/pkg/mapping"
	"github.com/getmockd/mockd-standalone/pkg/requestlog"
)

// PathPrefix is where the admin API is mounted.
const PathPrefix = "/__admin"

// maxBodySize caps admin request bodies.
const maxBodySize = 1 << 20

// API serves the admin routes.
type API struct {
	mappings  *mapping.Store
	requests  requestlog.Store
	settings  config.ServerConfiguration
	urls      func() []string
	auth      *basicAuth
	startTime time.Time
	log       *slog.Logger
	handler   http.Handler
}

// Option configures an API.
type Option func(*API)

// WithRequestLog exposes store under /requests.
func WithRequestLog(store requestlog.Store) Option {
	return func(a *API) {
		a.requests = store
	}
}

// WithSettings sets the configuration reported by /settings. It also
// supplies the mappings directory and the basic auth credentials.
func WithSettings(cfg config.ServerConfiguration) Option {
	return func(a *API) {
		a.settings = cfg
	}
}

// WithURLs reports the addresses actually bound in /settings. Without it
// the configured listen URLs are reported.
func WithURLs(urls func() []string) Option {
	return func(a *API) {
		a.urls = urls
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		a.log = logging.Component(log, "admin")
	}
}

// NewAPI creates the admin API over a mapping store.
func NewAPI(mappings *mapping.Store, opts ...Option) *API {
	a := &API{
		mappings:  mappings,
		requests:  requestlog.NewMemoryStore(requestlog.Limits{}),
		startTime: time.Now(),
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.settings.AdminAuthEnabled() {
		a.auth = newBasicAuth(a.settings.AdminUsername, a.settings.AdminPassword)
	}

	mux := http.NewServeMux()
	a.registerRoutes(mux)
	var h http.Handler = mux
	if a.auth != nil {
		h = a.auth.middleware(h)
	}
	a.handler = http.StripPrefix(PathPrefix, h)
	return a
}

// ServeHTTP serves requests whose path starts with PathPrefix.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Uptime returns the number of seconds since the API was created.
func (a *API) Uptime() int {
	return int(time.Since(a.startTime).Seconds())
}
