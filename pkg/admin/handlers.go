package admin

import (
	"net/http"

	"github.com/getmockd/mockd-standalone/pkg/config"
	"github.com/getmockd/mockd-standalone/pkg/httputil"
)

// ErrorResponse represents an error response.
type ErrorResponse = httputil.ErrorResponse

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int    `json:"uptime"`
}

// handleHealth handles GET /health.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: a.Uptime(),
	})
}

// handleGetSettings handles GET /settings. The admin password is masked.
func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings := a.settings
	if settings.AdminPassword != "" {
		settings.AdminPassword = "********"
	}
	urls := settings.ListenURLs()
	if a.urls != nil {
		urls = a.urls()
	}
	httputil.WriteJSON(w, http.StatusOK, struct {
		config.ServerConfiguration
		EffectiveURLs []string `json:"effectiveUrls,omitempty"`
	}{settings, urls})
}
