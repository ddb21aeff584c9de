// Route registration for the admin API.

package admin

import (
	"net/http"
)

// registerRoutes sets up all API routes, relative to PathPrefix.
func (a *API) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /settings", a.handleGetSettings)

	// Stub mappings
	mux.HandleFunc("GET /mappings", a.handleListMappings)
	mux.HandleFunc("POST /mappings", a.handleCreateMapping)
	mux.HandleFunc("DELETE /mappings", a.handleDeleteAllMappings)
	mux.HandleFunc("POST /mappings/save", a.handleSaveMappings)
	mux.HandleFunc("GET /mappings/{guid}", a.handleGetMapping)
	mux.HandleFunc("PUT /mappings/{guid}", a.handleUpdateMapping)
	mux.HandleFunc("DELETE /mappings/{guid}", a.handleDeleteMapping)

	// Request log
	mux.HandleFunc("GET /requests", a.handleListRequests)
	mux.HandleFunc("DELETE /requests", a.handleClearRequests)
	mux.HandleFunc("GET /requests/{id}", a.handleGetRequest)
}
