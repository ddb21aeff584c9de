package admin

import (
	"errors"
	"net/http"

	"github.com/getmockd/mockd-standalone/pkg/httputil"
	"github.com/getmockd/mockd-standalone/pkg/mapping"
)

// MappingListResponse is returned by GET /mappings.
type MappingListResponse struct {
	Mappings []*mapping.Mapping `json:"mappings"`
	Total    int                `json:"total"`
}

// SaveResponse is returned by POST /mappings/save.
type SaveResponse struct {
	Saved int    `json:"saved"`
	Dir   string `json:"dir"`
}

// handleListMappings handles GET /mappings.
func (a *API) handleListMappings(w http.ResponseWriter, r *http.Request) {
	list := a.mappings.List()
	httputil.WriteJSON(w, http.StatusOK, MappingListResponse{Mappings: list, Total: len(list)})
}

// handleCreateMapping handles POST /mappings.
func (a *API) handleCreateMapping(w http.ResponseWriter, r *http.Request) {
	var m mapping.Mapping
	if err := httputil.DecodeJSON(w, r, maxBodySize, &m); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}

	if err := a.mappings.Add(&m); err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.log.Debug("mapping created", "guid", m.GUID)
	httputil.WriteJSON(w, http.StatusCreated, a.mappings.Get(m.GUID))
}

// handleDeleteAllMappings handles DELETE /mappings.
func (a *API) handleDeleteAllMappings(w http.ResponseWriter, r *http.Request) {
	a.mappings.Reset()
	httputil.WriteNoContent(w)
}

// handleSaveMappings handles POST /mappings/save, writing every mapping to
// the mappings directory.
func (a *API) handleSaveMappings(w http.ResponseWriter, r *http.Request) {
	dir := a.settings.MappingsDirOrDefault()
	list := a.mappings.List()
	if err := mapping.SaveAll(dir, list); err != nil {
		a.log.Error("failed to save mappings", "dir", dir, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "save_failed", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SaveResponse{Saved: len(list), Dir: dir})
}

// handleGetMapping handles GET /mappings/{guid}.
func (a *API) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	m := a.mappings.Get(r.PathValue("guid"))
	if m == nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "Mapping not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

// handleUpdateMapping handles PUT /mappings/{guid}.
func (a *API) handleUpdateMapping(w http.ResponseWriter, r *http.Request) {
	guid := r.PathValue("guid")
	var m mapping.Mapping
	if err := httputil.DecodeJSON(w, r, maxBodySize, &m); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}

	if err := a.mappings.Update(guid, &m); err != nil {
		a.writeStoreError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a.mappings.Get(guid))
}

// handleDeleteMapping handles DELETE /mappings/{guid}.
func (a *API) handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	if err := a.mappings.Delete(r.PathValue("guid")); err != nil {
		a.writeStoreError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (a *API) writeStoreError(w http.ResponseWriter, err error) {
	var vErr *mapping.ValidationError
	switch {
	case errors.As(err, &vErr):
		httputil.WriteError(w, http.StatusBadRequest, "validation_error", vErr.Error())
	case errors.Is(err, mapping.ErrMappingNotFound):
		httputil.WriteError(w, http.StatusNotFound, "not_found", "Mapping not found")
	case errors.Is(err, mapping.ErrDuplicateMapping):
		httputil.WriteError(w, http.StatusConflict, "duplicate", err.Error())
	default:
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
