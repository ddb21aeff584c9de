package admin

import (
	"net/http"
	"strconv"

	"github.com/getmockd/mockd-standalone/pkg/httputil"
	"github.com/getmockd/mockd-standalone/pkg/requestlog"
)

// RequestListResponse is returned by GET /requests.
type RequestListResponse struct {
	Requests []*requestlog.Entry `json:"requests"`
	Count    int                 `json:"count"`
	Total    int                 `json:"total"`
}

// handleListRequests handles GET /requests. Supported query parameters:
// method, path (prefix), matchedId, unmatched, status, limit, offset.
func (a *API) handleListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &requestlog.Filter{
		Method:    q.Get("method"),
		Path:      q.Get("path"),
		MatchedID: q.Get("matchedId"),
	}
	filter.Unmatched, _ = strconv.ParseBool(q.Get("unmatched"))
	if n, ok := parsePositiveInt(q.Get("status")); ok {
		filter.StatusCode = n
	}
	if n, ok := parsePositiveInt(q.Get("limit")); ok {
		filter.Limit = n
	}
	if n, ok := parseNonNegativeInt(q.Get("offset")); ok {
		filter.Offset = n
	}

	entries := a.requests.List(filter)
	httputil.WriteJSON(w, http.StatusOK, RequestListResponse{
		Requests: entries,
		Count:    len(entries),
		Total:    a.requests.Count(),
	})
}

// handleGetRequest handles GET /requests/{id}.
func (a *API) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	entry := a.requests.Get(r.PathValue("id"))
	if entry == nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "Request not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

// handleClearRequests handles DELETE /requests.
func (a *API) handleClearRequests(w http.ResponseWriter, r *http.Request) {
	a.requests.Clear()
	httputil.WriteNoContent(w)
}

// parsePositiveInt returns a parsed int only when the value is a valid positive integer.
func parsePositiveInt(v string) (int, bool) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// parseNonNegativeInt returns a parsed int only when the value is a valid non-negative integer.
func parseNonNegativeInt(v string) (int, bool) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
