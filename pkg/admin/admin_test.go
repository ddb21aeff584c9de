package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockd-standalone/pkg/config"
	"github.com/getmockd/mockd-standalone/pkg/mapping"
	"github.com/getmockd/mockd-standalone/pkg/requestlog"
)

func newTestAPI(t *testing.T, cfg config.ServerConfiguration) (*API, *mapping.Store, *requestlog.MemoryStore) {
	t.Helper()
	store := mapping.NewStore()
	log := requestlog.NewMemoryStore(requestlog.Limits{})
	return NewAPI(store, WithSettings(cfg), WithRequestLog(log)), store, log
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	api, _, _ := newTestAPI(t, config.ServerConfiguration{})
	rec := do(t, api, "GET", "/__admin/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestSettings(t *testing.T) {
	port := 8080
	api, _, _ := newTestAPI(t, config.ServerConfiguration{
		Port:          &port,
		AdminUsername: "admin",
		AdminPassword: "secret",
	})

	req := httptest.NewRequest("GET", "/__admin/settings", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(8080), got["port"])
	assert.Equal(t, []any{"http://localhost:8080"}, got["effectiveUrls"])
}

func TestSettings_BoundURLs(t *testing.T) {
	port := 0
	api := NewAPI(mapping.NewStore(),
		WithSettings(config.ServerConfiguration{Port: &port}),
		WithURLs(func() []string { return []string{"http://localhost:41234"} }),
	)

	rec := do(t, api, "GET", "/__admin/settings", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(0), got["port"])
	assert.Equal(t, []any{"http://localhost:41234"}, got["effectiveUrls"])
}

func TestMappingsCRUD(t *testing.T) {
	api, store, _ := newTestAPI(t, config.ServerConfiguration{})

	rec := do(t, api, "POST", "/__admin/mappings", `{
		"request": {"methods": ["GET"], "path": "/hello"},
		"response": {"statusCode": 200, "body": "hi"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created mapping.Mapping
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.GUID)
	assert.Equal(t, 1, store.Count())

	rec = do(t, api, "GET", "/__admin/mappings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list MappingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	rec = do(t, api, "GET", "/__admin/mappings/"+created.GUID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, api, "PUT", "/__admin/mappings/"+created.GUID, `{
		"request": {"path": "/bye"},
		"response": {"statusCode": 410}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/bye", store.Get(created.GUID).Request.Path)

	rec = do(t, api, "DELETE", "/__admin/mappings/"+created.GUID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, store.Count())

	rec = do(t, api, "GET", "/__admin/mappings/"+created.GUID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, api, "DELETE", "/__admin/mappings/"+created.GUID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, api, "PUT", "/__admin/mappings/missing", `{"request": {}, "response": {}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateMapping_Errors(t *testing.T) {
	api, store, _ := newTestAPI(t, config.ServerConfiguration{})

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{name: "invalid json", body: `{`, wantCode: http.StatusBadRequest, wantErr: "invalid_json"},
		{name: "unknown field", body: `{"bogus": 1}`, wantCode: http.StatusBadRequest, wantErr: "invalid_json"},
		{
			name:     "validation",
			body:     `{"request": {"path": "/a", "pathPattern": "^/a$"}, "response": {}}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, api, "POST", "/__admin/mappings", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}

	require.NoError(t, store.Add(&mapping.Mapping{GUID: "fixed"}))
	rec := do(t, api, "POST", "/__admin/mappings", `{"guid": "fixed", "request": {}, "response": {}}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteAllMappings(t *testing.T) {
	api, store, _ := newTestAPI(t, config.ServerConfiguration{})
	require.NoError(t, store.Add(&mapping.Mapping{}))
	require.NoError(t, store.Add(&mapping.Mapping{}))

	rec := do(t, api, "DELETE", "/__admin/mappings", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, store.Count())
}

func TestSaveMappings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mappings")
	api, store, _ := newTestAPI(t, config.ServerConfiguration{MappingsDir: dir})
	m := &mapping.Mapping{Request: mapping.RequestMatcher{Path: "/a"}}
	require.NoError(t, store.Add(m))

	rec := do(t, api, "POST", "/__admin/mappings/save", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SaveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Saved)
	assert.Equal(t, dir, resp.Dir)
	_, err := os.Stat(filepath.Join(dir, m.GUID+".json"))
	assert.NoError(t, err)
}

func TestRequests(t *testing.T) {
	api, _, log := newTestAPI(t, config.ServerConfiguration{})
	log.Log(&requestlog.Entry{ID: "r1", Method: "GET", Path: "/a", MatchedMappingID: "m1", ResponseStatus: 200})
	log.Log(&requestlog.Entry{ID: "r2", Method: "POST", Path: "/b", ResponseStatus: 404})

	rec := do(t, api, "GET", "/__admin/requests", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list RequestListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, 2, list.Total)

	rec = do(t, api, "GET", "/__admin/requests?unmatched=true", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Requests, 1)
	assert.Equal(t, "r2", list.Requests[0].ID)

	rec = do(t, api, "GET", "/__admin/requests?method=get&limit=1&offset=0", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Requests, 1)
	assert.Equal(t, "r1", list.Requests[0].ID)

	rec = do(t, api, "GET", "/__admin/requests/r1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, api, "GET", "/__admin/requests/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, api, "DELETE", "/__admin/requests", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, log.Count())
}

func TestBasicAuth(t *testing.T) {
	api, _, _ := newTestAPI(t, config.ServerConfiguration{AdminUsername: "admin", AdminPassword: "secret"})

	tests := []struct {
		name     string
		path     string
		user     string
		pass     string
		setAuth  bool
		wantCode int
	}{
		{name: "health is exempt", path: "/__admin/health", wantCode: http.StatusOK},
		{name: "missing credentials", path: "/__admin/mappings", wantCode: http.StatusUnauthorized},
		{name: "wrong password", path: "/__admin/mappings", user: "admin", pass: "nope", setAuth: true, wantCode: http.StatusUnauthorized},
		{name: "wrong user", path: "/__admin/mappings", user: "root", pass: "secret", setAuth: true, wantCode: http.StatusUnauthorized},
		{name: "valid", path: "/__admin/mappings", user: "admin", pass: "secret", setAuth: true, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rec := httptest.NewRecorder()
			api.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusUnauthorized {
				assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
			}
		})
	}
}

func TestBasicAuth_RequiresBothCredentials(t *testing.T) {
	api, _, _ := newTestAPI(t, config.ServerConfiguration{AdminUsername: "admin"})
	rec := do(t, api, "GET", "/__admin/mappings", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
