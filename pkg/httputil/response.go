// Package httputil provides the JSON response helpers shared by the engine,
// the proxy and the admin API.
package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of admin and proxy error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusResponse is the body of mock-side responses produced by the engine
// itself rather than by a mapping.
type StatusResponse struct {
	Status string `json:"status"`
}

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an ErrorResponse with the given status code.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// WriteStatus writes a StatusResponse with the given status code.
func WriteStatus(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, StatusResponse{Status: message})
}

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes a request body of at most limit bytes into v,
// rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
