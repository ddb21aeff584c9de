package admin

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/getmockd/mockd-standalone/pkg/httputil"
)

// basicAuth enforces HTTP basic auth on the admin API.
type basicAuth struct {
	userHash [32]byte
	passHash [32]byte
}

func newBasicAuth(username, password string) *basicAuth {
	return &basicAuth{
		userHash: sha256.Sum256([]byte(username)),
		passHash: sha256.Sum256([]byte(password)),
	}
}

// validate compares hashes so the comparison time does not depend on the
// length of the configured credentials.
func (a *basicAuth) validate(username, password string) bool {
	u := sha256.Sum256([]byte(username))
	p := sha256.Sum256([]byte(password))
	userOK := subtle.ConstantTimeCompare(u[:], a.userHash[:]) == 1
	passOK := subtle.ConstantTimeCompare(p[:], a.passHash[:]) == 1
	return userOK && passOK
}

// middleware returns an HTTP middleware that enforces basic auth.
// The health check is always exempt.
func (a *basicAuth) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="mockd admin"`)
			httputil.WriteError(w, http.StatusUnauthorized, "missing_credentials", "Basic authentication required")
			return
		}
		if !a.validate(username, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="mockd admin"`)
			httputil.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
			return
		}
		next.ServeHTTP(w, r)
	})
}
