// Package admin provides the management HTTP API of the mock server.
//
// The API is mounted below PathPrefix ("/__admin") on every listener when
// the admin interface is enabled. It lets clients inspect the effective
// settings, manage stub mappings at runtime, persist them to the mappings
// directory and inspect or clear the request log.
//
// When both an admin username and password are configured, every route
// except GET /health requires HTTP basic auth.
package admin
