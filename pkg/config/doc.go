// Package config defines the server configuration handed from the
// bootstrapper to the mock server engine.
//
// ServerConfiguration is built once per invocation (by the standalone
// package from command-line flags, or directly by an embedder) and passed by
// value to the engine. It is not mutated after the engine starts.
//
// Listen addresses:
//   - Port, when set, always wins and produces http://localhost:<port>
//   - Urls is used otherwise; DefaultURL is the canonical fallback
//
// Proxy-and-record:
//
// ProxyAndRecord is nil unless a proxy target was configured. When set,
// unmatched requests are forwarded to ProxyAndRecordSettings.URL and, with
// SaveMapping, captured as new stub mappings.
//
// Environment:
//
// Settings that are not command-line flags (log level and format, mappings
// and certificate directories) come from MOCKD_* environment variables and an
// optional .env file, see LoadEnvironment.
package config
