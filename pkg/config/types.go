package config

import (
	"fmt"
	"strconv"
)

// DefaultURL is the listen URL used when neither a port nor URLs are given.
const DefaultURL = "http://localhost:9091/"

// Default engine directories, relative to the working directory.
const (
	DefaultMappingsDir    = "__admin/mappings"
	DefaultCertificateDir = "certs"
)

// ServerConfiguration defines the mock server runtime settings.
type ServerConfiguration struct {
	// Port is the listen port. When set, Urls is ignored.
	Port *int `json:"port,omitempty" yaml:"port,omitempty"`
	// Urls are the listen URLs, used only when Port is nil.
	Urls []string `json:"urls,omitempty" yaml:"urls,omitempty"`
	// StartAdminInterface enables the /__admin HTTP surface.
	StartAdminInterface bool `json:"startAdminInterface" yaml:"startAdminInterface"`
	// ReadStaticMappings loads mapping files from MappingsDir at startup.
	ReadStaticMappings bool `json:"readStaticMappings" yaml:"readStaticMappings"`
	// AllowPartialMapping serves the best partially matching mapping when no mapping matches fully.
	AllowPartialMapping bool `json:"allowPartialMapping" yaml:"allowPartialMapping"`
	// AdminUsername and AdminPassword enable basic auth on the admin interface when both are set.
	AdminUsername string `json:"adminUsername,omitempty" yaml:"adminUsername,omitempty"`
	AdminPassword string `json:"adminPassword,omitempty" yaml:"adminPassword,omitempty"`
	// MaxRequestLogCount caps the number of retained request log entries.
	MaxRequestLogCount *int `json:"maxRequestLogCount,omitempty" yaml:"maxRequestLogCount,omitempty"`
	// RequestLogExpirationDuration is the request log retention in hours.
	RequestLogExpirationDuration *int `json:"requestLogExpirationDuration,omitempty" yaml:"requestLogExpirationDuration,omitempty"`
	// ProxyAndRecord enables forwarding of unmatched requests. Nil means disabled.
	ProxyAndRecord *ProxyAndRecordSettings `json:"proxyAndRecordSettings,omitempty" yaml:"proxyAndRecordSettings,omitempty"`

	// MappingsDir is where static mappings are read from and recorded mappings are saved.
	MappingsDir string `json:"mappingsDir,omitempty" yaml:"mappingsDir,omitempty"`
	// CertificateDir holds PEM certificate/key pairs used to select proxy client certificates.
	CertificateDir string `json:"certificateDir,omitempty" yaml:"certificateDir,omitempty"`
}

// ProxyAndRecordSettings configures the proxy-and-record mode.
type ProxyAndRecordSettings struct {
	// URL is the upstream base URL unmatched requests are forwarded to.
	URL string `json:"url" yaml:"url"`
	// SaveMapping persists proxied exchanges as mapping files.
	SaveMapping bool `json:"saveMapping" yaml:"saveMapping"`
	// X509Certificate2ThumbprintOrSubjectName selects the client certificate for proxied requests.
	X509Certificate2ThumbprintOrSubjectName string `json:"x509Certificate2ThumbprintOrSubjectName,omitempty" yaml:"x509Certificate2ThumbprintOrSubjectName,omitempty"`
}

// ListenURLs returns the URLs the engine should bind, applying the
// port-over-URLs precedence.
func (c ServerConfiguration) ListenURLs() []string {
	if c.Port != nil {
		return []string{"http://localhost:" + strconv.Itoa(*c.Port)}
	}
	out := make([]string, len(c.Urls))
	copy(out, c.Urls)
	return out
}

// MappingsDirOrDefault returns MappingsDir, or DefaultMappingsDir when empty.
func (c ServerConfiguration) MappingsDirOrDefault() string {
	if c.MappingsDir == "" {
		return DefaultMappingsDir
	}
	return c.MappingsDir
}

// CertificateDirOrDefault returns CertificateDir, or DefaultCertificateDir when empty.
func (c ServerConfiguration) CertificateDirOrDefault() string {
	if c.CertificateDir == "" {
		return DefaultCertificateDir
	}
	return c.CertificateDir
}

// AdminAuthEnabled reports whether both admin credentials are configured.
func (c ServerConfiguration) AdminAuthEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

// String returns a short description for log lines.
func (c ServerConfiguration) String() string {
	return fmt.Sprintf("urls=%v admin=%t staticMappings=%t partial=%t proxy=%t",
		c.ListenURLs(), c.StartAdminInterface, c.ReadStaticMappings, c.AllowPartialMapping, c.ProxyAndRecord != nil)
}
