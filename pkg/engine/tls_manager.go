package engine

import (
	"crypto/tls"
	"fmt"

	mockdtls "github.com/getmockd/mockd-standalone/pkg/tls"
)

// TLSManager builds the server TLS configuration for https listen URLs.
type TLSManager struct {
	hosts []string
}

// NewTLSManager creates a TLSManager whose certificate covers hosts in
// addition to localhost.
func NewTLSManager(hosts ...string) *TLSManager {
	return &TLSManager{hosts: hosts}
}

// BuildConfig generates a self-signed certificate and returns the TLS
// configuration serving it.
func (tm *TLSManager) BuildConfig() (*tls.Config, error) {
	genCert, err := mockdtls.GenerateSelfSignedCert(mockdtls.ServerCertificateConfig(tm.hosts...))
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate: %w", err)
	}

	tlsCert, err := genCert.TLSCertificate()
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS certificate: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{tlsCert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
