// Package tls provides certificate generation for https listeners and
// selection of client certificates for proxied requests.
package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"
)

// defaultValidity is how long generated certificates stay valid.
const defaultValidity = 365 * 24 * time.Hour

// wildcardHosts never appear in a certificate: they either mean "all
// interfaces" or are already part of the defaults.
var wildcardHosts = map[string]bool{"": true, "*": true, "+": true, "0.0.0.0": true, "localhost": true}

// CertificateConfig describes a certificate to generate.
type CertificateConfig struct {
	Organization string
	CommonName   string
	DNSNames     []string
	IPAddresses  []net.IP
	ValidFor     time.Duration
	// ClientAuth makes the certificate usable for proxied client auth too.
	ClientAuth bool
}

// DefaultCertificateConfig returns a loopback-only server certificate config.
func DefaultCertificateConfig() *CertificateConfig {
	return &CertificateConfig{
		Organization: "mockd",
		CommonName:   "localhost",
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		ValidFor:     defaultValidity,
	}
}

// ServerCertificateConfig returns the default configuration extended with
// the given listen hosts. Wildcard and empty hosts are skipped.
func ServerCertificateConfig(hosts ...string) *CertificateConfig {
	cfg := DefaultCertificateConfig()
	for _, h := range hosts {
		if wildcardHosts[h] {
			continue
		}
		if ip := net.ParseIP(h); ip != nil {
			cfg.IPAddresses = append(cfg.IPAddresses, ip)
		} else {
			cfg.DNSNames = append(cfg.DNSNames, h)
		}
	}
	return cfg
}

func (c *CertificateConfig) usages() []x509.ExtKeyUsage {
	usages := []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
	if c.ClientAuth {
		usages = append(usages, x509.ExtKeyUsageClientAuth)
	}
	return usages
}

func (c *CertificateConfig) template(serial *big.Int, now time.Time) *x509.Certificate {
	validFor := c.ValidFor
	if validFor <= 0 {
		validFor = defaultValidity
	}
	// Backdated a minute so clients with slightly skewed clocks accept it.
	notBefore := now.Add(-time.Minute)
	return &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{c.Organization},
			CommonName:   c.CommonName,
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(validFor),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           c.usages(),
		BasicConstraintsValid: true,
		DNSNames:              c.DNSNames,
		IPAddresses:           c.IPAddresses,
	}
}

// GeneratedCertificate is a certificate with its key, parsed and PEM encoded.
type GeneratedCertificate struct {
	Certificate *x509.Certificate
	PrivateKey  *ecdsa.PrivateKey
	CertPEM     []byte
	KeyPEM      []byte
}

// TLSCertificate returns the pair as a crypto/tls certificate.
func (g *GeneratedCertificate) TLSCertificate() (tls.Certificate, error) {
	return tls.X509KeyPair(g.CertPEM, g.KeyPEM)
}

// GenerateSelfSignedCert generates an ECDSA P-256 self-signed certificate.
// A nil cfg uses DefaultCertificateConfig.
func GenerateSelfSignedCert(cfg *CertificateConfig) (*GeneratedCertificate, error) {
	if cfg == nil {
		cfg = DefaultCertificateConfig()
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	tmpl := cfg.template(serial, time.Now())
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	return &GeneratedCertificate{
		Certificate: cert,
		PrivateKey:  key,
		CertPEM:     pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		KeyPEM:      pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}),
	}, nil
}
