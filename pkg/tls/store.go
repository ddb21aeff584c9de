package tls

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // thumbprints are SHA-1 by convention, not used for security
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrCertificateNotFound is returned when no stored certificate matches a selector.
var ErrCertificateNotFound = errors.New("certificate not found")

// CertificateFilePattern selects certificate files below a certificate directory.
const CertificateFilePattern = "**/*.{crt,cer,pem}"

// StoredCertificate is a certificate with its private key, loaded from disk.
type StoredCertificate struct {
	// Path is the certificate file the pair was loaded from.
	Path        string
	Leaf        *x509.Certificate
	Certificate tls.Certificate
}

// Thumbprint returns the uppercase hex SHA-1 digest of the certificate.
func (c *StoredCertificate) Thumbprint() string {
	return Thumbprint(c.Leaf)
}

// Thumbprint returns the uppercase hex SHA-1 digest of cert's DER bytes.
func Thumbprint(cert *x509.Certificate) string {
	sum := sha1.Sum(cert.Raw) //nolint:gosec
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// CertificateStore holds certificate and key pairs read from a directory.
type CertificateStore struct {
	certs []*StoredCertificate
}

// LoadCertificateStore reads every certificate file below dir. A file's
// key is taken from the same PEM file or from a sibling file with the
// .key extension; certificates without a key are skipped. A missing
// directory yields an empty store.
func LoadCertificateStore(dir string) (*CertificateStore, error) {
	store := &CertificateStore{}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), CertificateFilePattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)

	for _, match := range matches {
		path := filepath.Join(dir, filepath.FromSlash(match))
		cert, err := loadPair(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", match, err)
		}
		if cert != nil {
			store.certs = append(store.certs, cert)
		}
	}
	return store, nil
}

func loadPair(path string) (*StoredCertificate, error) {
	certPEM, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.Contains(certPEM, []byte("-----BEGIN CERTIFICATE-----")) {
		return nil, nil
	}

	keyPEM := certPEM
	if !bytes.Contains(certPEM, []byte("PRIVATE KEY-----")) {
		keyPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".key"
		keyPEM, err = os.ReadFile(keyPath)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("invalid key pair: %w", err)
	}
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	pair.Leaf = leaf
	return &StoredCertificate{Path: path, Leaf: leaf, Certificate: pair}, nil
}

// Add registers an in-memory certificate pair.
func (s *CertificateStore) Add(g *GeneratedCertificate) error {
	pair, err := g.TLSCertificate()
	if err != nil {
		return err
	}
	pair.Leaf = g.Certificate
	s.certs = append(s.certs, &StoredCertificate{Leaf: g.Certificate, Certificate: pair})
	return nil
}

// Len returns the number of stored certificates.
func (s *CertificateStore) Len() int {
	return len(s.certs)
}

// Find selects a certificate by SHA-1 thumbprint or subject name.
// Thumbprints are compared ignoring case, spaces and colons. Subject names
// match the common name or the full subject string, ignoring case.
func (s *CertificateStore) Find(selector string) (*StoredCertificate, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrCertificateNotFound)
	}

	thumb := normalizeThumbprint(selector)
	for _, c := range s.certs {
		if c.Thumbprint() == thumb {
			return c, nil
		}
	}
	for _, c := range s.certs {
		if strings.EqualFold(c.Leaf.Subject.CommonName, selector) ||
			strings.EqualFold(c.Leaf.Subject.String(), selector) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCertificateNotFound, selector)
}

// normalizeThumbprint also drops the U+200E mark that certificate viewers
// prepend when a thumbprint is copied.
func normalizeThumbprint(s string) string {
	s = strings.NewReplacer(" ", "", ":", "", "\u200e", "").Replace(s)
	return strings.ToUpper(s)
}
