package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// ValidationError represents a configuration validation failure with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Validate checks the configuration before the engine binds anything.
// Overlaps such as Port together with Urls are not errors; Port wins.
func (c ServerConfiguration) Validate() error {
	if c.Port != nil {
		if *c.Port < 0 || *c.Port > 65535 {
			return &ValidationError{Field: "port", Message: "port must be between 0 and 65535"}
		}
	} else {
		if len(c.Urls) == 0 {
			return &ValidationError{Field: "urls", Message: "at least one listen URL or a port is required"}
		}
		for i, raw := range c.Urls {
			if _, err := ParseListenURL(raw); err != nil {
				return &ValidationError{Field: fmt.Sprintf("urls[%d]", i), Message: err.Error()}
			}
		}
	}

	if c.ProxyAndRecord != nil {
		u, err := url.Parse(c.ProxyAndRecord.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &ValidationError{Field: "proxyAndRecordSettings.url", Message: fmt.Sprintf("invalid proxy URL %q", c.ProxyAndRecord.URL)}
		}
	}

	return nil
}

// ListenURL is a parsed listen URL.
type ListenURL struct {
	Scheme string
	// Host is the host as written; empty, "*", "+" and "0.0.0.0" bind all interfaces.
	Host string
	Port int
}

// BindAddress returns the address to pass to net.Listen.
func (l ListenURL) BindAddress() string {
	host := l.Host
	switch host {
	case "*", "+", "0.0.0.0":
		host = ""
	}
	return net.JoinHostPort(host, strconv.Itoa(l.Port))
}

// WithPort renders the URL with the given (effective) port.
func (l ListenURL) WithPort(port int) string {
	host := l.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("%s://%s", l.Scheme, net.JoinHostPort(host, strconv.Itoa(port)))
}

// ParseListenURL parses an http or https listen URL. A missing port defaults
// to 80 or 443. Wildcard hosts are accepted.
func ParseListenURL(raw string) (ListenURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ListenURL{}, fmt.Errorf("invalid listen URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ListenURL{}, fmt.Errorf("listen URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return ListenURL{}, fmt.Errorf("listen URL %q has no host", raw)
	}

	l := ListenURL{Scheme: u.Scheme, Host: u.Hostname()}
	switch p := u.Port(); {
	case p != "":
		port, err := strconv.Atoi(p)
		if err != nil || port < 0 || port > 65535 {
			return ListenURL{}, fmt.Errorf("listen URL %q has invalid port", raw)
		}
		l.Port = port
	case u.Scheme == "https":
		l.Port = 443
	default:
		l.Port = 80
	}
	return l, nil
}
