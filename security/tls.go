package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig configures the TLS side of a vendor connection. The zero value
// means the system defaults.
type TLSConfig struct {
	// CAFile is a PEM bundle that replaces the system roots when set.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is "1.2" or "1.3". Defaults to "1.2".
	MinVersion string `yaml:"min_version" mapstructure:"min_version"`

	// SkipVerify disables certificate verification. Local testing only.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`
}

var tlsVersions = map[string]uint16{
	"":    tls.VersionTLS12,
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// IsEnabled reports whether any setting differs from the system defaults.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.CAFile != "" || c.CertFile != "" || c.ServerName != "" || c.MinVersion != "" || c.SkipVerify
}

// Validate checks that the settings can be built.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("tls: cert_file and key_file must be set together")
	}
	if _, ok := tlsVersions[c.MinVersion]; !ok {
		return fmt.Errorf("tls: unsupported min_version %q (want 1.2 or 1.3)", c.MinVersion)
	}
	return nil
}

// Build returns the *tls.Config for a client transport, or nil when nothing
// is configured.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		MinVersion:         tlsVersions[c.MinVersion],
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in, local testing
	}

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("tls: read ca_file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("tls: no certificates in %s", c.CAFile)
		}
		cfg.RootCAs = pool
	}

	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tls: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}
