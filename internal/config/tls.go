package config

import "fmt"

// ValidateTLSConfig checks the server TLS mode against the material supplied.
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	switch tls.MinVersion {
	case "", "1.2", "1.3":
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}

	switch tls.Mode {
	case "", "disabled":
		return nil
	case "server", "mutual":
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	if err := exactlyOneSource("certificate", tls.CertFile, tls.CertContent); err != nil {
		return err
	}
	if err := exactlyOneSource("key", tls.KeyFile, tls.KeyContent); err != nil {
		return err
	}
	if tls.Mode == "server" {
		return nil
	}

	if err := exactlyOneSource("CA certificate", tls.CAFile, tls.CAContent); err != nil {
		return err
	}
	switch tls.ClientAuthPolicy {
	case "", "require", "request", "verify":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
	}
}

func exactlyOneSource(what, file, content string) error {
	switch {
	case file == "" && content == "":
		return fmt.Errorf("TLS %s is required (provide either a file or content)", what)
	case file != "" && content != "":
		return fmt.Errorf("TLS %s given as both file and content - choose one", what)
	}
	return nil
}
