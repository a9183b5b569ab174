package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const baseCredPath = "feedcards/creds.toml"

// Credentials holds secrets kept apart from the shareable config
type Credentials struct {
	Proxy ProxyCredentials `toml:"proxy"`
}

// ProxyCredentials holds the rss2json API key. The proxy works without one
// at a lower rate limit.
type ProxyCredentials struct {
	APIKey string `toml:"api_key"`
}

// ReadCredentials reads credentials from the specified path
func ReadCredentials(path string) (Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(path)
	if err != nil {
		return creds, err
	}

	if _, err := toml.Decode(string(data), &creds); err != nil {
		return creds, fmt.Errorf("failed to decode credentials at %s: %w", path, err)
	}

	return creds, nil
}

// WriteCredentials writes credentials to the specified path
func WriteCredentials(path string, creds Credentials) error {
	blob, err := toml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	basePath := filepath.Dir(path)
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return fmt.Errorf("failed to create credentials directory at '%s': %w", basePath, err)
	}

	// Write with restrictive permissions (only owner can read/write)
	if err := os.WriteFile(path, blob, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file at '%s': %w", path, err)
	}

	return nil
}

// DefaultCredentialsPath returns the default path for credentials file
func DefaultCredentialsPath() string {
	var xdgHome = os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		return filepath.Join(xdgHome, baseCredPath)
	}

	var home = os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", baseCredPath)
	}

	panic("unable to determine credentials file path")
}
