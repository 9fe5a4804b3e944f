// Package config provides client configuration for the graphpath client:
// the target host and port, the API version selector, and the request
// timeout. Configuration is a plain struct loaded from a JSON or YAML
// file, with defaults and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360/graphpath/errors"
)

// API version constants. The version selects the query endpoint path
// segment negotiated once at client construction.
const (
	// VersionV1 is API version 1, currently the only published version.
	VersionV1 = "v1"
	// DefaultVersion tracks the latest published API version.
	DefaultVersion = VersionV1
)

// Config represents the complete client configuration.
type Config struct {
	// Host is the graph service hostname or address.
	Host string `json:"host" yaml:"host"`

	// Port is the graph service TCP port.
	Port int `json:"port" yaml:"port"`

	// Version is the API version selector, e.g. "v1".
	Version string `json:"version" yaml:"version"`

	// RequestTimeout bounds each query exchange. Zero disables the
	// client-side timeout; callers may still impose a deadline through
	// the request context.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// DefaultConfig returns the configuration for a local graph service with
// the latest API version.
func DefaultConfig() *Config {
	return &Config{
		Host:           "localhost",
		Port:           64210,
		Version:        DefaultVersion,
		RequestTimeout: 30 * time.Second,
	}
}

// Validate checks the configuration for structural problems. Unset
// optional fields are filled with their defaults.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", errors.ErrMissingConfig)
	}
	if c.Host == "" {
		return fmt.Errorf("%w: host must not be empty", errors.ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", errors.ErrInvalidConfig, c.Port)
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Version != VersionV1 {
		return fmt.Errorf("%w: unsupported API version %q", errors.ErrInvalidConfig, c.Version)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request_timeout must not be negative", errors.ErrInvalidConfig)
	}
	return nil
}

// QueryURL returns the query endpoint for this configuration.
func (c *Config) QueryURL() string {
	return fmt.Sprintf("http://%s:%d/api/%s/query/graphpath", c.Host, c.Port, c.Version)
}

// Load reads a configuration file and validates it. The format follows
// the file extension: .yaml/.yml parse as YAML, everything else as JSON.
// YAML handles both since JSON is a YAML subset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Config", "Load", "reading config file")
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "Config", "Load", "parsing config file")
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", errors.ErrInvalidConfig, filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
