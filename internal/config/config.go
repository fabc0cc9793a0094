// Package config loads the server configuration file.
//
// The file is YAML. Every key is optional; missing keys keep the value from
// [Default]. Command line flags take precedence and are applied by the
// caller after loading.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/maruel/discdb/internal/discs"
	"gopkg.in/yaml.v3"
)

// Config stores all server-wide configuration.
type Config struct {
	// HTTP is the listen address.
	HTTP string `yaml:"http"`

	// IDRule selects how new record ids are computed: "tail" (default) or
	// "max".
	IDRule discs.IDRule `yaml:"id_rule"`

	// HideErrorDetail removes the underlying error message from 500
	// responses.
	HideErrorDetail bool `yaml:"hide_error_detail"`

	// SeedFile is an optional YAML file replacing the built-in seed records.
	SeedFile string `yaml:"seed_file"`

	// MaxRequestBodyBytes limits the size of any single HTTP request body.
	// 0 means unlimited.
	MaxRequestBodyBytes int64 `yaml:"max_request_body_bytes"`

	// RateLimits defines rate limiting configuration.
	RateLimits RateLimits `yaml:"rate_limits"`
}

// RateLimits defines rate limiting configuration (requests per minute per
// client IP).
type RateLimits struct {
	// WritePerMin limits POST and DELETE. 0 means unlimited.
	WritePerMin int `yaml:"write_per_min"`

	// ReadPerMin limits GET. 0 means unlimited.
	ReadPerMin int `yaml:"read_per_min"`
}

// Validate checks that rate limit values are non-negative.
func (r *RateLimits) Validate() error {
	if r.WritePerMin < 0 {
		return errors.New("write_per_min must be non-negative")
	}
	if r.ReadPerMin < 0 {
		return errors.New("read_per_min must be non-negative")
	}
	return nil
}

// DefaultRateLimits returns the default rate limits.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		WritePerMin: 600,  // 10 req/s sustained for writes
		ReadPerMin:  6000, // 100 req/s sustained for reads
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		HTTP:                "localhost:3000",
		IDRule:              discs.IDRuleTail,
		MaxRequestBodyBytes: 1 << 20,
		RateLimits:          DefaultRateLimits(),
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.HTTP == "" {
		return errors.New("http must not be empty")
	}
	if c.IDRule != discs.IDRuleTail && c.IDRule != discs.IDRuleMax {
		return fmt.Errorf("unknown id_rule %v", c.IDRule)
	}
	if c.MaxRequestBodyBytes < 0 {
		return errors.New("max_request_body_bytes must be non-negative")
	}
	return c.RateLimits.Validate()
}

// Load reads path on top of [Default]. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	d := yaml.NewDecoder(bytes.NewReader(raw))
	d.KnownFields(true)
	if err := d.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
