// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package config loads server configuration from defaults, an optional
// YAML file, and command-line flags, in increasing order of precedence.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the full server configuration.
type Config struct {
	// ListenAddr is the GraphQL API listen address.
	ListenAddr string `koanf:"listen_addr"`

	// MetricsAddr is the metrics/health HTTP address. Empty disables the
	// observability server.
	MetricsAddr string `koanf:"metrics_addr"`

	// DatabaseURL is the PostgreSQL connection string. Falls back to the
	// DATABASE_URL environment variable when unset.
	DatabaseURL string `koanf:"database_url"`

	// RedisURL is the Redis connection string for sessions and reset
	// tokens. Falls back to the REDIS_URL environment variable when unset.
	RedisURL string `koanf:"redis_url"`

	// FrontendURL is the base URL of the web client, used to build
	// password-reset links.
	FrontendURL string `koanf:"frontend_url"`

	// CORSOrigins are the origins allowed to make credentialed requests.
	CORSOrigins []string `koanf:"cors_origins"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format"`

	Cookie CookieConfig `koanf:"cookie"`
	Email  EmailConfig  `koanf:"email"`
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string `koanf:"name"`
	Domain string `koanf:"domain"`
	Secure bool   `koanf:"secure"`

	// MaxAge of the cookie and the server-side session.
	MaxAge time.Duration `koanf:"max_age"`
}

// EmailConfig controls password-reset email delivery. When disabled, reset
// links are logged instead of sent.
type EmailConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Region    string `koanf:"region"`
	FromEmail string `koanf:"from_email"`
	FromName  string `koanf:"from_name"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		ListenAddr:  ":4000",
		MetricsAddr: "127.0.0.1:9100",
		FrontendURL: "http://localhost:3000",
		CORSOrigins: []string{"http://localhost:3000"},
		LogFormat:   "json",
		Cookie: CookieConfig{
			Name:   "qid",
			MaxAge: 10 * 365 * 24 * time.Hour,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (flag, config file, or DATABASE_URL)")
	}
	if c.RedisURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("redis URL is required (flag, config file, or REDIS_URL)")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.Email.Enabled && c.Email.FromEmail == "" {
		return oops.Code("CONFIG_INVALID").Errorf("email.from_email is required when email is enabled")
	}
	return nil
}

// Load builds the configuration from defaults, then the YAML file at path
// (if non-empty), then the given flags. Flags that were not set on the
// command line do not override file values. Environment variables fill in
// the database and redis URLs when nothing else set them.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		// Flag names use dashes; config keys use underscores. The conf
		// instance stays nil so flags left at their defaults are skipped
		// entirely: Default() is the single source of defaults, and an
		// unset flag must not clobber a file value with its empty default.
		provider := posflag.ProviderWithValue(flags, ".", nil, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}

	return cfg, nil
}
