// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

// Package config loads service configuration from a YAML file and
// command-line flags, with flags taking precedence over the file.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the fully resolved service configuration.
type Config struct {
	// Listen is the address of the public HTTP API.
	Listen string `koanf:"listen"`

	// ObservabilityListen is the address of the metrics/health server.
	ObservabilityListen string `koanf:"observability_listen"`

	// DatabaseURL is the PostgreSQL connection string. Required. The
	// DATABASE_URL environment variable overrides both file and flags so
	// credentials can stay out of config files.
	DatabaseURL string `koanf:"database_url"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format"`

	Session SessionConfig `koanf:"session"`
	Cookie  CookieConfig  `koanf:"cookie"`
}

// SessionConfig controls session issuance.
type SessionConfig struct {
	// Lifetime is how long a session and its cookie stay valid.
	Lifetime time.Duration `koanf:"lifetime"`
}

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	// Secure marks the cookie HTTPS-only. Disable only for local
	// development over plain HTTP.
	Secure bool `koanf:"secure"`
}

// Default returns the configuration used when neither file nor flags
// override a value.
func Default() Config {
	return Config{
		Listen:              ":8080",
		ObservabilityListen: "127.0.0.1:9100",
		LogFormat:           "json",
		Session: SessionConfig{
			Lifetime: 7 * 24 * time.Hour,
		},
		Cookie: CookieConfig{
			Secure: true,
		},
	}
}

// RegisterFlags declares the config-bearing flags on the given flag set.
// Flag defaults are zero values on purpose: posflag only overrides keys for
// flags the user actually changed.
func RegisterFlags(f *pflag.FlagSet) {
	f.String("listen", "", "HTTP API listen address")
	f.String("observability-listen", "", "metrics/health listen address")
	f.String("database-url", "", "PostgreSQL connection string")
	f.String("log-format", "", "log format: json or text")
	f.Duration("session-lifetime", 0, "session lifetime (e.g. 168h)")
	f.Bool("cookie-secure", true, "mark the session cookie Secure")
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"listen":               "listen",
	"observability-listen": "observability_listen",
	"database-url":         "database_url",
	"log-format":           "log_format",
	"session-lifetime":     "session.lifetime",
	"cookie-secure":        "cookie.secure",
}

// Load resolves the configuration: defaults, then the YAML file at path (if
// any), then changed flags, then the DATABASE_URL environment variable.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			// Only flags the user actually set override file values.
			if !flags.Changed(key) {
				return "", nil
			}
			if mapped, ok := flagKeys[key]; ok {
				return mapped, value
			}
			return "", nil
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "flags").
				Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required (flag --database-url or DATABASE_URL)")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	if c.Session.Lifetime <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session.lifetime must be positive")
	}
	return nil
}
