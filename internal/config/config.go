// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Waypost discovery feed service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// Host is the HTTP listen address.
	Host string `koanf:"host"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds Postgres connection settings.
// When Enabled is false the service runs against the in-memory store,
// useful for development and tests.
type DatabaseConfig struct {
	Enabled bool `koanf:"enabled"`

	// URL is the Postgres connection string (postgres://...).
	URL string `koanf:"url"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DiscoveryConfig holds discovery feed engine settings.
// Section sizing and the seasonal toggle live here; reason weights and the
// source weight table are fixed constants in the discovery package.
type DiscoveryConfig struct {
	// CacheTTL is how long assembled feeds are served from cache.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// CacheMaxEntries bounds the in-memory feed cache.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// SeasonalEnabled turns on seasonal reason detection (start-date month
	// matching the current month). Off by default.
	SeasonalEnabled bool `koanf:"seasonal_enabled"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8086,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Enabled:         false, // In-memory store by default for local development
			URL:             "",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Discovery: DiscoveryConfig{
			CacheTTL:        2 * time.Minute,
			CacheMaxEntries: 1000,
			SeasonalEnabled: false,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}

	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("database.url is required when database.enabled is true")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1, got %d", c.Database.MaxOpenConns)
	}

	if c.Discovery.CacheTTL < 0 {
		return fmt.Errorf("discovery.cache_ttl must not be negative, got %s", c.Discovery.CacheTTL)
	}
	if c.Discovery.CacheMaxEntries < 1 {
		return fmt.Errorf("discovery.cache_max_entries must be at least 1, got %d", c.Discovery.CacheMaxEntries)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	return nil
}
