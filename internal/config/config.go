// Package config defines the configuration structures for the reference-sign
// checker. No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// AnalysisConfig holds the consistency engine tunables.
type AnalysisConfig struct {
	// Language selects the analyzer: "de" or "en".
	Language string `mapstructure:"language"`

	// Debounce coalesces rapid edits before a scan is started.
	Debounce time.Duration `mapstructure:"debounce"`

	// MultiWordGap is the maximum distance in code points between the two
	// words of a multi-word term in the unnumbered-word check.
	MultiWordGap int `mapstructure:"multi_word_gap"`

	// ManualMultiWord lists base stems that have multi-word matching enabled
	// from the start of every session.
	ManualMultiWord []string `mapstructure:"manual_multi_word"`

	// MaxTextSize bounds the accepted input in bytes; 0 disables the limit.
	MaxTextSize int `mapstructure:"max_text_size"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// RedisConfig holds Redis connection parameters for the session override
// store and the result cache.
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	ResultTTL   time.Duration `mapstructure:"result_ttl"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// PostgresConfig holds the connection parameters of the durable session
// override store. When enabled it takes precedence over Redis for overrides;
// Redis still serves the result cache and the session locks.
type PostgresConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Database         string        `mapstructure:"database"`
	Username         string        `mapstructure:"username"`
	Password         string        `mapstructure:"password"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`

	// SessionTTL expires overrides not saved for this long; 0 keeps them.
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// SkipMigrations leaves the schema to an external migration run.
	SkipMigrations bool `mapstructure:"skip_migrations"`
}

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// AllowedOrigins enables CORS for browser-based editors. Empty disables it.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// MaxConcurrent bounds in-flight API requests.
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   ServerConfig   `mapstructure:"server"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	switch c.Analysis.Language {
	case "de", "en":
	default:
		return fmt.Errorf("config: analysis.language %q is invalid; expected de|en", c.Analysis.Language)
	}
	if c.Analysis.Debounce < 0 {
		return fmt.Errorf("config: analysis.debounce must be ≥ 0, got %s", c.Analysis.Debounce)
	}
	if c.Analysis.MultiWordGap < 1 {
		return fmt.Errorf("config: analysis.multi_word_gap must be ≥ 1, got %d", c.Analysis.MultiWordGap)
	}
	if c.Analysis.MaxTextSize < 0 {
		return fmt.Errorf("config: analysis.max_text_size must be ≥ 0, got %d", c.Analysis.MaxTextSize)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}

	if c.Postgres.Enabled {
		if c.Postgres.Host == "" || c.Postgres.Database == "" {
			return fmt.Errorf("config: postgres.host and postgres.database are required when postgres is enabled")
		}
		if c.Postgres.Port < 1 || c.Postgres.Port > 65535 {
			return fmt.Errorf("config: postgres.port %d is out of range [1, 65535]", c.Postgres.Port)
		}
		switch c.Postgres.SSLMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("config: postgres.ssl_mode %q is invalid", c.Postgres.SSLMode)
		}
		if c.Postgres.SessionTTL < 0 {
			return fmt.Errorf("config: postgres.session_ttl must be ≥ 0, got %s", c.Postgres.SessionTTL)
		}
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis is enabled")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
	}

	if c.Server.MaxConcurrent < 0 {
		return fmt.Errorf("config: server.max_concurrent must be ≥ 0, got %d", c.Server.MaxConcurrent)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	return nil
}

//Personal.AI order the ending
