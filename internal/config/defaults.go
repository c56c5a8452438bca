package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultLanguage     = "de"
	DefaultDebounce     = 500 * time.Millisecond
	DefaultMultiWordGap = 10
	DefaultMaxTextSize  = 8 << 20

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultMetricsNamespace = "refcheck"
	DefaultMetricsPath      = "/metrics"

	DefaultPostgresHost             = "localhost"
	DefaultPostgresPort             = 5432
	DefaultPostgresDatabase         = "refcheck"
	DefaultPostgresSSLMode          = "disable"
	DefaultPostgresMaxOpenConns     = 10
	DefaultPostgresMaxIdleConns     = 5
	DefaultPostgresConnMaxLifetime  = 30 * time.Minute
	DefaultPostgresStatementTimeout = 10 * time.Second
	DefaultPostgresSessionTTL       = 30 * 24 * time.Hour

	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisKeyPrefix   = "refcheck:"
	DefaultRedisSessionTTL  = 24 * time.Hour
	DefaultRedisResultTTL   = 10 * time.Minute
	DefaultRedisDialTimeout = 5 * time.Second

	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 15 * time.Second
	DefaultServerShutdownTimeout = 30 * time.Second
	DefaultServerMaxConcurrent   = 64
)

// ApplyDefaults fills every zero-value field in cfg with its default. Fields
// already set by the caller are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.Language == "" {
		cfg.Analysis.Language = DefaultLanguage
	}
	if cfg.Analysis.Debounce == 0 {
		cfg.Analysis.Debounce = DefaultDebounce
	}
	if cfg.Analysis.MultiWordGap == 0 {
		cfg.Analysis.MultiWordGap = DefaultMultiWordGap
	}
	if cfg.Analysis.MaxTextSize == 0 {
		cfg.Analysis.MaxTextSize = DefaultMaxTextSize
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Postgres ──────────────────────────────────────────────────────────────
	if cfg.Postgres.Host == "" {
		cfg.Postgres.Host = DefaultPostgresHost
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = DefaultPostgresPort
	}
	if cfg.Postgres.Database == "" {
		cfg.Postgres.Database = DefaultPostgresDatabase
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = DefaultPostgresSSLMode
	}
	if cfg.Postgres.MaxOpenConns == 0 {
		cfg.Postgres.MaxOpenConns = DefaultPostgresMaxOpenConns
	}
	if cfg.Postgres.MaxIdleConns == 0 {
		cfg.Postgres.MaxIdleConns = DefaultPostgresMaxIdleConns
	}
	if cfg.Postgres.ConnMaxLifetime == 0 {
		cfg.Postgres.ConnMaxLifetime = DefaultPostgresConnMaxLifetime
	}
	if cfg.Postgres.StatementTimeout == 0 {
		cfg.Postgres.StatementTimeout = DefaultPostgresStatementTimeout
	}
	if cfg.Postgres.SessionTTL == 0 {
		cfg.Postgres.SessionTTL = DefaultPostgresSessionTTL
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.SessionTTL == 0 {
		cfg.Redis.SessionTTL = DefaultRedisSessionTTL
	}
	if cfg.Redis.ResultTTL == 0 {
		cfg.Redis.ResultTTL = DefaultRedisResultTTL
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxConcurrent == 0 {
		cfg.Server.MaxConcurrent = DefaultServerMaxConcurrent
	}
}

// Default returns a Config populated entirely with defaults.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// registerDefaults makes every key known to viper so that REFCHECK_* variables
// are honoured by Unmarshal even when no config file mentions the key.
func registerDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("analysis.language", d.Analysis.Language)
	v.SetDefault("analysis.debounce", d.Analysis.Debounce)
	v.SetDefault("analysis.multi_word_gap", d.Analysis.MultiWordGap)
	v.SetDefault("analysis.manual_multi_word", []string{})
	v.SetDefault("analysis.max_text_size", d.Analysis.MaxTextSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", d.Postgres.Host)
	v.SetDefault("postgres.port", d.Postgres.Port)
	v.SetDefault("postgres.database", d.Postgres.Database)
	v.SetDefault("postgres.username", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.ssl_mode", d.Postgres.SSLMode)
	v.SetDefault("postgres.max_open_conns", d.Postgres.MaxOpenConns)
	v.SetDefault("postgres.max_idle_conns", d.Postgres.MaxIdleConns)
	v.SetDefault("postgres.conn_max_lifetime", d.Postgres.ConnMaxLifetime)
	v.SetDefault("postgres.statement_timeout", d.Postgres.StatementTimeout)
	v.SetDefault("postgres.session_ttl", d.Postgres.SessionTTL)
	v.SetDefault("postgres.skip_migrations", false)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", d.Redis.KeyPrefix)
	v.SetDefault("redis.session_ttl", d.Redis.SessionTTL)
	v.SetDefault("redis.result_ttl", d.Redis.ResultTTL)
	v.SetDefault("redis.dial_timeout", d.Redis.DialTimeout)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.max_concurrent", d.Server.MaxConcurrent)
}

//Personal.AI order the ending
