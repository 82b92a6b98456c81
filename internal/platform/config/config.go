// Package config provides configuration loading and validation for the bot.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Bot       BotConfig       `koanf:"bot"`
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Client    ClientConfig    `koanf:"client"`
	Archiver  ArchiverConfig  `koanf:"archiver"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// BotConfig holds Discord-facing settings.
type BotConfig struct {
	// Token is the bot token. Supplied via BOT_BOT_TOKEN or an env file;
	// never committed to the YAML layers.
	Token string `koanf:"token"`

	// Prefix is the command prefix (e.g. "!"). The bot also answers to
	// being mentioned.
	Prefix string `koanf:"prefix"`

	// Status is the "playing" activity text shown under the bot's name.
	Status string `koanf:"status"`

	// MenuChannelIDs are the channels whose messages are treated as role
	// menus.
	MenuChannelIDs []string `koanf:"menu_channel_ids"`
}

// DatabaseConfig holds Postgres settings.
type DatabaseConfig struct {
	DSN            string        `koanf:"dsn"`
	MaxConns       int           `koanf:"max_conns"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MigrateOnStart bool          `koanf:"migrate_on_start"`
}

// ServerConfig holds admin HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ClientConfig holds Discord REST client settings.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds client-side rate limiting settings. Zero
// RequestsPerSecond disables the limiter (Discord's own limits still apply
// via 429 handling).
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// ArchiverConfig holds message-history backup settings.
type ArchiverConfig struct {
	// WindowLength is how much history one backup window covers.
	WindowLength time.Duration `koanf:"window_length"`

	// ChannelWorkers bounds concurrent per-channel history backups.
	ChannelWorkers int `koanf:"channel_workers"`

	// BatchSize caps rows per database write.
	BatchSize int `koanf:"batch_size"`

	// FlushInterval is how often queued gateway events are written out.
	FlushInterval time.Duration `koanf:"flush_interval"`

	// Per-flush row limits by queue kind.
	InsertLimit int `koanf:"insert_limit"`
	UpdateLimit int `koanf:"update_limit"`
	DeleteLimit int `koanf:"delete_limit"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
