package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Bot.validate(),
		c.Database.validate(),
		c.Server.validate(),
		c.Log.validate(),
		c.Client.validate(),
		c.Archiver.validate(),
		c.Telemetry.validate(),
	)
}

func (b *BotConfig) validate() error {
	var errs []error

	if b.Token == "" {
		errs = append(errs, errors.New("bot.token must not be empty (set BOT_BOT_TOKEN)"))
	}
	if b.Prefix == "" {
		errs = append(errs, errors.New("bot.prefix must not be empty"))
	}
	for _, id := range b.MenuChannelIDs {
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			errs = append(errs, fmt.Errorf("bot.menu_channel_ids contains malformed ID %q", id))
		}
	}

	return errors.Join(errs...)
}

func (d *DatabaseConfig) validate() error {
	var errs []error

	if d.DSN == "" {
		errs = append(errs, errors.New("database.dsn must not be empty (set BOT_DATABASE_DSN)"))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Errorf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("database.connect_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate() error {
	var errs []error

	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("client.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("client.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("client.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("client.rate_limit.requests_per_second must not be negative, got %f",
			cl.RateLimit.RequestsPerSecond))
	}

	return errors.Join(errs...)
}

func (a *ArchiverConfig) validate() error {
	var errs []error

	if a.WindowLength <= 0 {
		errs = append(errs, errors.New("archiver.window_length must be positive"))
	}
	if a.ChannelWorkers < 1 {
		errs = append(errs, fmt.Errorf("archiver.channel_workers must be >= 1, got %d", a.ChannelWorkers))
	}
	if a.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("archiver.batch_size must be >= 1, got %d", a.BatchSize))
	}
	if a.FlushInterval <= 0 {
		errs = append(errs, errors.New("archiver.flush_interval must be positive"))
	}
	if a.InsertLimit < 1 || a.UpdateLimit < 1 || a.DeleteLimit < 1 {
		errs = append(errs, errors.New("archiver flush limits must be >= 1"))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
