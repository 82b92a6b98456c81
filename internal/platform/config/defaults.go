package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultDatabaseMaxConns = 10

	defaultArchiverWorkers     = 4
	defaultArchiverBatchSize   = 550
	defaultArchiverInsertLimit = 1000
	defaultArchiverUpdateLimit = 2000
	defaultArchiverDeleteLimit = 1000
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"bot.prefix": "!",
		"bot.status": "Commands: !help",

		"database.max_conns":        defaultDatabaseMaxConns,
		"database.connect_timeout":  "10s",
		"database.migrate_on_start": true,

		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"client.timeout":                         "30s",
		"client.retry.max_attempts":              defaultRetryMaxAttempts,
		"client.retry.initial_interval":          "100ms",
		"client.retry.max_interval":              "10s",
		"client.retry.multiplier":                defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"client.rate_limit.requests_per_second":  0.0,
		"client.rate_limit.burst_size":           1,

		"archiver.window_length":   "168h",
		"archiver.channel_workers": defaultArchiverWorkers,
		"archiver.batch_size":      defaultArchiverBatchSize,
		"archiver.flush_interval":  "5m",
		"archiver.insert_limit":    defaultArchiverInsertLimit,
		"archiver.update_limit":    defaultArchiverUpdateLimit,
		"archiver.delete_limit":    defaultArchiverDeleteLimit,

		"telemetry.enabled":  false,
		"telemetry.exporter": "stdout",
		"telemetry.endpoint": "",
	}
}
