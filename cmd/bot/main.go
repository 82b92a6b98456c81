// Package main is the entry point for the bot. It wires all dependencies
// using samber/do v2, connects the Discord gateway and the admin HTTP server,
// and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/zloutek1/masarykbot/internal/adapters/http"
	"github.com/zloutek1/masarykbot/internal/adapters/http/handlers"
	"github.com/zloutek1/masarykbot/internal/adapters/http/middleware"

	"github.com/zloutek1/masarykbot/internal/adapters/discord"
	"github.com/zloutek1/masarykbot/internal/adapters/postgres"
	"github.com/zloutek1/masarykbot/internal/app"
	"github.com/zloutek1/masarykbot/internal/platform/config"
	"github.com/zloutek1/masarykbot/internal/platform/health"
	"github.com/zloutek1/masarykbot/internal/platform/httpclient"
	"github.com/zloutek1/masarykbot/internal/platform/logging"
	"github.com/zloutek1/masarykbot/internal/platform/telemetry"
	"github.com/zloutek1/masarykbot/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(cfg.Database.DSN); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the top-level components (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	gateway := do.MustInvoke[*discord.Gateway](injector)
	store := do.MustInvoke[*postgres.Store](injector)
	queue := do.MustInvoke[*app.MessageQueue](injector)
	archiver := do.MustInvoke[*app.Archiver](injector)
	router := do.MustInvoke[*app.EventRouter](injector)

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(store)
	registry.Register(gateway)
	registry.Register(do.MustInvoke[*httpclient.Client](injector))

	// Connect the gateway. Handlers must be registered before Open so no
	// events are missed.
	botCtx, stopBot := context.WithCancel(ctx)
	defer stopBot()

	gateway.RegisterEvents(botCtx, router)
	if err := gateway.Open(); err != nil {
		return fmt.Errorf("opening gateway: %w", err)
	}

	queueDone := make(chan struct{})
	go func() {
		defer close(queueDone)
		queue.Run(botCtx)
	}()

	// The ready handler runs the initial catch-up; this keeps the backup
	// fresh afterwards, one pass per window length.
	archiveDone := make(chan struct{})
	go func() {
		defer close(archiveDone)
		archiver.Run(botCtx)
	}()

	// Start admin server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: disconnect the gateway first so no new events
	// arrive, then let the queue drain its final flush.
	if err := gateway.Close(); err != nil {
		logger.Error("gateway close error", slog.Any("error", err))
	}
	stopBot()
	<-archiveDone
	<-queueDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	store.Close()

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, "discord", metrics, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (*postgres.Store, error) {
		return postgres.New(context.Background(), &cfg.Database, cfg.Archiver.BatchSize, logger)
	})

	do.Provide(injector, func(i do.Injector) (*discord.Gateway, error) {
		client := do.MustInvoke[*httpclient.Client](i)
		return discord.New(&cfg.Bot, client.HTTPClient(), logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.Store, error) {
		return do.MustInvoke[*postgres.Store](i), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.Gateway, error) {
		return do.MustInvoke[*discord.Gateway](i), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.Archiver, error) {
		store := do.MustInvoke[ports.Store](i)
		gateway := do.MustInvoke[ports.Gateway](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewArchiver(store, gateway, cfg.Archiver, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ArchiveService, error) {
		return do.MustInvoke[*app.Archiver](i), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.LeaderboardService, error) {
		store := do.MustInvoke[ports.Store](i)
		return app.NewLeaderboard(store, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.MessageQueue, error) {
		store := do.MustInvoke[ports.Store](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewMessageQueue(store, cfg.Archiver, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.RoleMenu, error) {
		gateway := do.MustInvoke[ports.Gateway](i)
		return app.NewRoleMenu(gateway, cfg.Bot.MenuChannelIDs, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.Commands, error) {
		gateway := do.MustInvoke[ports.Gateway](i)
		archive := do.MustInvoke[ports.ArchiveService](i)
		board := do.MustInvoke[ports.LeaderboardService](i)
		return app.NewCommands(gateway, archive, board, cfg.Bot.Prefix, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.EventRouter, error) {
		store := do.MustInvoke[ports.Store](i)
		queue := do.MustInvoke[*app.MessageQueue](i)
		menus := do.MustInvoke[*app.RoleMenu](i)
		archive := do.MustInvoke[ports.ArchiveService](i)
		commands := do.MustInvoke[*app.Commands](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewEventRouter(store, queue, menus, archive, commands, metrics, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.GuildHandler, error) {
		archive := do.MustInvoke[ports.ArchiveService](i)
		board := do.MustInvoke[ports.LeaderboardService](i)
		return handlers.NewGuildHandler(archive, board, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		guildH := do.MustInvoke[*handlers.GuildHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(guildH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
