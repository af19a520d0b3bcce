// Package main is the entry point for the inspiration service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/betterdays/inspiration-service/internal/adapters/clients"
	"github.com/betterdays/inspiration-service/internal/adapters/clients/acl"
	"github.com/betterdays/inspiration-service/internal/adapters/flags"
	"github.com/betterdays/inspiration-service/internal/adapters/http"
	"github.com/betterdays/inspiration-service/internal/adapters/http/handlers"
	"github.com/betterdays/inspiration-service/internal/app"
	"github.com/betterdays/inspiration-service/internal/platform/config"
	"github.com/betterdays/inspiration-service/internal/platform/logging"
	"github.com/betterdays/inspiration-service/internal/platform/telemetry"
	"github.com/betterdays/inspiration-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	quoteMetrics, err := telemetry.NewQuoteMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("registering quote metrics: %w", err)
	}

	// 5. Create the quote upstream adapter
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Quote.Endpoint,
		ServiceName: acl.QuoteServiceName,
		Timeout:     cfg.Client.Timeout,
		UserAgent:   cfg.Client.UserAgent,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	quoteClient := acl.NewInspirationClient(acl.InspirationClientConfig{
		Client: httpClient,
		Logger: logger,
	})

	// 6. Create and mount the quote provider
	featureFlags := flags.NewStatic(cfg.Features, logger)
	logger.Info("feature flags loaded", slog.Any("flags", featureFlags.Snapshot()))

	provider := app.NewQuoteProvider(app.QuoteProviderConfig{
		Source:   quoteClient,
		Flags:    featureFlags,
		Observer: quoteMetrics,
		Logger:   logger,
		Retry: app.RetryPolicy{
			MaxRetries:     cfg.Quote.MaxRetries,
			InitialBackoff: cfg.Quote.InitialBackoff,
			MaxBackoff:     cfg.Quote.MaxBackoff,
			Multiplier:     cfg.Quote.Multiplier,
		},
		AttemptTimeout: cfg.Quote.AttemptTimeout,
		Lazy:           !cfg.Quote.FetchOnStart,
	})
	provider.Start(ctx)

	// 7. Register health checks. A quote outage is recoverable through retry,
	// so it must not take the service out of rotation.
	healthRegistry := ports.NewHealthRegistry()
	for _, checker := range []ports.HealthChecker{quoteClient, provider} {
		if err := healthRegistry.Register(ports.Advisory(checker)); err != nil {
			return fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	logger.Debug("health checks registered", slog.Int("count", healthRegistry.Len()))

	// 8. Create handlers, server and router
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer)
	quoteHandler := handlers.NewQuoteHandler(provider, handlers.DefaultHeartbeat)

	server := http.New(&cfg.Server, logger)

	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, healthHandler, quoteHandler)
	routerCfg.Timeout = cfg.Server.RequestTimeout
	http.SetupRouter(server.Engine(), routerCfg)

	// Closing the provider ends open event streams so shutdown can drain them.
	server.RegisterOnShutdown(provider.Close)

	// 9. Serve until a signal arrives or the listener fails
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()

		if ctx.Err() != nil {
			logger.Info("received shutdown signal", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
		}

		return nil
	})

	err = g.Wait()

	provider.Close()

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
