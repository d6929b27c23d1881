// Package main is the entry point for the Gelato MCP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/printops/gelato-mcp/internal/adapters/clients"
	"github.com/printops/gelato-mcp/internal/adapters/clients/gelato"
	"github.com/printops/gelato-mcp/internal/adapters/mcp"
	"github.com/printops/gelato-mcp/internal/adapters/ops"
	"github.com/printops/gelato-mcp/internal/app"
	"github.com/printops/gelato-mcp/internal/domain"
	"github.com/printops/gelato-mcp/internal/platform/config"
	"github.com/printops/gelato-mcp/internal/platform/logging"
	"github.com/printops/gelato-mcp/internal/platform/telemetry"
	"github.com/printops/gelato-mcp/internal/ports"
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

// connectionProbeTimeout bounds the startup credential check.
const connectionProbeTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

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
		return fmt.Errorf("invalid config: %w (is GELATO_API_KEY set?)", err)
	}

	// 3. Initialize logging. The logger writes to stderr: stdout is
	// the protocol stream and must carry nothing else.
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
	slog.SetDefault(logger)
	logging.SetDefault(logger)

	logger.Info("starting server",
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
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create transports for the two provider hosts
	auth := gelato.APIKeyAuth(cfg.Gelato.APIKey)
	transportCfg := clients.TransportConfig{
		MaxIdleConns:        cfg.Client.Transport.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Client.Transport.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Client.Transport.IdleConnTimeout,
	}

	orderTransport, err := clients.New(&clients.Config{
		BaseURL:     cfg.Gelato.OrderBaseURL,
		ServiceName: "gelato-orders",
		Timeout:     cfg.Client.Timeout,
		Transport:   transportCfg,
		AuthFunc:    auth,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating order transport: %w", err)
	}

	productTransport, err := clients.New(&clients.Config{
		BaseURL:     cfg.Gelato.ProductBaseURL,
		ServiceName: "gelato-products",
		Timeout:     cfg.Client.Timeout,
		Transport:   transportCfg,
		AuthFunc:    auth,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating product transport: %w", err)
	}

	// 6. Create the provider client and verify the credential before
	// accepting any request. A rejected key aborts startup.
	client := gelato.New(gelato.Config{
		Orders:   orderTransport,
		Products: productTransport,
		Logger:   logger,
	})
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Error("client close error", slog.Any("error", closeErr))
		}
	}()

	probeCtx, cancelProbe := context.WithTimeout(ctx, connectionProbeTimeout)
	err = client.TestConnection(probeCtx)
	cancelProbe()

	if err != nil {
		if domain.IsAuthentication(err) {
			return fmt.Errorf("gelato api rejected the credential, check GELATO_API_KEY: %w", err)
		}

		return fmt.Errorf("gelato api unreachable: %w", err)
	}

	logger.Info("connected to gelato api")

	// 7. Register the client as a health checker
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(client); err != nil {
		return fmt.Errorf("registering health check: %w", err)
	}

	// 8. Create the application service
	service := app.NewService(client, &app.ServiceConfig{Logger: logger})

	// 9. Optionally start the operational sidecar
	var (
		opsServer *ops.Server
		opsErr    <-chan error
	)

	if cfg.Ops.Enabled {
		opsServer = ops.New(&cfg.Ops, healthRegistry,
			ops.NewBuildInfo(Version, Commit, BuildTime), logger)
		opsErr = opsServer.Start()
	}

	// 10. Serve the protocol on stdio until EOF or a signal
	server := mcp.NewServer(mcp.Config{
		Service: service,
		Name:    cfg.App.Name,
		Version: cfg.App.Version,
		Logger:  logger,
	})

	serveCtx, cancelServe := context.WithCancel(ctx)
	defer cancelServe()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(serveCtx)
	}()

	err = waitForShutdown(logger, serveErr, opsErr, cancelServe)

	// 11. Drain the sidecar before exiting
	if opsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Ops.ShutdownTimeout)
		defer cancel()

		if shutdownErr := opsServer.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("ops shutdown error", slog.Any("error", shutdownErr))
		}
	}

	return err
}

// waitForShutdown blocks until the protocol loop ends, the sidecar
// fails, or an OS signal arrives.
func waitForShutdown(
	logger *slog.Logger,
	serveErr <-chan error,
	opsErr <-chan error,
	cancelServe context.CancelFunc,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		// Client closed stdin or the loop failed.
		return err

	case err := <-opsErr:
		if err != nil {
			cancelServe()

			return fmt.Errorf("ops server: %w", err)
		}

		// Channel closed cleanly, keep serving the protocol.
		return <-serveErr

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancelServe()

		return nil
	}
}
