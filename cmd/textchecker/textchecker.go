package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"textchecker/internal/api"
	"textchecker/internal/checker"
	"textchecker/internal/completion"
	"textchecker/internal/config"
	"textchecker/internal/history"
	"textchecker/internal/logger"
	"textchecker/internal/models"
	"textchecker/internal/observability"
	"textchecker/internal/ratelimit"
	"textchecker/internal/version"
)

var (
	configFile    = flag.String("config", "", "Path to configuration file")
	exampleConfig = flag.String("example-config", "", "Write an example configuration file to this path and exit")
	showVersion   = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	ver := version.GetInfo()

	if *showVersion {
		fmt.Println(ver.String())
		return
	}

	if *exampleConfig != "" {
		if err := config.SaveExample(*exampleConfig); err != nil {
			slog.Error("Failed to write example configuration", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Example configuration written to %s\n", *exampleConfig)
		return
	}

	// Load configuration (.env, YAML file, environment)
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logging
	log, closer, err := logger.Setup(cfg.Logging, ver)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(log)

	// Initialize observability (OpenTelemetry)
	otelProvider, err := observability.Setup(cfg.Metrics, cfg.Observability, ver)
	if err != nil {
		slog.Error("Failed to initialize observability", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown observability", "error", err)
		}
	}()

	// Initialize check history
	store, err := history.New(context.Background(), cfg.History)
	if err != nil {
		slog.Error("Failed to initialize check history", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	service, err := newService(cfg, store, otelProvider)
	if err != nil {
		slog.Error("Failed to initialize checker", "error", err)
		os.Exit(1)
	}

	proxies, err := ratelimit.ParseProxyTrust(cfg.Security.TrustedProxies)
	if err != nil {
		slog.Error("Failed to parse trusted proxies", "error", err)
		os.Exit(1)
	}

	handlers := api.NewHandlers(service,
		api.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		api.WithVersion(ver),
		api.WithProxyTrust(proxies),
	)

	// Setup routes with middleware
	routeOpts := []api.RouteOption{}
	if cfg.Observability.Tracing.Enabled {
		routeOpts = append(routeOpts, api.WithOTelMiddleware(cfg.Observability.ServiceName))
	}
	router := api.SetupRoutes(handlers, cfg, routeOpts...)

	// Start metrics server if enabled
	var metricsServer *observability.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer = observability.NewMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path, otelProvider)
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Starting server",
			"addr", server.Addr,
			"provider", cfg.Completion.Provider,
			"history", store.Backend(),
			"rate_limit", cfg.Security.RateLimit.Enabled,
			"access_password", cfg.Security.AccessPassword != "")
		slog.Info(fmt.Sprintf("Grammar checker running at %s", listenURL(cfg.Server)))

		var err error
		if cfg.Server.TLSEnabled {
			if cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "" {
				slog.Error("TLS is enabled but cert file or key file is not specified")
				os.Exit(1)
			}
			err = server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("Metrics server forced to shutdown", "error", err)
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server shutdown complete")
}

// newService wires the completion provider, limiter, history and metrics into
// a checker service.
func newService(cfg *models.Config, store history.Store, otelProvider *observability.Provider) (*checker.Service, error) {
	completer, err := completion.New(cfg.Completion)
	if err != nil {
		return nil, fmt.Errorf("completion provider: %w", err)
	}

	instrumented, err := observability.NewInstrumentedCompleter(completer, cfg.Completion.Provider,
		otelProvider.MeterProvider(), nil)
	if err != nil {
		return nil, fmt.Errorf("instrument completer: %w", err)
	}

	checkMetrics, err := observability.NewCheckMetrics(otelProvider.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("check metrics: %w", err)
	}

	opts := []checker.Option{
		checker.WithAccessPassword(cfg.Security.AccessPassword),
		checker.WithTimeout(cfg.Completion.Timeout),
		checker.WithHistory(store),
		checker.WithMetrics(checkMetrics),
	}
	if rl := cfg.Security.RateLimit; rl.Enabled {
		opts = append(opts, checker.WithLimiter(ratelimit.NewWindowLimiter(rl.Window, rl.MaxRequests)))
	}

	return checker.NewService(instrumented, opts...), nil
}

// listenURL renders the address clients should use for the startup banner.
func listenURL(sc models.ServerConfig) string {
	scheme := "http"
	if sc.TLSEnabled {
		scheme = "https"
	}
	host := sc.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, sc.Port)
}
