package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tair/inventory-console/internal/config"
	_ "github.com/tair/inventory-console/internal/console/docs"
	httpDelivery "github.com/tair/inventory-console/internal/console/delivery/http"
	"github.com/tair/inventory-console/internal/notify"
	"github.com/tair/inventory-console/pkg/logger"
	"github.com/tair/inventory-console/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("inventory-console", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("inventory_api", cfg.Upstream.BaseURL).
		Msg("Starting inventory console")

	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.ServiceName,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := notify.NewHub("")
	closeBridges := startBridges(ctx, cfg, hub)
	defer closeBridges()
	defer hub.Wait()

	app, err := InitializeConsole(cfg, prometheus.DefaultRegisterer, hub)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize console")
	}
	defer app.Controller.Close()

	logger.Logger.Info().
		Str("item_service", app.Client.BaseURL()).
		Str("default_role", string(cfg.DefaultRole)).
		Msg("Console initialized")

	// A failed first fetch leaves the list empty until the next refresh
	_ = app.Controller.Refresh(ctx)

	if err := runHTTPServer(ctx, cfg, app); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server stopped with error")
	}

	logger.Logger.Info().Msg("Shutting down console...")
}

// startBridges connects the hub to Kafka and Redis when they are configured.
// A bridge that fails to start is logged and skipped; the console then only
// sees its own updates.
func startBridges(ctx context.Context, cfg *config.ConsoleConfig, hub *notify.Hub) func() {
	var closers []func()

	if len(cfg.Kafka.Brokers) > 0 {
		bridge, err := notify.NewKafkaBridge(notify.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, hub)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka bridge disabled")
		} else {
			hub.AddRelay(bridge)
			bridge.Start(ctx)
			closers = append(closers, func() {
				if err := bridge.Close(); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to close Kafka bridge")
				}
			})
		}
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		bridge := notify.NewRedisBridge(client, cfg.Redis.Channel, hub)
		if err := bridge.Start(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("Redis bridge disabled")
			client.Close()
		} else {
			hub.AddRelay(bridge)
			closers = append(closers, func() { client.Close() })
		}
	}

	return func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

func runHTTPServer(ctx context.Context, cfg *config.ConsoleConfig, app *Console) error {
	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig(cfg.AllowedOrigins)
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	app.Handler.RegisterRoutes(router)
	app.Health.RegisterHealthCheck(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Event streams hold their request open until the base context ends
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpDelivery.SetupCORS(middlewareConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.Port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
