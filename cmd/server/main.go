package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/cutthroat/internal/api"
	"github.com/mcoot/cutthroat/internal/config"
	"github.com/mcoot/cutthroat/internal/factory"
	"github.com/mcoot/cutthroat/internal/services/session"
	"github.com/mcoot/cutthroat/internal/storage/postgres"
	redisstorage "github.com/mcoot/cutthroat/internal/storage/redis"
	"github.com/mcoot/cutthroat/internal/telemetry"
)

const serviceName = "cutthroat"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.AllowInsecureDefaults {
		logger.Warn("insecure defaults allowed; do not run this way in production")
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Error("failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown error", slog.String("error", err.Error()))
		}
	}()

	app, err := factory.New(ctx, factoryConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("storage close error", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		PlayerService: app.PlayerService,
		Sessions:      app.Sessions,
		Storage:       app.Storage,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Int("bcrypt_cost", cfg.BcryptCost),
		slog.Int("session_timeout_days", cfg.SessionTimeoutDays),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func factoryConfig(cfg *config.Config, logger *slog.Logger) factory.Config {
	sessionCfg := session.DefaultConfig()
	sessionCfg.Secret = []byte(cfg.SessionSecret)
	sessionCfg.ValidityDays = cfg.SessionTimeoutDays

	fc := factory.Config{
		Logger:        logger,
		StorageType:   cfg.StorageType,
		SQLitePath:    cfg.SQLitePath,
		BcryptCost:    cfg.BcryptCost,
		SessionConfig: sessionCfg,
	}

	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fc.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		pgCfg := postgres.DefaultConfig(cfg.DatabaseURL)
		fc.PostgresConfig = &pgCfg
	}

	return fc
}
