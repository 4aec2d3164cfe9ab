package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/camayank/transfer-pricing-platform/config"
	"github.com/camayank/transfer-pricing-platform/internal/api"
	"github.com/camayank/transfer-pricing-platform/internal/benchmark"
	"github.com/camayank/transfer-pricing-platform/internal/cache"
	"github.com/camayank/transfer-pricing-platform/internal/database"
	"github.com/camayank/transfer-pricing-platform/internal/events"
	"github.com/camayank/transfer-pricing-platform/internal/forex"
	"github.com/camayank/transfer-pricing-platform/internal/logging"
	"github.com/camayank/transfer-pricing-platform/internal/thincap"
	"github.com/camayank/transfer-pricing-platform/internal/vault"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Failed to load configuration", "error", err)
	}

	logger := logging.New(&logging.Config{
		Level:       cfg.LoggingConfig.Level,
		Output:      cfg.LoggingConfig.Output,
		Component:   "main",
		IncludeFile: cfg.LoggingConfig.IncludeFile,
		JSONFormat:  cfg.LoggingConfig.JSONFormat,
	})
	logging.SetDefault(logger)

	zlogger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if !cfg.ServerConfig.ProductionMode {
		zlogger = zlogger.Level(zerolog.DebugLevel)
	}

	eventBus := events.NewEventBus()

	// Vault holds the primary provider's API key; a disabled client serves
	// from its in-memory store so local runs need no Vault.
	vaultClient, err := vault.NewClient(cfg.VaultConfig)
	if err != nil {
		logger.Fatal("Failed to initialize Vault client", "error", err)
	}
	if vaultClient.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		creds, err := vaultClient.GetCredentials(ctx, cfg.ForexConfig.PrimaryProvider)
		cancel()
		if err != nil {
			logger.Warn("Could not read provider credentials from Vault, using config values", "error", err)
		} else {
			cfg.ForexConfig.APIKey = creds.APIKey
			if creds.BaseURL != "" {
				cfg.ForexConfig.PrimaryBaseURL = creds.BaseURL
			}
		}
	}

	primary, err := forex.NewSource(forex.SourceConfig{
		Provider: cfg.ForexConfig.PrimaryProvider,
		BaseURL:  cfg.ForexConfig.PrimaryBaseURL,
		APIKey:   cfg.ForexConfig.APIKey,
		Timeout:  cfg.ForexConfig.RequestTimeout,
	}, zlogger)
	if err != nil {
		logger.Warn("Primary rate provider unavailable, relying on fallback chain", "error", err)
	}

	fallback, err := forex.NewSource(forex.SourceConfig{
		Provider: cfg.ForexConfig.FallbackProvider,
		BaseURL:  cfg.ForexConfig.FallbackBaseURL,
		Timeout:  cfg.ForexConfig.RequestTimeout,
	}, zlogger)
	if err != nil {
		logger.Warn("Fallback rate provider unavailable, static table terminates the chain", "error", err)
	}

	var sharedCache forex.SharedRateCache
	if cfg.RedisConfig.Enabled {
		rateCache, err := cache.NewRateCache(cfg.RedisConfig, cfg.ForexConfig.CacheTTL, zlogger)
		if err != nil {
			logger.Warn("Redis rate cache disabled", "error", err)
		} else {
			sharedCache = rateCache
			defer rateCache.Close()
		}
	}

	forexService := forex.NewService(primary, fallback, sharedCache, forex.ServiceConfig{
		CacheTTL: cfg.ForexConfig.CacheTTL,
	}, zlogger)

	thinCapEngine := thincap.NewEngine(thincap.Config{
		NetInterestIncome:    cfg.ThinCapConfig.NetInterestIncome,
		FloorAllowableAtZero: cfg.ThinCapConfig.FloorAllowableAtZero,
	})

	// Comparables come from PostgreSQL when configured, otherwise from the
	// bundled sample universe. The audit sink follows the same switch.
	var (
		comparables api.ComparablesSource = api.StaticSource(benchmark.SampleUniverse())
		repo        *database.Repository
	)
	if cfg.DatabaseConfig.Enabled {
		db, err := database.NewDB(database.Config{
			Host:     cfg.DatabaseConfig.Host,
			Port:     cfg.DatabaseConfig.Port,
			User:     cfg.DatabaseConfig.User,
			Password: cfg.DatabaseConfig.Password,
			Database: cfg.DatabaseConfig.Database,
			SSLMode:  cfg.DatabaseConfig.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = db.RunMigrations(ctx)
		cancel()
		if err != nil {
			logger.Fatal("Database migrations failed", "error", err)
		}

		repo = database.NewRepository(db)
		comparables = repo
		database.AttachAuditSink(eventBus, repo, zlogger)
	} else {
		logger.Info("Database disabled, serving bundled sample comparables universe")
	}

	server := api.NewServer(api.ServerConfig{
		Port:           cfg.ServerConfig.Port,
		Host:           cfg.ServerConfig.Host,
		AllowedOrigins: cfg.ServerConfig.AllowedOrigins,
		ProductionMode: cfg.ServerConfig.ProductionMode,
		ReadTimeout:    time.Duration(cfg.ServerConfig.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.ServerConfig.WriteTimeout) * time.Second,
	}, eventBus, forexService, thinCapEngine, comparables, repo)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server failed", "error", err)
		}
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ServerConfig.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}

	logger.Info("Server stopped")
}
