/**
 * @description
 * This is the main entry point for the subscription manager.
 * It initializes and wires together all the components of the application,
 * including configuration, database connection, repositories, services,
 * the cron scheduler, and the HTTP router.
 * Finally, it starts the HTTP server to listen for incoming requests.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/HoanTQ/subcription-manager/internal/api"
	"github.com/HoanTQ/subcription-manager/internal/app"
	"github.com/HoanTQ/subcription-manager/internal/config"
	"github.com/HoanTQ/subcription-manager/internal/store"
	"github.com/HoanTQ/subcription-manager/internal/vault"
	"github.com/HoanTQ/subcription-manager/pkg/rabbitmq"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env in local development; environment variables win in deployment
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	// Load application configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up channel to listen for OS signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Establish connection to the PostgreSQL database with connection pool configuration
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Use simple protocol so PgBouncer transaction pooling does not trip over
	// prepared statement caching (SQLSTATE 42P05)
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// Ensure required tables exist (idempotent)
	if err := store.EnsureSchema(ctx, dbpool); err != nil {
		logger.Warn("failed ensuring tables (may already exist)", "error", err)
	}

	// Connect the event producer, falling back to a log-only publisher so the
	// API still serves requests when the broker is down
	var producer rabbitmq.Publisher
	if cfg.AMQPURL != "" {
		p, err := rabbitmq.NewEventProducer(cfg.AMQPURL, logger)
		if err != nil {
			logger.Warn("failed to connect to RabbitMQ, using fallback publisher", "error", err)
			producer = &rabbitmq.EventProducerFallback{Logger: logger}
		} else {
			producer = p
			logger.Info("event producer connected")
		}
	} else {
		producer = &rabbitmq.EventProducerFallback{Logger: logger}
	}
	defer producer.Close()

	// Credential vault cipher
	cipher, err := vault.NewCipher(cfg.EncryptionKey)
	if err != nil {
		logger.Error("failed to initialize vault cipher", "error", err)
		os.Exit(1)
	}

	// Initialize application layers
	userRepo := store.NewUserRepository(dbpool)
	subscriptionRepo := store.NewSubscriptionRepository(dbpool)
	accountRepo := store.NewAccountRepository(dbpool)

	authService := app.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour, logger)
	subscriptionService := app.NewSubscriptionService(subscriptionRepo, producer, logger)
	accountService := app.NewAccountService(accountRepo, cipher, logger)
	dashboardService := app.NewDashboardService(subscriptionRepo, logger)

	// Start the cron scheduler for reminder scans and fixed term expiry
	jobs := app.NewJobs(subscriptionRepo, producer, logger)
	scheduler := app.NewScheduler(jobs, logger, cfg)
	scheduler.Start()

	router := api.NewRouter(api.Handlers{
		Auth:          api.NewAuthHandler(authService),
		Subscriptions: api.NewSubscriptionHandler(subscriptionService),
		Accounts:      api.NewAccountHandler(accountService),
		Dashboard:     api.NewDashboardHandler(dashboardService, cfg.DefaultLookaheadDays),
	}, cfg.JWTSecret)

	// Configure and start the HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for an OS signal
	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	// Stop the scheduler and wait for running jobs to finish
	<-scheduler.Stop().Done()

	// Create a context with a timeout for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Attempt to gracefully shut down the server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
