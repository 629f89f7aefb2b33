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

	"github.com/Raymond9734/crm-backend/internal/config"
	"github.com/Raymond9734/crm-backend/internal/db"
	"github.com/Raymond9734/crm-backend/internal/handler"
	"github.com/Raymond9734/crm-backend/internal/logging"
	"github.com/Raymond9734/crm-backend/internal/queue"
	"github.com/Raymond9734/crm-backend/internal/repository"
	"github.com/Raymond9734/crm-backend/internal/repository/memstore"
	"github.com/Raymond9734/crm-backend/internal/service"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting CRM API server", slog.String("db_driver", cfg.Database.Driver))

	// Pick the store
	var (
		store  repository.Store
		pinger handler.Pinger
	)
	if cfg.Database.Driver == config.DriverMemory {
		store = memstore.New()
		logger.Warn("using in-memory store, data is lost on restart")
	} else {
		database, err := db.New(db.Config{
			Driver:       cfg.Database.Driver,
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			DBName:       cfg.Database.DBName,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			logger.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.Close()

		if err := database.Migrate(context.Background()); err != nil {
			logger.Error("failed to apply schema", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("connected to database")
		store = repository.NewStore(database.DB)
		pinger = database.DB
	}

	// Connect to Redis queue when configured
	var (
		publisher   handler.JobPublisher
		queueHealth handler.HealthChecker
	)
	if cfg.QueueEnabled() {
		queueClient, err := queue.NewRedisClient(queue.RedisConfig{
			URL:       cfg.Queue.RedisURL,
			QueueName: cfg.Queue.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer queueClient.Close()

		publisher = queueClient
		queueHealth = queueClient
	} else {
		logger.Info("REDIS_URL not set, job enqueuing disabled")
	}

	// Initialize services
	customerSvc := service.NewCustomerService(store, logger)
	productSvc := service.NewProductService(store, logger)
	orderSvc := service.NewOrderService(store, logger)
	reportSvc := service.NewReportService(store)

	// Setup router
	router := handler.NewRouter(handler.Handlers{
		Health:    handler.NewHealthHandler(pinger, queueHealth, logger),
		Customers: handler.NewCustomerHandler(customerSvc, logger),
		Products:  handler.NewProductHandler(productSvc, logger),
		Orders:    handler.NewOrderHandler(orderSvc, logger),
		Reports:   handler.NewReportHandler(reportSvc, logger),
		Jobs:      handler.NewJobHandler(publisher, logger),
	}, logger)

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
