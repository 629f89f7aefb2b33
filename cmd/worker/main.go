package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raymond9734/crm-backend/internal/apiclient"
	"github.com/Raymond9734/crm-backend/internal/config"
	"github.com/Raymond9734/crm-backend/internal/jobs"
	"github.com/Raymond9734/crm-backend/internal/logging"
	"github.com/Raymond9734/crm-backend/internal/queue"
	"github.com/Raymond9734/crm-backend/internal/worker"
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
	logger.Info("starting CRM job worker")

	if !cfg.QueueEnabled() {
		logger.Error("REDIS_URL is required by the worker")
		os.Exit(1)
	}

	// Connect to Redis queue
	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	// Jobs talk to the CRM over HTTP
	api := apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.ClientTimeout,
		Retries: apiclient.DefaultRetries,
	}, logger)

	runner, err := jobs.NewRunner(api, jobs.Config{
		LogDir:            cfg.Jobs.LogDir,
		LowStockThreshold: cfg.Jobs.LowStockThreshold,
		RestockAmount:     cfg.Jobs.RestockAmount,
		ReminderWindow:    cfg.Jobs.ReminderWindow,
		ReminderTemplate:  cfg.Jobs.ReminderTemplate,
	}, logger)
	if err != nil {
		logger.Error("failed to set up jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	processor := worker.NewJobProcessor(runner, queueClient, cfg.Queue.LockTTL, logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming job requests
	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- queueClient.Consume(ctx, processor.Process, cfg.Worker.Concurrency)
	}()

	// Wait for interrupt signal or consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))

		// Cancel context to stop consumer; it drains in-flight jobs before returning
		cancel()

		select {
		case <-consumerDone:
			logger.Info("worker stopped gracefully")
		case <-time.After(30 * time.Second):
			logger.Warn("timed out waiting for in-flight jobs")
		}
	}
}
