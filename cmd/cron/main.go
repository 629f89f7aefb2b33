// Command cron triggers one periodic job. It is meant to be invoked by the
// system scheduler (crontab, Kubernetes CronJob). By default it enqueues the
// job for the worker; with -inline it runs the job in this process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Raymond9734/crm-backend/internal/apiclient"
	"github.com/Raymond9734/crm-backend/internal/config"
	"github.com/Raymond9734/crm-backend/internal/jobs"
	"github.com/Raymond9734/crm-backend/internal/logging"
	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/queue"
)

func main() {
	jobName := flag.String("job", "", "job to trigger: "+strings.Join(jobNames(), ", "))
	inline := flag.Bool("inline", false, "run the job in this process instead of enqueuing it")
	timeout := flag.Duration("timeout", 2*time.Minute, "maximum run time")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if !models.IsValidJobName(*jobName) {
		fmt.Fprintf(os.Stderr, "unknown job %q, expected one of: %s\n", *jobName, strings.Join(jobNames(), ", "))
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *inline || !cfg.QueueEnabled() {
		if err := runInline(ctx, cfg, *jobName, logger); err != nil {
			logger.Error("job failed", slog.String("job", *jobName), slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if err := enqueue(ctx, cfg, *jobName, logger); err != nil {
		logger.Error("failed to enqueue job", slog.String("job", *jobName), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func jobNames() []string {
	return []string{models.JobHeartbeat, models.JobLowStock, models.JobOrderReminders, models.JobWeeklyReport}
}

func runInline(ctx context.Context, cfg *config.Config, name string, logger *slog.Logger) error {
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
		return err
	}

	logger.Info("running job inline", slog.String("job", name))
	return runner.Run(ctx, name)
}

func enqueue(ctx context.Context, cfg *config.Config, name string, logger *slog.Logger) error {
	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		return err
	}
	defer queueClient.Close()

	job := models.NewJobRequest(name)
	if err := queueClient.Publish(ctx, job); err != nil {
		return err
	}

	logger.Info("job enqueued", slog.String("job", name), slog.String("job_id", job.ID))
	return nil
}
