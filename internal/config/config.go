package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers. DriverMemory keeps all data in process memory.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Queue    QueueConfig
	API      APIConfig
	Worker   WorkerConfig
	Logging  LoggingConfig
	Jobs     JobsConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// QueueConfig holds queue configuration (Redis). An empty RedisURL disables
// the queue.
type QueueConfig struct {
	RedisURL  string
	QueueName string
	LockTTL   time.Duration
}

// APIConfig holds API server configuration. BaseURL and ClientTimeout are
// used by the jobs when they call the API.
type APIConfig struct {
	Port          int
	BaseURL       string
	ClientTimeout time.Duration
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	Concurrency int
}

// LoggingConfig holds log level and format
type LoggingConfig struct {
	Level  string
	Format string
}

// JobsConfig holds periodic job settings
type JobsConfig struct {
	LogDir            string
	LowStockThreshold int
	RestockAmount     int
	ReminderWindow    time.Duration
	ReminderTemplate  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var p parser

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         p.intVar("DB_PORT", 5432),
			User:         getEnv("DB_USER", "crm"),
			Password:     getEnv("DB_PASSWORD", "crm"),
			DBName:       getEnv("DB_NAME", "crm"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: p.intVar("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: p.intVar("DB_MAX_IDLE_CONNS", 5),
		},
		Queue: QueueConfig{
			RedisURL:  os.Getenv("REDIS_URL"),
			QueueName: getEnv("QUEUE_NAME", "crm_jobs"),
			LockTTL:   p.durationVar("JOB_LOCK_TTL", 5*time.Minute),
		},
		API: APIConfig{
			Port:          p.intVar("API_PORT", 8080),
			BaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
			ClientTimeout: p.durationVar("API_CLIENT_TIMEOUT", 10*time.Second),
		},
		Worker: WorkerConfig{
			Concurrency: p.intVar("WORKER_CONCURRENCY", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Jobs: JobsConfig{
			LogDir:            getEnv("JOB_LOG_DIR", "/tmp"),
			LowStockThreshold: p.intVar("LOW_STOCK_THRESHOLD", 10),
			RestockAmount:     p.intVar("RESTOCK_AMOUNT", 10),
			ReminderWindow:    p.durationVar("REMINDER_WINDOW", 7*24*time.Hour),
			ReminderTemplate:  getEnv("REMINDER_TEMPLATE", "Order {order_id} -> {email}"),
		},
	}

	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks values that would only fail later at runtime
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverPgx, DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be one of %s, %s, %s; got %q", DriverPostgres, DriverPgx, DriverMemory, c.Database.Driver)
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("API_PORT out of range: %d", c.API.Port)
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}
	if c.Queue.LockTTL <= 0 {
		return fmt.Errorf("JOB_LOCK_TTL must be positive")
	}
	if c.Jobs.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD cannot be negative")
	}
	if c.Jobs.RestockAmount < 1 {
		return fmt.Errorf("RESTOCK_AMOUNT must be positive")
	}
	if c.Jobs.ReminderWindow <= 0 {
		return fmt.Errorf("REMINDER_WINDOW must be positive")
	}
	if c.Jobs.LogDir == "" {
		return fmt.Errorf("JOB_LOG_DIR is required")
	}
	return nil
}

// QueueEnabled reports whether a Redis queue is configured
func (c *Config) QueueEnabled() bool {
	return c.Queue.RedisURL != ""
}

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser reads typed variables and keeps the first error
type parser struct {
	err error
}

func (p *parser) intVar(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return n
}

func (p *parser) durationVar(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return d
}
