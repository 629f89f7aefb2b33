package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// MaxConcurrency caps the number of job requests processed at once
const MaxConcurrency = 5

// releaseScript deletes the lock only when it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisClient implements Client and Locker using Redis
type RedisClient struct {
	client    *redis.Client
	queueName string
	logger    *slog.Logger
}

var (
	_ Client = (*RedisClient)(nil)
	_ Locker = (*RedisClient)(nil)
)

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL       string
	QueueName string
}

// NewRedisClient creates a new Redis queue client
func NewRedisClient(cfg RedisConfig, logger *slog.Logger) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis",
		slog.String("addr", opts.Addr),
		slog.String("queue", cfg.QueueName),
	)

	return &RedisClient{
		client:    client,
		queueName: cfg.QueueName,
		logger:    logger,
	}, nil
}

// Publish sends a job request to the queue
func (c *RedisClient) Publish(ctx context.Context, job *models.JobRequest) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	// LPUSH + BRPOP gives FIFO order
	if err := c.client.LPush(ctx, c.queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to push job to queue: %w", err)
	}

	c.logger.Debug("job published to queue",
		slog.String("job_id", job.ID),
		slog.String("job", job.Name),
	)

	return nil
}

// Consume receives job requests from the queue and processes them with the
// handler, at most MaxConcurrency at a time
func (c *RedisClient) Consume(ctx context.Context, handler JobHandler, concurrency int) error {
	concurrency = clampConcurrency(concurrency)

	c.logger.Info("starting queue consumer",
		slog.String("queue", c.queueName),
		slog.Int("concurrency", concurrency),
	)

	semaphore := make(chan struct{}, concurrency)
	drain := func() {
		for i := 0; i < concurrency; i++ {
			semaphore <- struct{}{}
		}
	}

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopped by context, waiting for in-flight jobs to complete")
			drain()
			c.logger.Info("all in-flight jobs completed")
			return ctx.Err()

		default:
			result, err := c.client.BRPop(ctx, 1*time.Second, c.queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					c.logger.Info("consumer stopped by context")
					drain()
					return err
				}
				c.logger.Error("failed to pop from queue", slog.String("error", err.Error()))
				time.Sleep(1 * time.Second)
				continue
			}

			// BRPOP returns [queueName, value]
			if len(result) < 2 {
				c.logger.Error("unexpected BRPOP result format")
				continue
			}

			job, err := decodeJob(result[1])
			if err != nil {
				c.logger.Error("failed to decode job",
					slog.String("error", err.Error()),
					slog.String("data", result[1]),
				)
				continue
			}

			c.logger.Debug("job received from queue",
				slog.String("job_id", job.ID),
				slog.String("job", job.Name),
			)

			semaphore <- struct{}{}

			go func(job *models.JobRequest) {
				defer func() { <-semaphore }()

				if err := handler(ctx, job); err != nil {
					c.logger.Error("handler failed to process job",
						slog.String("job_id", job.ID),
						slog.String("job", job.Name),
						slog.String("error", err.Error()),
					)
				}
			}(job)
		}
	}
}

// Acquire takes the named lock with SET NX and a TTL so a crashed holder
// cannot keep it forever
func (c *RedisClient) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	key := lockKey(c.queueName, name)
	token := uuid.NewString()

	ok, err := c.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, c.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}

	return release, nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	c.logger.Info("closing Redis connection")
	return c.client.Close()
}

// Health checks if Redis is healthy
func (c *RedisClient) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

func clampConcurrency(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxConcurrency {
		return MaxConcurrency
	}
	return n
}

func lockKey(queueName, job string) string {
	return queueName + ":lock:" + job
}

func decodeJob(data string) (*models.JobRequest, error) {
	var job models.JobRequest
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	if !models.IsValidJobName(job.Name) {
		return nil, fmt.Errorf("unknown job %q", job.Name)
	}
	return &job, nil
}
