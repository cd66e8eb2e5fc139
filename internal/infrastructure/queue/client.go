package queue

import (
	"fmt"

	"github.com/hibiken/asynq"

	"pttech-backend/internal/config"
	"pttech-backend/pkg/logger"
)

// Client wraps the asynq client so domain services enqueue work without
// knowing about Redis.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Enqueue submits a task. Enqueue failures are logged but reported to the
// caller; most call sites treat email delivery as best-effort.
func (c *Client) Enqueue(task *asynq.Task, opts ...asynq.Option) error {
	info, err := c.client.Enqueue(task, opts...)
	if err != nil {
		logger.Error("enqueue task failed", err)
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	logger.Debug(fmt.Sprintf("enqueued task %s id=%s queue=%s", task.Type(), info.ID, info.Queue))
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
