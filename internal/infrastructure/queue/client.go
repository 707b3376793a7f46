package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"bibliotech/internal/snapshot"
)

// ErrSnapshotPending is returned while an earlier request is still queued.
var ErrSnapshotPending = errors.New("a snapshot is already queued")

// Client enqueues tasks for the worker.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, password string, db int) *Client {
	return &Client{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db})}
}

// EnqueueSnapshot asks the worker for a snapshot now. Requests made while one
// is still pending collapse into it.
func (c *Client) EnqueueSnapshot(ctx context.Context, reason string) (string, error) {
	task, err := snapshot.NewTask(reason)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Unique(time.Minute),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return "", ErrSnapshotPending
	}
	if err != nil {
		return "", fmt.Errorf("failed to enqueue snapshot: %w", err)
	}
	return info.ID, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
