package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sokinpui/spark.go/internal/models"
)

// ErrMalformed marks a queue item that could not be decoded. The item has
// already been moved to the dead-letter list, so callers can keep going.
var ErrMalformed = errors.New("malformed queue item")

// RQueue is a FIFO of strategy tasks on a Redis list. Items that fail to
// decode are parked on "<name>:dead" for inspection.
type RQueue struct {
	redisClient *redis.Client
	name        string
}

func New(redisClient *redis.Client, name string) *RQueue {
	return &RQueue{
		redisClient: redisClient,
		name:        name,
	}
}

func (q *RQueue) DeadLetterName() string {
	return q.name + ":dead"
}

func (q *RQueue) Enqueue(ctx context.Context, task *models.StrategyTask) error {
	item, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return q.redisClient.LPush(ctx, q.name, item).Err()
}

// Dequeue blocks for up to timeout (0 means forever). It returns nil, nil
// when the timeout elapses with the list still empty, and an error wrapping
// ErrMalformed when the popped item is not a task.
func (q *RQueue) Dequeue(ctx context.Context, timeout time.Duration) (*models.StrategyTask, error) {
	data, err := q.redisClient.BRPop(ctx, timeout, q.name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	if len(data) < 2 {
		return nil, nil
	}

	var task models.StrategyTask
	if err := json.Unmarshal([]byte(data[1]), &task); err != nil {
		return nil, q.deadLetter(ctx, data[1], err)
	}
	if task.TaskID == "" {
		return nil, q.deadLetter(ctx, data[1], errors.New("missing task_id"))
	}
	return &task, nil
}

func (q *RQueue) deadLetter(ctx context.Context, item string, cause error) error {
	if err := q.redisClient.LPush(context.WithoutCancel(ctx), q.DeadLetterName(), item).Err(); err != nil {
		return fmt.Errorf("%w: %v (dead-letter push failed: %v)", ErrMalformed, cause, err)
	}
	return fmt.Errorf("%w: %v", ErrMalformed, cause)
}
