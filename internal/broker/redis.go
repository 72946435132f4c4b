package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sokinpui/spark.go/internal/models"
	"github.com/sokinpui/spark.go/internal/queue"
)

// pollInterval bounds each BRPOP so Dequeue notices context cancellation.
const pollInterval = time.Second

type RedisBroker struct {
	redisClient *redis.Client
	queue       *queue.RQueue
}

func NewRedisBroker(redisClient *redis.Client, queueName string) *RedisBroker {
	return &RedisBroker{
		redisClient: redisClient,
		queue:       queue.New(redisClient, queueName),
	}
}

func resultChannel(taskID string) string {
	return "result:" + taskID
}

func (b *RedisBroker) Enqueue(ctx context.Context, task *models.StrategyTask) error {
	return b.queue.Enqueue(ctx, task)
}

// Dequeue skips malformed items (queue.ErrMalformed); only transport
// errors reach the caller.
func (b *RedisBroker) Dequeue(ctx context.Context) (*models.StrategyTask, error) {
	for {
		task, err := b.queue.Dequeue(ctx, pollInterval)
		if errors.Is(err, queue.ErrMalformed) {
			log.Printf("Moved malformed item to %s: %v", b.queue.DeadLetterName(), err)
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		if task != nil {
			return task, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func (b *RedisBroker) Publish(ctx context.Context, result *models.TaskResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return b.redisClient.Publish(ctx, resultChannel(result.TaskID), payload).Err()
}

// Subscribe returns once Redis has confirmed the subscription, so a result
// published after the matching Enqueue cannot be missed.
func (b *RedisBroker) Subscribe(ctx context.Context, taskID string) (<-chan *models.TaskResult, func(), error) {
	pubsub := b.redisClient.Subscribe(ctx, resultChannel(taskID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", resultChannel(taskID), err)
	}

	out := make(chan *models.TaskResult, 1)
	msgs := pubsub.Channel()

	go func() {
		defer close(out)
		for msg := range msgs {
			var result models.TaskResult
			if err := json.Unmarshal([]byte(msg.Payload), &result); err != nil {
				log.Printf("Discarding malformed result for task %s: %v", taskID, err)
				continue
			}
			out <- &result
			return
		}
	}()

	return out, func() { pubsub.Close() }, nil
}
