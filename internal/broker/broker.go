package broker

import (
	"context"
	"errors"

	"github.com/sokinpui/spark.go/internal/models"
)

var ErrClosed = errors.New("broker closed")

// Broker hands tasks to workers and routes each result back to the
// request that is waiting for it. Subscribe must be called before Enqueue.
type Broker interface {
	Enqueue(ctx context.Context, task *models.StrategyTask) error
	Dequeue(ctx context.Context) (*models.StrategyTask, error)
	Publish(ctx context.Context, result *models.TaskResult) error
	Subscribe(ctx context.Context, taskID string) (<-chan *models.TaskResult, func(), error)
}
