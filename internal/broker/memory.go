package broker

import (
	"context"
	"sync"

	"github.com/sokinpui/spark.go/internal/models"
)

type MemoryBroker struct {
	tasks       chan *models.StrategyTask
	subscribers map[string]chan *models.TaskResult
	mu          sync.RWMutex
}

func NewMemoryBroker(bufferSize int) *MemoryBroker {
	return &MemoryBroker{
		tasks:       make(chan *models.StrategyTask, bufferSize),
		subscribers: make(map[string]chan *models.TaskResult),
	}
}

func (b *MemoryBroker) Enqueue(ctx context.Context, task *models.StrategyTask) error {
	select {
	case b.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *MemoryBroker) Dequeue(ctx context.Context) (*models.StrategyTask, error) {
	select {
	case task := <-b.tasks:
		return task, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *MemoryBroker) Subscribe(_ context.Context, taskID string) (<-chan *models.TaskResult, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// One result per task, so a single slot keeps Publish from blocking.
	ch := make(chan *models.TaskResult, 1)
	b.subscribers[taskID] = ch
	return ch, func() { b.unsubscribe(taskID, ch) }, nil
}

func (b *MemoryBroker) unsubscribe(taskID string, ch chan *models.TaskResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cur, ok := b.subscribers[taskID]; ok && cur == ch {
		delete(b.subscribers, taskID)
	}
}

// Publish drops results nobody is waiting for.
func (b *MemoryBroker) Publish(_ context.Context, result *models.TaskResult) error {
	b.mu.Lock()
	ch, ok := b.subscribers[result.TaskID]
	if ok {
		delete(b.subscribers, result.TaskID)
	}
	b.mu.Unlock()

	if ok {
		ch <- result
	}
	return nil
}
