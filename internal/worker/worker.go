package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sokinpui/spark.go/internal/broker"
	"github.com/sokinpui/spark.go/internal/color"
	"github.com/sokinpui/spark.go/internal/metrics"
	"github.com/sokinpui/spark.go/internal/models"
	"github.com/sokinpui/spark.go/internal/strategy"
	"golang.org/x/sync/errgroup"
)

// Generator is the part of strategy.Generator the worker needs.
type Generator interface {
	Generate(ctx context.Context, req strategy.Request) (string, error)
}

// StrategyWorker dequeues blueprint tasks and publishes their results.
type StrategyWorker struct {
	workerID    string
	broker      broker.Broker
	generator   Generator
	concurrency int
}

func New(b broker.Broker, generator Generator, concurrency int) *StrategyWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &StrategyWorker{
		workerID:    fmt.Sprintf("StrategyWorker-%d", os.Getpid()),
		broker:      b,
		generator:   generator,
		concurrency: concurrency,
	}
}

// Run blocks until ctx is cancelled or the broker fails.
func (w *StrategyWorker) Run(ctx context.Context) error {
	log.Printf("%s started with %d slots. Waiting for tasks...", w.workerID, w.concurrency)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		g.Go(func() error {
			return w.loop(ctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Printf("%s shutting down.", w.workerID)
	return err
}

func (w *StrategyWorker) loop(ctx context.Context) error {
	for {
		task, err := w.broker.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("dequeue: %w", err)
		}
		w.processTask(ctx, task)
	}
}

func (w *StrategyWorker) processTask(ctx context.Context, task *models.StrategyTask) {
	log.Printf("-> %s: %s", color.BlueString("Processing task"), task.TaskID)
	defer log.Printf("<- %s: %s", color.GreenString("Finished task"), task.TaskID)

	// A dequeued task runs to completion even if the worker is stopping.
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	text, err := w.generator.Generate(ctx, strategy.Request{Task: task.Task, Stack: task.Stack})
	result := &models.TaskResult{TaskID: task.TaskID}

	switch {
	case err != nil:
		kind, ok := strategy.KindOf(err)
		if !ok {
			kind = strategy.KindServiceUnavailable
		}
		log.Printf("%s for task %s: %v", color.YellowString("Generation failed"), task.TaskID, err)
		result.Kind = kind.String()
		result.Error = err.Error()
		metrics.ObserveGeneration(outcomeFor(kind), time.Since(start))
	case text == strategy.Fallback:
		result.Text = text
		metrics.ObserveGeneration(metrics.OutcomeFallback, time.Since(start))
	default:
		result.Text = text
		metrics.ObserveGeneration(metrics.OutcomeSuccess, time.Since(start))
	}

	if err := w.broker.Publish(ctx, result); err != nil {
		log.Printf("Failed to publish result for task %s: %v", task.TaskID, err)
	}
}

func outcomeFor(kind strategy.Kind) string {
	if kind == strategy.KindConfigurationMissing {
		return metrics.OutcomeConfigurationMissing
	}
	return metrics.OutcomeServiceUnavailable
}
