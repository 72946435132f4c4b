package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sokinpui/spark.go/internal/broker"
	"github.com/sokinpui/spark.go/internal/config"
	"github.com/sokinpui/spark.go/internal/strategy"
	"github.com/sokinpui/spark.go/internal/worker"
	"github.com/sokinpui/spark.go/model"
)

func main() {
	log.SetPrefix("worker: ")

	cfg := config.Load()
	if cfg.APIKey == "" {
		log.Printf("Warning: no API key configured; tasks will fail until SPARK_API_KEY is set")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	llmRegistry, err := model.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM registry: %v", err)
	}
	llm, err := llmRegistry.GetModel(cfg.Model)
	if err != nil {
		log.Fatalf("Failed to select model: %v", err)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New(broker.NewRedisBroker(redisClient, cfg.Queue), strategy.New(llm, nil), cfg.Workers)
	if err := w.Run(ctx); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}
