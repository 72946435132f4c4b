package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sokinpui/spark.go/internal/broker"
	"github.com/sokinpui/spark.go/internal/config"
	"github.com/sokinpui/spark.go/internal/server"
	"github.com/sokinpui/spark.go/internal/strategy"
	"github.com/sokinpui/spark.go/internal/worker"
	"github.com/sokinpui/spark.go/model"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetPrefix("server: ")

	cfg := config.Load()

	llmRegistry, err := model.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize LLM registry: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var b broker.Broker
	switch cfg.Broker {
	case config.BrokerRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to reach redis at %s: %v", cfg.RedisAddr(), err)
		}
		b = broker.NewRedisBroker(redisClient, cfg.Queue)
		log.Printf("Dispatching to redis queue %q; run cmd/worker to process tasks", cfg.Queue)
	default:
		if cfg.APIKey == "" {
			log.Printf("Warning: no API key configured; blueprint requests will fail until SPARK_API_KEY is set")
		}
		llm, err := llmRegistry.GetModel(cfg.Model)
		if err != nil {
			log.Fatalf("failed to select model: %v", err)
		}
		memBroker := broker.NewMemoryBroker(1000)
		w := worker.New(memBroker, strategy.New(llm, nil), cfg.Workers)
		g.Go(func() error { return w.Run(ctx) })
		b = memBroker
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.NewHTTPServer(b, llmRegistry).Handler(),
	}

	g.Go(func() error {
		log.Printf("Server listening at %v", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
