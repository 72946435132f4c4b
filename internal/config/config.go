package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BrokerMemory = "memory"
	BrokerRedis  = "redis"
)

// Settings holds the application configuration.
// Each key is looked up as SPARK_<NAME> first, then as the bare tag name.
type Settings struct {
	APIKey string `envconfig:"API_KEY" default:""`
	Model  string `envconfig:"MODEL" default:"gemini-3-pro-preview"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	Broker   string `envconfig:"BROKER" default:"memory"`
	Workers  int    `envconfig:"WORKERS" default:"4"`
	Queue    string `envconfig:"QUEUE" default:"strategy_queue"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
}

// RedisAddr returns the host:port of the Redis server.
func (s *Settings) RedisAddr() string {
	return fmt.Sprintf("%s:%d", s.RedisHost, s.RedisPort)
}

// Process loads an optional .env file and reads configuration from
// environment variables. A missing API key is not an error here.
func Process(envFiles ...string) (*Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var s Settings
	if err := envconfig.Process("spark", &s); err != nil {
		return nil, err
	}

	switch s.Broker {
	case BrokerMemory, BrokerRedis:
	default:
		return nil, fmt.Errorf("unknown broker %q (want %q or %q)", s.Broker, BrokerMemory, BrokerRedis)
	}
	if s.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	return &s, nil
}

// Load reads configuration and exits the process on failure.
func Load() *Settings {
	s, err := Process()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return s
}
