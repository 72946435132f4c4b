package model

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/sokinpui/spark.go/internal/config"
)

// LLM sends one prompt to a hosted model and returns the completion text.
// An empty string with a nil error means the service answered without text.
type LLM interface {
	Generate(ctx context.Context, prompt string, config *Config) (string, error)
}

type ModelProvider func(cfg *config.Settings) (map[string]LLM, error)

var providers []ModelProvider

func RegisterProvider(provider ModelProvider) {
	providers = append(providers, provider)
}

type Registry struct {
	models map[string]LLM
}

// New builds a registry from every registered provider.
func New(cfg *config.Settings) (*Registry, error) {
	allModels := make(map[string]LLM)
	for _, provider := range providers {
		providerModels, err := provider(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize a model provider: %w", err)
		}
		for name, model := range providerModels {
			if _, exists := allModels[name]; exists {
				log.Printf("Warning: Model '%s' is being overwritten by a new provider.", name)
			}
			allModels[name] = model
		}
	}

	return &Registry{models: allModels}, nil
}

func (r *Registry) GetModel(modelCode string) (LLM, error) {
	model, ok := r.models[modelCode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelCode)
	}
	return model, nil
}

func (r *Registry) ListModels() []string {
	keys := make([]string, 0, len(r.models))
	for k := range r.models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
