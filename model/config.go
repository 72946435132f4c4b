package model

import (
	"errors"

	"google.golang.org/genai"
)

// Config defines the generation configuration for a model.
// All fields are optional; a nil *Config leaves every knob to the service.
type Config struct {
	Temperature  *float32 `json:"temperature,omitempty"`
	TopP         *float32 `json:"top_p,omitempty"`
	TopK         *float32 `json:"top_k,omitempty"`
	OutputLength int32    `json:"output_length,omitempty"`
}

func (c *Config) genaiConfig() *genai.GenerateContentConfig {
	if c == nil {
		return nil
	}
	return &genai.GenerateContentConfig{
		Temperature:     c.Temperature,
		TopP:            c.TopP,
		TopK:            c.TopK,
		MaxOutputTokens: c.OutputLength,
	}
}

var (
	ErrModelNotFound = errors.New("model not found in registry")
	ErrGeneration    = errors.New("error during text generation")
	ErrConfiguration = errors.New("failed to initialize client, please check configuration")
)
