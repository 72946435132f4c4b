package model

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sokinpui/spark.go/internal/config"
	"google.golang.org/genai"
)

// DefaultGeminiModel is the model the blueprint generator targets.
const DefaultGeminiModel = "gemini-3-pro-preview"

func init() {
	RegisterProvider(newGeminiProvider)
}

func newGeminiProvider(cfg *config.Settings) (map[string]LLM, error) {
	modelCodes := []string{
		DefaultGeminiModel,
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-2.5-flash-lite",
	}
	if cfg.Model != "" {
		modelCodes = append(modelCodes, cfg.Model)
	}

	models := make(map[string]LLM, len(modelCodes))
	for _, code := range modelCodes {
		models[code] = NewGeminiModel(code, cfg.APIKey)
	}
	return models, nil
}

type GeminiOption func(*GeminiModel)

// WithHTTPClient sets the HTTP client used by the genai SDK.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(m *GeminiModel) { m.httpClient = c }
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) GeminiOption {
	return func(m *GeminiModel) { m.baseURL = url }
}

type GeminiModel struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiModel never fails: a missing key is reported by Generate so that
// the service can start and answer with a configuration error.
func NewGeminiModel(modelCode string, apiKey string, opts ...GeminiOption) *GeminiModel {
	m := &GeminiModel{
		model:  modelCode,
		apiKey: apiKey,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *GeminiModel) Code() string {
	return m.model
}

// Generate performs one non-streaming generation call.
func (m *GeminiModel) Generate(ctx context.Context, prompt string, config *Config) (string, error) {
	if m.apiKey == "" {
		return "", fmt.Errorf("%w: API key is required for generation", ErrConfiguration)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     m.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: m.httpClient,
	}
	if m.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: m.baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create genai client: %v", ErrGeneration, err)
	}

	resp, err := client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), config.genaiConfig())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	return resp.Text(), nil
}
