// Package client is a Go client for the blueprint HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Strategy is a generated workflow blueprint.
type Strategy struct {
	TaskID string `json:"task_id"`
	Text   string `json:"text"`
	HTML   string `json:"html"`
}

// APIError is returned for any non-2xx answer from the server.
// Kind is one of configuration_missing, service_unavailable, in_flight or bad_request.
type APIError struct {
	Status  int    `json:"-"`
	Kind    string `json:"kind"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("blueprint API %d (%s): %s", e.Status, e.Kind, e.Message)
}

// Client talks to one blueprint server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	clientID   string
}

type Option func(*Client)

// WithHTTPClient overrides http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithClientID sets the caller key used by the server's single-flight guard.
func WithClientID(id string) Option {
	return func(cl *Client) { cl.clientID = id }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateStrategy requests a blueprint for task using stack.
func (c *Client) GenerateStrategy(ctx context.Context, task, stack string) (*Strategy, error) {
	body, err := json.Marshal(map[string]string{"task": task, "stack": stack})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/strategy", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}

	var s Strategy
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode blueprint: %w", err)
	}
	return &s, nil
}
