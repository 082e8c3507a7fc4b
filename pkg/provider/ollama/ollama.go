// Package ollama implements provider.Client for Ollama backends using the
// native /api/generate and /api/tags endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rekurs-dev/rekurs/pkg/api"
	"github.com/rekurs-dev/rekurs/pkg/debug"
	"github.com/rekurs-dev/rekurs/pkg/provider"
)

// Config holds the connection settings for an Ollama backend.
type Config struct {
	// BaseURL is the backend base URL (e.g., "http://localhost:11434").
	// Required.
	BaseURL string

	// Model is the default model used when a request does not override it.
	Model string

	// Timeout bounds each generation request. Defaults to 120s.
	Timeout time.Duration

	// APIKey is sent as a bearer token when set. Ollama itself does not
	// check it, but authenticating proxies in front of it do.
	APIKey string
}

// Client is a provider.Client backed by an Ollama HTTP endpoint.
type Client struct {
	cfg    Config
	client *http.Client
}

// Ensure Client implements provider.Client at compile time.
var _ provider.Client = (*Client)(nil)

// New creates a new Ollama client with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ollama: BaseURL is required")
	}

	// Normalize: remove trailing slash from base URL.
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Name returns the client identifier.
func (c *Client) Name() string {
	return "ollama"
}

// generateRequest is the wire format of POST /api/generate.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

// generateResponse is the wire format of the non-streaming generate reply.
type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate produces text for the given prompt. Exactly one HTTP request is
// made; there is no retry. An empty response text is returned as-is.
func (c *Client) Generate(ctx context.Context, prompt string, opts provider.GenerateOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.cfg.Model
	}

	body, err := json.Marshal(generateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: opts.Temperature},
	})
	if err != nil {
		return "", api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuth(httpReq)

	debug.Log("providers", "generate request", "model", model, "prompt_length", len(prompt))

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return "", mapHTTPError(httpResp)
	}

	var genResp generateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&genResp); err != nil {
		return "", api.NewProviderError(fmt.Sprintf("failed to parse backend response: %s", err.Error()))
	}

	// A 200 reply can still carry an error payload.
	if genResp.Error != "" {
		return "", api.NewProviderError(genResp.Error)
	}

	debug.Log("providers", "generate response", "model", model, "response_length", len(genResp.Response))
	return genResp.Response, nil
}

// tagsResponse is the wire format of GET /api/tags.
type tagsResponse struct {
	Models []provider.ModelInfo `json:"models"`
}

// Healthy reports whether the backend answers the tags endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	c.setAuth(httpReq)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return false
	}
	defer httpResp.Body.Close()

	return httpResp.StatusCode == http.StatusOK
}

// ModelAvailable reports whether the given model (or the configured default
// when model is empty) is present on the backend. Tag suffixes are ignored:
// "llama3.1" matches "llama3.1:8b".
func (c *Client) ModelAvailable(ctx context.Context, model string) (bool, error) {
	if model == "" {
		model = c.cfg.Model
	}

	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}

	base, _, _ := strings.Cut(model, ":")
	for _, m := range models {
		if strings.HasPrefix(m.Name, base) {
			return true, nil
		}
	}
	return false, nil
}

// ListModels returns the models available on the backend.
func (c *Client) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	c.setAuth(httpReq)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var tags tagsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&tags); err != nil {
		return nil, api.NewProviderError(fmt.Sprintf("failed to parse backend response: %s", err.Error()))
	}
	return tags.Models, nil
}

// setAuth adds the bearer token header when an API key is configured.
func (c *Client) setAuth(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}

// Close releases client resources.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
