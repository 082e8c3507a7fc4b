package provider

import "context"

// Client abstracts a text-generation backend. Exactly one network attempt
// is made per call: the client performs no caching and no retries, so a
// failed call surfaces immediately to the caller.
//
// Implementations must be safe for concurrent use by multiple goroutines
// and must hold no per-call mutable state.
type Client interface {
	// Name returns the client identifier (e.g., "ollama").
	Name() string

	// Generate produces text for the given prompt. An empty response
	// body is a valid result and is returned as-is. Failures are
	// classified: a connection or timeout failure yields an APIError of
	// type transport_error; a well-formed response carrying a
	// backend-reported error field yields provider_error.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Healthy reports whether the backend is reachable.
	Healthy(ctx context.Context) bool

	// ModelAvailable reports whether the given model (or the configured
	// default when model is empty) is available on the backend.
	ModelAvailable(ctx context.Context, model string) (bool, error)

	// ListModels returns the models the backend can serve.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Close releases client resources (HTTP connections).
	Close() error
}

// GenerateOptions carries per-call generation parameters.
type GenerateOptions struct {
	// Model overrides the client's configured default model.
	Model string

	// Temperature overrides the sampling temperature. Nil means the
	// backend default.
	Temperature *float64
}

// ModelInfo holds information about a model served by the backend.
type ModelInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}
