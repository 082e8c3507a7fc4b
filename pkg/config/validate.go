package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Provider.BaseURL == "" {
		errs = append(errs, fmt.Errorf("provider.base_url is required"))
	}

	switch c.Provider.Type {
	case "ollama", "":
		// valid
	default:
		errs = append(errs, fmt.Errorf("provider.type must be \"ollama\", got %q", c.Provider.Type))
	}

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	if c.Engine.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("engine.max_iterations must not be negative, got %d", c.Engine.MaxIterations))
	}
	if c.Engine.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("engine.max_depth must not be negative, got %d", c.Engine.MaxDepth))
	}

	if c.Documents.ChunkOverlap >= c.Documents.ChunkSize && c.Documents.ChunkSize > 0 {
		errs = append(errs, fmt.Errorf("documents.chunk_overlap (%d) must be smaller than documents.chunk_size (%d)",
			c.Documents.ChunkOverlap, c.Documents.ChunkSize))
	}

	switch c.Documents.Store {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("documents.store must be \"memory\" or \"postgres\", got %q", c.Documents.Store))
	}

	if c.Documents.Store == "postgres" {
		if c.Documents.Postgres.DSN == "" && c.Documents.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("documents.postgres.dsn or documents.postgres.dsn_file is required when documents.store is \"postgres\""))
		}
	}

	switch c.Auth.Type {
	case "none", "apikey", "jwt":
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\", \"apikey\", or \"jwt\", got %q", c.Auth.Type))
	}

	if c.Auth.Type == "apikey" && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, fmt.Errorf("auth.api_keys must not be empty when auth.type is \"apikey\""))
	}

	if c.Auth.Type == "jwt" && c.Auth.JWT.Secret == "" && c.Auth.JWT.SecretFile == "" {
		errs = append(errs, fmt.Errorf("auth.jwt.secret or auth.jwt.secret_file is required when auth.type is \"jwt\""))
	}

	return errors.Join(errs...)
}
