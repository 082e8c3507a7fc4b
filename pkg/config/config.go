// Package config provides unified configuration for the rekurs service.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (REKURS_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the rekurs service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Provider      ProviderConfig      `yaml:"provider"`
	Engine        EngineConfig        `yaml:"engine"`
	Summarizer    SummarizerConfig    `yaml:"summarizer"`
	Documents     DocumentsConfig     `yaml:"documents"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 300s
}

// ProviderConfig holds LLM backend settings.
type ProviderConfig struct {
	Type        string        `yaml:"type"`         // "ollama", default: "ollama"
	BaseURL     string        `yaml:"base_url"`     // required
	Model       string        `yaml:"model"`        // default: "llama3.2"
	Timeout     time.Duration `yaml:"timeout"`      // default: 120s
	Temperature *float64      `yaml:"temperature"`  // optional sampling override
	APIKey      string        `yaml:"api_key"`      // optional
	APIKeyFile  string        `yaml:"api_key_file"` // _file variant for api_key
}

// EngineConfig holds query loop settings.
type EngineConfig struct {
	MaxIterations   int `yaml:"max_iterations"`    // default: 10
	MaxDepth        int `yaml:"max_depth"`         // default: 3
	MaxOutputLength int `yaml:"max_output_length"` // default: 10000
}

// SummarizerConfig holds recursive summarizer settings.
type SummarizerConfig struct {
	ChunkSize int `yaml:"chunk_size"` // default: 2000
}

// DocumentsConfig holds document processing and storage settings.
type DocumentsConfig struct {
	ChunkSize         int            `yaml:"chunk_size"`           // default: 1000
	ChunkOverlap      int            `yaml:"chunk_overlap"`        // default: 200
	MaxChunksPerQuery int            `yaml:"max_chunks_per_query"` // default: 5
	Store             string         `yaml:"store"`                // "memory" or "postgres", default: "memory"
	Postgres          PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"` // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type    string         `yaml:"type"`     // "none", "apikey", or "jwt", default: "none"
	APIKeys []APIKeyConfig `yaml:"api_keys"` // API key entries for type=apikey
	JWT     JWTConfig      `yaml:"jwt"`      // settings for type=jwt
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key     string `yaml:"key" json:"key"`
	KeyFile string `yaml:"key_file" json:"key_file"` // _file variant for key
	Subject string `yaml:"subject" json:"subject"`
}

// JWTConfig holds JWT verification settings.
type JWTConfig struct {
	Secret     string `yaml:"secret"`
	SecretFile string `yaml:"secret_file"` // _file variant for secret
	Issuer     string `yaml:"issuer"`      // optional expected issuer
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LoggingConfig holds log level and debug category settings. Both can be
// overridden at runtime with REKURS_LOG_LEVEL and REKURS_DEBUG.
type LoggingConfig struct {
	Level string `yaml:"level"` // ERROR, WARN, INFO, DEBUG, TRACE; default: "INFO"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 300 * time.Second,
		},
		Provider: ProviderConfig{
			Type:    "ollama",
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2",
			Timeout: 120 * time.Second,
		},
		Engine: EngineConfig{
			MaxIterations:   10,
			MaxDepth:        3,
			MaxOutputLength: 10000,
		},
		Summarizer: SummarizerConfig{
			ChunkSize: 2000,
		},
		Documents: DocumentsConfig{
			ChunkSize:         1000,
			ChunkOverlap:      200,
			MaxChunksPerQuery: 5,
			Store:             "memory",
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Auth: AuthConfig{
			Type: "none",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
			Logging: LoggingConfig{
				Level: "INFO",
			},
		},
	}
}
