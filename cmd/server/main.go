// Command server runs the rekurs query gateway.
//
// Configuration is loaded from a YAML file (see -config) and can be
// overridden with REKURS_* environment variables:
//
//	REKURS_BACKEND_URL    - Ollama backend URL
//	REKURS_MODEL          - Model name (default: llama3.2)
//	REKURS_PORT           - Listen port (default: 8080)
//	REKURS_STORE          - Document store: "memory" or "postgres"
//	REKURS_POSTGRES_DSN   - PostgreSQL connection string
//	REKURS_AUTH_TYPE      - "none", "apikey", or "jwt"
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rekurs-dev/rekurs/pkg/auth"
	"github.com/rekurs-dev/rekurs/pkg/auth/apikey"
	"github.com/rekurs-dev/rekurs/pkg/auth/jwt"
	"github.com/rekurs-dev/rekurs/pkg/auth/noop"
	"github.com/rekurs-dev/rekurs/pkg/config"
	"github.com/rekurs-dev/rekurs/pkg/debug"
	"github.com/rekurs-dev/rekurs/pkg/documents"
	"github.com/rekurs-dev/rekurs/pkg/documents/memory"
	"github.com/rekurs-dev/rekurs/pkg/documents/postgres"
	"github.com/rekurs-dev/rekurs/pkg/engine"
	"github.com/rekurs-dev/rekurs/pkg/provider/ollama"
	"github.com/rekurs-dev/rekurs/pkg/service"
	"github.com/rekurs-dev/rekurs/pkg/summarizer"
	transporthttp "github.com/rekurs-dev/rekurs/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	debug.Init(cfg.Observability.Logging.Debug, cfg.Observability.Logging.Level)

	// Create provider client.
	client, err := ollama.New(ollama.Config{
		BaseURL: cfg.Provider.BaseURL,
		Model:   cfg.Provider.Model,
		Timeout: cfg.Provider.Timeout,
		APIKey:  cfg.Provider.APIKey,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer client.Close()

	// Create document store.
	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("creating document store: %w", err)
	}
	defer store.Close()

	// Create engine and summarizer.
	eng, err := engine.New(client, engine.Config{
		Model:           cfg.Provider.Model,
		MaxIterations:   cfg.Engine.MaxIterations,
		MaxDepth:        cfg.Engine.MaxDepth,
		MaxOutputLength: cfg.Engine.MaxOutputLength,
		Temperature:     cfg.Provider.Temperature,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	summ, err := summarizer.New(client, summarizer.Config{
		ChunkSize:   cfg.Summarizer.ChunkSize,
		Model:       cfg.Provider.Model,
		Temperature: cfg.Provider.Temperature,
	})
	if err != nil {
		return fmt.Errorf("creating summarizer: %w", err)
	}

	// Assemble the service.
	processor := &documents.Processor{
		ChunkSize:    cfg.Documents.ChunkSize,
		ChunkOverlap: cfg.Documents.ChunkOverlap,
	}
	svc, err := service.New(eng, summ, store, processor, client, service.Config{
		Model:     cfg.Provider.Model,
		MaxChunks: cfg.Documents.MaxChunksPerQuery,
	})
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}

	// Assemble the HTTP server.
	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
	}
	if !cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithMetricsPath(""))
	} else if cfg.Observability.Metrics.Path != "" {
		opts = append(opts, transporthttp.WithMetricsPath(cfg.Observability.Metrics.Path))
	}

	chain, err := newAuthChain(cfg)
	if err != nil {
		return fmt.Errorf("configuring authentication: %w", err)
	}
	if chain != nil {
		opts = append(opts, transporthttp.WithAuthChain(chain))
	}

	srv := transporthttp.NewServer(svc, svc, svc, opts...)

	slog.Info("starting rekurs gateway",
		"port", cfg.Server.Port,
		"backend", cfg.Provider.BaseURL,
		"model", cfg.Provider.Model,
		"store", cfg.Documents.Store,
		"auth", cfg.Auth.Type,
	)
	return srv.ListenAndServe()
}

// newStore builds the configured document store.
func newStore(cfg *config.Config) (documents.Store, error) {
	switch cfg.Documents.Store {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Documents.Postgres.DSN,
			MaxConns:       cfg.Documents.Postgres.MaxConns,
			MigrateOnStart: cfg.Documents.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(), nil
	}
}

// newAuthChain builds the authenticator chain from the auth configuration.
// With auth disabled, a noop voter accepts every request so handlers still
// see an anonymous identity.
func newAuthChain(cfg *config.Config) (*auth.Chain, error) {
	switch cfg.Auth.Type {
	case "", "none":
		return &auth.Chain{
			Authenticators:  []auth.Authenticator{&noop.Authenticator{}},
			DefaultDecision: auth.Yes,
		}, nil

	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.Auth.APIKeys))
		for _, k := range cfg.Auth.APIKeys {
			entries = append(entries, apikey.RawKeyEntry{
				Key:      k.Key,
				Identity: auth.Identity{Subject: k.Subject},
			})
		}
		return &auth.Chain{
			Authenticators:  []auth.Authenticator{apikey.New(entries)},
			DefaultDecision: auth.No,
		}, nil

	case "jwt":
		authenticator := jwt.New(jwt.Config{
			Secret: cfg.Auth.JWT.Secret,
			Issuer: cfg.Auth.JWT.Issuer,
		})
		return &auth.Chain{
			Authenticators:  []auth.Authenticator{authenticator},
			DefaultDecision: auth.No,
		}, nil

	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Auth.Type)
	}
}
