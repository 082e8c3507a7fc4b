// Command mcp-server exposes the rekurs query engine as MCP tools over
// streamable HTTP. It provides "ask", "upload_document",
// "summarize_document", and "list_documents" tools so MCP clients can
// build and query the document corpus.
//
// Configuration is loaded the same way as cmd/server (-config flag plus
// REKURS_* environment variables). The MCP endpoint is served on /mcp.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rekurs-dev/rekurs/pkg/api"
	"github.com/rekurs-dev/rekurs/pkg/config"
	"github.com/rekurs-dev/rekurs/pkg/debug"
	"github.com/rekurs-dev/rekurs/pkg/documents"
	"github.com/rekurs-dev/rekurs/pkg/documents/memory"
	"github.com/rekurs-dev/rekurs/pkg/engine"
	"github.com/rekurs-dev/rekurs/pkg/provider/ollama"
	"github.com/rekurs-dev/rekurs/pkg/service"
	"github.com/rekurs-dev/rekurs/pkg/summarizer"
)

func main() {
	if err := run(); err != nil {
		slog.Error("mcp server failed", "error", err)
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

	processor := &documents.Processor{
		ChunkSize:    cfg.Documents.ChunkSize,
		ChunkOverlap: cfg.Documents.ChunkOverlap,
	}
	svc, err := service.New(eng, summ, memory.New(), processor, client, service.Config{
		Model:     cfg.Provider.Model,
		MaxChunks: cfg.Documents.MaxChunksPerQuery,
	})
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "rekurs-mcp", Version: "v0.1.0"},
		nil,
	)
	registerTools(server, svc)

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("mcp server starting", "addr", addr, "backend", cfg.Provider.BaseURL)
	return http.ListenAndServe(addr, mux)
}

// AskInput is the input schema for the "ask" tool.
type AskInput struct {
	Query      string `json:"query" jsonschema_description:"The question to answer against the document corpus"`
	DocumentID string `json:"document_id,omitempty" jsonschema_description:"Restrict the query to one document"`
}

// UploadInput is the input schema for the "upload_document" tool.
type UploadInput struct {
	Filename string `json:"filename" jsonschema_description:"Name of the document"`
	Text     string `json:"text" jsonschema_description:"Full document text"`
}

// SummarizeInput is the input schema for the "summarize_document" tool.
type SummarizeInput struct {
	DocumentID string `json:"document_id" jsonschema_description:"ID of the document to summarize"`
}

func registerTools(server *mcp.Server, svc *service.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Answers a question about the uploaded documents",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, struct{}, error) {
		res, err := svc.RunQuery(ctx, &api.QueryRequest{Query: input.Query, DocumentID: input.DocumentID})
		if err != nil {
			return nil, struct{}{}, err
		}
		text := res.FinalAnswer
		if !res.Success && res.Error != "" {
			text = fmt.Sprintf("%s (run failed: %s)", res.FinalAnswer, res.Error)
		}
		return textResult(fmt.Sprintf("%s\n\n(%d model calls, %d steps)", text, res.TotalLLMCalls, len(res.Steps))), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "upload_document",
		Description: "Uploads a document into the corpus",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input UploadInput) (*mcp.CallToolResult, struct{}, error) {
		info, err := svc.UploadDocument(ctx, &api.UploadRequest{Filename: input.Filename, Text: input.Text})
		if err != nil {
			return nil, struct{}{}, err
		}
		return textResult(fmt.Sprintf("Stored %s as %s (%d chunks)", info.Filename, info.ID, info.ChunkCount)), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_document",
		Description: "Produces a hierarchical summary of one document",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SummarizeInput) (*mcp.CallToolResult, struct{}, error) {
		summary, err := svc.SummarizeDocument(ctx, input.DocumentID)
		if err != nil {
			return nil, struct{}{}, err
		}
		return textResult(summary.Summary), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "Lists the documents in the corpus",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, struct{}, error) {
		infos, err := svc.ListDocuments(ctx)
		if err != nil {
			return nil, struct{}{}, err
		}
		if len(infos) == 0 {
			return textResult("No documents stored."), struct{}{}, nil
		}
		var b strings.Builder
		for _, info := range infos {
			fmt.Fprintf(&b, "%s  %s (%d chunks)\n", info.ID, info.Filename, info.ChunkCount)
		}
		return textResult(b.String()), struct{}{}, nil
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
