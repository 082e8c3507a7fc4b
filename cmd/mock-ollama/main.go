// Command mock-ollama runs a deterministic Ollama-compatible backend for
// development and integration testing. It answers /api/generate with
// scripted responses based on prompt content analysis, so a full
// query round trip can be exercised without a real model.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 11434)
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "11434"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", handleGenerate)
	mux.HandleFunc("GET /api/tags", handleTags)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock ollama starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock ollama failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock ollama shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Wire types ---

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsResponse struct {
	Models []modelInfo `json:"models"`
}

type modelInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// --- Handlers ---

func handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request"}`, http.StatusBadRequest)
		return
	}

	resp := generateResponse{
		Model:    req.Model,
		Response: scriptedResponse(req.Prompt),
		Done:     true,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// scriptedResponse picks a deterministic reply based on prompt content.
// Summarization prompts get a one-line summary. Query prompts get a probe
// fragment on the first round and a final answer once probe output is
// present in the prompt.
func scriptedResponse(prompt string) string {
	switch {
	case strings.HasPrefix(prompt, "Summarize this in 2-3 sentences:"):
		return "This section describes the document's main topic in brief."

	case strings.HasPrefix(prompt, "Combine these summaries into one:"):
		return "The document covers its main topic across several sections."

	case strings.HasPrefix(prompt, "Answer concisely:"):
		return "A concise sub-answer."

	case strings.Contains(prompt, "Output:"):
		// Second round: the probe output is in the prompt, finish the run.
		return "The context length is known.\n\n```repl\nFINAL(\"The corpus was inspected successfully.\")\n```"

	case strings.Contains(prompt, "Question:"):
		// First round: probe the corpus.
		return "Let me check the corpus size first.\n\n```repl\nprint(len(context))\n```"

	default:
		return "I can only answer scripted prompts."
	}
}

func handleTags(w http.ResponseWriter, r *http.Request) {
	resp := tagsResponse{Models: []modelInfo{
		{Name: "llama3.2:latest", Size: 2019393189},
		{Name: "qwen2.5-coder:7b", Size: 4683087332},
	}}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
