package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rekurs-dev/rekurs/pkg/api"
	"github.com/rekurs-dev/rekurs/pkg/provider"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing BaseURL")
	}
}

func TestNew_NormalizesBaseURL(t *testing.T) {
	c, err := New(Config{BaseURL: "http://localhost:11434/"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.cfg.BaseURL != "http://localhost:11434" {
		t.Errorf("expected trailing slash removed, got %q", c.cfg.BaseURL)
	}
	if c.cfg.Timeout != 120*time.Second {
		t.Errorf("expected default timeout 120s, got %v", c.cfg.Timeout)
	}
}

func TestGenerate_Success(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"response": "the answer"})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Model: "llama3.1:8b"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	temp := 0.2
	got, err := c.Generate(context.Background(), "hello", provider.GenerateOptions{Temperature: &temp})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "the answer" {
		t.Errorf("expected %q, got %q", "the answer", got)
	}
	if gotReq.Model != "llama3.1:8b" {
		t.Errorf("expected default model in request, got %q", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("expected stream=false")
	}
	if gotReq.Options.Temperature == nil || *gotReq.Options.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", gotReq.Options.Temperature)
	}
}

func TestGenerate_EmptyResponseIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"response": ""})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	got, err := c.Generate(context.Background(), "hello", provider.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestGenerate_ErrorPayloadIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "model not loaded"})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), "hello", provider.GenerateOptions{})
	if !api.IsProvider(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestGenerate_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": "model \"missing\" not found"})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), "hello", provider.GenerateOptions{})
	if !api.IsProvider(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
	apiErr := err.(*api.APIError)
	if apiErr.Message != `model "missing" not found` {
		t.Errorf("expected backend error message, got %q", apiErr.Message)
	}
}

func TestGenerate_UnreachableBackendIsTransportError(t *testing.T) {
	// Point at a closed port.
	c, _ := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := c.Generate(context.Background(), "hello", provider.GenerateOptions{})
	if !api.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	if !c.Healthy(context.Background()) {
		t.Error("expected healthy backend")
	}

	c2, _ := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	if c2.Healthy(context.Background()) {
		t.Error("expected unreachable backend to be unhealthy")
	}
}

func TestModelAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "llama3.1:8b"},
				{"name": "mistral:7b"},
			},
		})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Model: "llama3.1:8b"})

	tests := []struct {
		model string
		want  bool
	}{
		{model: "", want: true},            // configured default
		{model: "llama3.1", want: true},    // tag suffix ignored
		{model: "llama3.1:70b", want: true}, // base name matches
		{model: "phi3", want: false},
	}

	for _, tt := range tests {
		got, err := c.ModelAvailable(context.Background(), tt.model)
		if err != nil {
			t.Fatalf("ModelAvailable(%q) failed: %v", tt.model, err)
		}
		if got != tt.want {
			t.Errorf("ModelAvailable(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "llama3.1:8b", "size": 4661224676},
			},
		})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) != 1 || models[0].Name != "llama3.1:8b" {
		t.Errorf("unexpected models: %+v", models)
	}
}
