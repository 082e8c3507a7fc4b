package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rekurs-dev/rekurs/pkg/api"
	"github.com/rekurs-dev/rekurs/pkg/documents"
	"github.com/rekurs-dev/rekurs/pkg/transport"
)

// Adapter serves the rekurs API over HTTP. It routes requests to the
// appropriate handler and serializes results.
type Adapter struct {
	queries transport.QueryHandler
	docs    transport.DocumentService
	health  transport.HealthChecker
	mux     *http.ServeMux
	config  Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	Addr        string
	MaxBodySize int64

	// MetricsPath is where the Prometheus exposition endpoint is served.
	// Empty disables the endpoint.
	MetricsPath string
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		MaxBodySize: 10 << 20, // 10 MB
		MetricsPath: "/metrics",
	}
}

// NewAdapter creates an HTTP adapter over the given handlers.
// Middleware is applied to the QueryHandler in the given order.
func NewAdapter(queries transport.QueryHandler, docs transport.DocumentService, health transport.HealthChecker, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		queries = transport.Chain(middlewares...)(queries)
	}

	a := &Adapter{
		queries: queries,
		docs:    docs,
		health:  health,
		mux:     http.NewServeMux(),
		config:  cfg,
	}

	a.mux.HandleFunc("POST /v1/queries", a.handleQuery)
	a.mux.HandleFunc("POST /v1/documents", a.handleUpload)
	a.mux.HandleFunc("GET /v1/documents", a.handleListDocuments)
	a.mux.HandleFunc("GET /v1/documents/{id}", a.handleGetDocument)
	a.mux.HandleFunc("DELETE /v1/documents/{id}", a.handleDeleteDocument)
	a.mux.HandleFunc("GET /v1/documents/{id}/summary", a.handleSummary)
	a.mux.HandleFunc("GET /healthz", a.handleHealth)
	if cfg.MetricsPath != "" {
		a.mux.Handle("GET "+cfg.MetricsPath, promhttp.Handler())
	}

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest. The returned handler includes
// HTTP-level middleware for request ID propagation.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(a.mux)
}

// httpRequestIDMiddleware is HTTP-level middleware that propagates the
// X-Request-ID header. If present in the request, it is forwarded to
// the response. After the handler runs, it checks the context for a
// request ID (set by the transport-level RequestID middleware) and adds
// it to the response headers if not already set.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			ctx := transport.ContextWithRequestID(r.Context(), id)
			r = r.WithContext(ctx)
		}
		rw := &requestIDResponseWriter{ResponseWriter: w, r: r}
		next.ServeHTTP(rw, r)
	})
}

// requestIDResponseWriter wraps http.ResponseWriter to inject the
// X-Request-ID header before the first write.
type requestIDResponseWriter struct {
	http.ResponseWriter
	r           *http.Request
	headersSent bool
}

func (w *requestIDResponseWriter) WriteHeader(statusCode int) {
	w.ensureRequestIDHeader()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *requestIDResponseWriter) Write(b []byte) (int, error) {
	w.ensureRequestIDHeader()
	return w.ResponseWriter.Write(b)
}

func (w *requestIDResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter for http.NewResponseController.
func (w *requestIDResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *requestIDResponseWriter) ensureRequestIDHeader() {
	if w.headersSent {
		return
	}
	w.headersSent = true
	if id := transport.RequestIDFromContext(w.r.Context()); id != "" {
		w.ResponseWriter.Header().Set("X-Request-ID", id)
	}
}

// handleQuery handles POST /v1/queries.
func (a *Adapter) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req api.QueryRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	res, err := a.queries.RunQuery(r.Context(), &req)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleUpload handles POST /v1/documents.
func (a *Adapter) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req api.UploadRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	info, err := a.docs.UploadDocument(r.Context(), &req)
	if err != nil {
		if errors.Is(err, documents.ErrConflict) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("text", "document with identical content already exists"),
				http.StatusConflict,
			)
			return
		}
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, info)
}

// handleListDocuments handles GET /v1/documents.
func (a *Adapter) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	infos, err := a.docs.ListDocuments(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transport.DocumentList{Documents: infos, Count: len(infos)})
}

// handleGetDocument handles GET /v1/documents/{id}.
func (a *Adapter) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	info, err := a.docs.GetDocument(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// handleDeleteDocument handles DELETE /v1/documents/{id}.
func (a *Adapter) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	removed, err := a.docs.DeleteDocument(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transport.DeleteResult{DocumentID: id, ChunksRemoved: removed})
}

// handleSummary handles GET /v1/documents/{id}/summary.
func (a *Adapter) handleSummary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	summary, err := a.docs.SummarizeDocument(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleHealth handles GET /healthz.
func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := a.health.Health(r.Context())

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// decodeBody validates the content type, limits the body size, and decodes
// the JSON request body into dst. On failure it writes an error response
// and returns false.
func (a *Adapter) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return false
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return false
	}

	return true
}

// writeError maps a handler error to an HTTP error response. Store
// sentinels are translated to the API error taxonomy first.
func (a *Adapter) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, documents.ErrNotFound) {
		transport.WriteAPIError(w, api.NewNotFoundError("document not found"))
		return
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		transport.WriteAPIError(w, apiErr)
		return
	}

	transport.WriteAPIError(w, api.NewServerError(err.Error()))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
