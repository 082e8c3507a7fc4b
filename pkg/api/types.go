package api

import "encoding/json"

// StepKind classifies one entry in a run's execution trace.
type StepKind string

const (
	// StepKindCode is a code fragment the model wrote.
	StepKindCode StepKind = "code"

	// StepKindOutput is the captured output of executing a fragment.
	StepKindOutput StepKind = "output"

	// StepKindLLMCall is a recursive llm_query sub-call issued from
	// inside a fragment.
	StepKindLLMCall StepKind = "llm_call"

	// StepKindFinal is the final answer that terminated the run.
	StepKindFinal StepKind = "final"
)

// Step is one entry in a run's execution trace. Steps are append-only and
// ordered by time of occurrence. Depth is 0 for the top-level loop and
// increases by exactly one per nested sub-query.
type Step struct {
	Kind    StepKind `json:"step_type"`
	Content string   `json:"content"`
	Depth   int      `json:"depth"`
}

// Result is the complete outcome of one engine run. It is created once per
// run and immutable after return. A run produces at most one final Step,
// which, when present, is always the last Step. TotalLLMCalls counts every
// model client invocation: the engine's own generation calls and every
// recursive sub-query.
type Result struct {
	Query         string `json:"query"`
	ContextLength int    `json:"context_length"`
	FinalAnswer   string `json:"final_answer"`
	Steps         []Step `json:"steps"`
	TotalLLMCalls int    `json:"total_llm_calls"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// MarshalJSON ensures the steps field is always an array, never null.
func (r Result) MarshalJSON() ([]byte, error) {
	type wire Result
	w := wire(r)
	if w.Steps == nil {
		w.Steps = []Step{}
	}
	return json.Marshal(w)
}

// SummaryResult is the outcome of one recursive summarization. Levels
// counts the per-chunk pass plus every merge pass; an empty document
// yields zero levels.
type SummaryResult struct {
	Summary    string `json:"summary"`
	ChunkCount int    `json:"chunk_count"`
	Levels     int    `json:"levels"`
}

// QueryRequest is the wire request for running a query against the
// document corpus.
type QueryRequest struct {
	// Query is the user's question. Required.
	Query string `json:"query"`

	// DocumentID restricts the corpus to a single document. Empty means
	// all documents.
	DocumentID string `json:"document_id,omitempty"`

	// UseRetrieval selects between retrieved chunks (true, the default)
	// and full document text as the corpus.
	UseRetrieval *bool `json:"use_retrieval,omitempty"`

	// MaxChunks caps the number of retrieved chunks when UseRetrieval
	// is set. Zero means the server default.
	MaxChunks int `json:"max_chunks,omitempty"`
}

// Retrieval reports whether the request asks for retrieved chunks.
// Defaults to true when the field is omitted.
func (r *QueryRequest) Retrieval() bool {
	if r.UseRetrieval == nil {
		return true
	}
	return *r.UseRetrieval
}

// UploadRequest is the wire request for adding a document.
type UploadRequest struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// DocumentInfo describes one stored document.
type DocumentInfo struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	CreatedAt  int64  `json:"created_at"`
}

// DocumentSummary is the wire response for a document summary.
type DocumentSummary struct {
	DocumentID string `json:"document_id"`
	Summary    string `json:"summary"`
	ChunkCount int    `json:"chunk_count"`
	Levels     int    `json:"levels"`
}

// HealthStatus is the wire response for the health endpoint.
type HealthStatus struct {
	Status           string `json:"status"`
	BackendConnected bool   `json:"backend_connected"`
	ModelAvailable   bool   `json:"model_available"`
	Documents        int    `json:"documents"`
}

// Validate checks a QueryRequest for required fields.
func (r *QueryRequest) Validate() error {
	if r.Query == "" {
		return NewInvalidRequestError("query", "query is required")
	}
	if r.MaxChunks < 0 {
		return NewInvalidRequestError("max_chunks", "max_chunks must not be negative")
	}
	return nil
}

// Validate checks an UploadRequest for required fields.
func (r *UploadRequest) Validate() error {
	if r.Filename == "" {
		return NewInvalidRequestError("filename", "filename is required")
	}
	if r.Text == "" {
		return NewInvalidRequestError("text", "text is required")
	}
	return nil
}
