package transport

import (
	"context"

	"github.com/rekurs-dev/rekurs/pkg/api"
)

// QueryHandler runs a query against the document corpus. It is the primary
// handler contract: the implementation assembles the corpus, drives the
// engine, and returns the complete run result including the execution trace.
//
// A run that fails inside the engine (budget exhausted, backend error) is
// still a successful handler call: the failure is reported in the Result.
// The error return is reserved for request-level failures such as
// validation errors or a missing document.
type QueryHandler interface {
	RunQuery(ctx context.Context, req *api.QueryRequest) (*api.Result, error)
}

// QueryHandlerFunc is an adapter that allows using an ordinary function
// as a QueryHandler.
type QueryHandlerFunc func(ctx context.Context, req *api.QueryRequest) (*api.Result, error)

// RunQuery calls f(ctx, req).
func (f QueryHandlerFunc) RunQuery(ctx context.Context, req *api.QueryRequest) (*api.Result, error) {
	return f(ctx, req)
}

// DocumentService handles persistence, retrieval, deletion, and
// summarization of stored documents.
type DocumentService interface {
	// UploadDocument chunks and stores a document. Returns
	// documents.ErrConflict (wrapped) when the same content was already
	// uploaded.
	UploadDocument(ctx context.Context, req *api.UploadRequest) (*api.DocumentInfo, error)

	// GetDocument returns one stored document. Returns
	// documents.ErrNotFound (wrapped) when absent.
	GetDocument(ctx context.Context, id string) (*api.DocumentInfo, error)

	// ListDocuments returns all stored documents ordered by creation time.
	ListDocuments(ctx context.Context) ([]*api.DocumentInfo, error)

	// DeleteDocument removes a document and returns the number of chunks
	// removed. Returns documents.ErrNotFound (wrapped) when absent.
	DeleteDocument(ctx context.Context, id string) (int, error)

	// SummarizeDocument runs the recursive summarizer over a stored
	// document's full text.
	SummarizeDocument(ctx context.Context, id string) (*api.DocumentSummary, error)
}

// HealthChecker reports whether the model backend and document store are
// usable.
type HealthChecker interface {
	Health(ctx context.Context) *api.HealthStatus
}

// DocumentList holds the response body for the list-documents endpoint.
type DocumentList struct {
	Documents []*api.DocumentInfo `json:"documents"`
	Count     int                 `json:"count"`
}

// DeleteResult holds the response body for the delete-document endpoint.
type DeleteResult struct {
	DocumentID    string `json:"document_id"`
	ChunksRemoved int    `json:"chunks_removed"`
}
