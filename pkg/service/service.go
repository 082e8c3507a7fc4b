// Package service implements the operations behind the transport layer:
// corpus assembly and query runs, document upload and retrieval, recursive
// summarization, and health reporting.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rekurs-dev/rekurs/pkg/api"
	"github.com/rekurs-dev/rekurs/pkg/documents"
	"github.com/rekurs-dev/rekurs/pkg/provider"
)

// corpusSeparator joins retrieved sources and concatenated documents.
const corpusSeparator = "\n\n---\n\n"

// QueryEngine runs the iterative query loop over an assembled corpus.
type QueryEngine interface {
	Run(ctx context.Context, query, corpus string) *api.Result
}

// Summarizer produces a hierarchical summary of a text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*api.SummaryResult, error)
}

// Config holds service-level settings.
type Config struct {
	// Model is the model name reported by the health endpoint.
	Model string

	// MaxChunks is the default number of chunks retrieved per query when
	// the request does not specify one. Zero or negative means 5.
	MaxChunks int
}

func (c Config) maxChunks() int {
	if c.MaxChunks <= 0 {
		return 5
	}
	return c.MaxChunks
}

// Service wires the engine, summarizer, document store, and provider into
// the handler contracts consumed by the transport layer.
type Service struct {
	engine     QueryEngine
	summarizer Summarizer
	store      documents.Store
	processor  *documents.Processor
	client     provider.Client
	cfg        Config
}

// New creates a Service. All collaborators are required except the
// processor, which falls back to default chunking settings when nil.
func New(engine QueryEngine, summarizer Summarizer, store documents.Store, processor *documents.Processor, client provider.Client, cfg Config) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine must not be nil")
	}
	if summarizer == nil {
		return nil, fmt.Errorf("summarizer must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store must not be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("client must not be nil")
	}
	if processor == nil {
		processor = &documents.Processor{}
	}
	return &Service{
		engine:     engine,
		summarizer: summarizer,
		store:      store,
		processor:  processor,
		client:     client,
		cfg:        cfg,
	}, nil
}

// RunQuery assembles the corpus for the request and drives the engine.
// Engine-level failures are reported inside the returned Result; the error
// return covers validation failures and missing documents.
func (s *Service) RunQuery(ctx context.Context, req *api.QueryRequest) (*api.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	corpus, err := s.buildCorpus(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.engine.Run(ctx, req.Query, corpus), nil
}

// buildCorpus selects the text the engine will work over. With retrieval
// enabled (the default) it searches the store and labels each hit with its
// source document. With retrieval disabled it returns full document text,
// either for one document or for the whole store.
func (s *Service) buildCorpus(ctx context.Context, req *api.QueryRequest) (string, error) {
	if !req.Retrieval() {
		if req.DocumentID != "" {
			doc, err := s.store.Get(ctx, req.DocumentID)
			if err != nil {
				return "", fmt.Errorf("loading document %s: %w", req.DocumentID, err)
			}
			return doc.Text, nil
		}

		docs, err := s.store.List(ctx)
		if err != nil {
			return "", fmt.Errorf("listing documents: %w", err)
		}
		texts := make([]string, 0, len(docs))
		for _, doc := range docs {
			texts = append(texts, doc.Text)
		}
		return strings.Join(texts, corpusSeparator), nil
	}

	// A bad document ID should surface as not-found, not as an empty
	// search result.
	if req.DocumentID != "" {
		if _, err := s.store.Get(ctx, req.DocumentID); err != nil {
			return "", fmt.Errorf("loading document %s: %w", req.DocumentID, err)
		}
	}

	limit := req.MaxChunks
	if limit <= 0 {
		limit = s.cfg.maxChunks()
	}

	results, err := s.store.Search(ctx, req.Query, req.DocumentID, limit)
	if err != nil {
		return "", fmt.Errorf("searching documents: %w", err)
	}

	sources := make([]string, 0, len(results))
	for i, r := range results {
		sources = append(sources, fmt.Sprintf("[Source %d - %s]\n%s", i+1, r.Chunk.Filename, r.Chunk.Text))
	}
	return strings.Join(sources, corpusSeparator), nil
}

// UploadDocument chunks and stores a document.
func (s *Service) UploadDocument(ctx context.Context, req *api.UploadRequest) (*api.DocumentInfo, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc := s.processor.Process(req.Filename, req.Text)
	if err := s.store.Put(ctx, doc); err != nil {
		return nil, fmt.Errorf("storing document %s: %w", doc.ID, err)
	}

	return documentInfo(doc), nil
}

// GetDocument returns one stored document.
func (s *Service) GetDocument(ctx context.Context, id string) (*api.DocumentInfo, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", id, err)
	}
	return documentInfo(doc), nil
}

// ListDocuments returns all stored documents ordered by creation time.
func (s *Service) ListDocuments(ctx context.Context) ([]*api.DocumentInfo, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]*api.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, documentInfo(doc))
	}
	return infos, nil
}

// DeleteDocument removes a document and returns the number of chunks removed.
func (s *Service) DeleteDocument(ctx context.Context, id string) (int, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("deleting document %s: %w", id, err)
	}
	return removed, nil
}

// SummarizeDocument runs the recursive summarizer over a stored document's
// full text.
func (s *Service) SummarizeDocument(ctx context.Context, id string) (*api.DocumentSummary, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", id, err)
	}

	summary, err := s.summarizer.Summarize(ctx, doc.Text)
	if err != nil {
		return nil, fmt.Errorf("summarizing document %s: %w", id, err)
	}

	return &api.DocumentSummary{
		DocumentID: doc.ID,
		Summary:    summary.Summary,
		ChunkCount: summary.ChunkCount,
		Levels:     summary.Levels,
	}, nil
}

// Health reports backend reachability, model availability, and the number
// of stored documents.
func (s *Service) Health(ctx context.Context) *api.HealthStatus {
	status := &api.HealthStatus{Status: "ok"}

	status.BackendConnected = s.client.Healthy(ctx)
	if status.BackendConnected {
		available, err := s.client.ModelAvailable(ctx, s.cfg.Model)
		status.ModelAvailable = err == nil && available
	}
	if !status.BackendConnected || !status.ModelAvailable {
		status.Status = "degraded"
	}

	if count, err := s.store.Count(ctx); err == nil {
		status.Documents = count
	}

	return status
}

func documentInfo(doc *documents.Document) *api.DocumentInfo {
	return &api.DocumentInfo{
		ID:         doc.ID,
		Filename:   doc.Filename,
		ChunkCount: len(doc.Chunks),
		CreatedAt:  doc.CreatedAt.Unix(),
	}
}
