package documents

import (
	"context"
	"time"
)

// Chunk is one retrievable piece of a document.
type Chunk struct {
	DocID    string
	Index    int
	Text     string
	Filename string
}

// Document is a processed document with its chunks.
type Document struct {
	ID        string
	Filename  string
	Text      string
	Chunks    []Chunk
	CreatedAt time.Time
}

// SearchResult is one chunk matched by a relevance search.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Store persists documents and answers chunk searches. Implementations
// must be safe for concurrent use.
type Store interface {
	// Put stores a document and its chunks. Returns ErrConflict when the
	// ID is already taken.
	Put(ctx context.Context, doc *Document) error

	// Get retrieves a document by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Document, error)

	// List returns all stored documents ordered by creation time.
	List(ctx context.Context) ([]*Document, error)

	// Delete removes a document and returns the number of chunks removed.
	// Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) (int, error)

	// Search returns the chunks most relevant to query, best first.
	// An empty docID searches across all documents.
	Search(ctx context.Context, query, docID string, limit int) ([]SearchResult, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases underlying resources.
	Close() error
}
