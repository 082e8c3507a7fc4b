// Package memory provides an in-memory documents.Store for testing and
// lightweight deployments. Documents are lost when the process restarts.
// Search scores chunks by lexical term overlap with the query.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rekurs-dev/rekurs/pkg/documents"
)

// Store is an in-memory documents.Store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*documents.Document
}

// Ensure Store implements documents.Store at compile time.
var _ documents.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[string]*documents.Document)}
}

// Put stores a document and its chunks.
func (s *Store) Put(_ context.Context, doc *documents.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; exists {
		return documents.ErrConflict
	}
	s.docs[doc.ID] = doc
	return nil
}

// Get retrieves a document by ID.
func (s *Store) Get(_ context.Context, id string) (*documents.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, documents.ErrNotFound
	}
	return doc, nil
}

// List returns all documents ordered by creation time.
func (s *Store) List(_ context.Context) ([]*documents.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*documents.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a document and reports how many chunks went with it.
func (s *Store) Delete(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return 0, documents.ErrNotFound
	}
	delete(s.docs, id)
	return len(doc.Chunks), nil
}

// Search scores every chunk by term overlap with the query and returns
// the best matches first. Chunks with no overlapping terms are skipped.
func (s *Store) Search(_ context.Context, query, docID string, limit int) ([]documents.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := tokenize(query)
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	var results []documents.SearchResult
	for _, doc := range s.docs {
		if docID != "" && doc.ID != docID {
			continue
		}
		for _, chunk := range doc.Chunks {
			score := overlapScore(terms, chunk.Text)
			if score > 0 {
				results = append(results, documents.SearchResult{Chunk: chunk, Score: score})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			if results[i].Chunk.DocID == results[j].Chunk.DocID {
				return results[i].Chunk.Index < results[j].Chunk.Index
			}
			return results[i].Chunk.DocID < results[j].Chunk.DocID
		}
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// tokenize lowercases and splits text into terms, dropping very short ones.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	terms := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

// overlapScore is the fraction of query terms present in the chunk.
func overlapScore(terms []string, chunkText string) float64 {
	chunkTerms := make(map[string]bool)
	for _, t := range tokenize(chunkText) {
		chunkTerms[t] = true
	}

	hits := 0
	for _, t := range terms {
		if chunkTerms[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}
