package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rekurs-dev/rekurs/pkg/documents"
)

func makeDoc(id, filename string, chunkTexts ...string) *documents.Document {
	doc := &documents.Document{
		ID:        id,
		Filename:  filename,
		CreatedAt: time.Now(),
	}
	for i, text := range chunkTexts {
		doc.Chunks = append(doc.Chunks, documents.Chunk{
			DocID:    id,
			Index:    i,
			Text:     text,
			Filename: filename,
		})
		doc.Text += text + "\n\n"
	}
	return doc
}

func TestPutGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	doc := makeDoc("doc1", "a.txt", "chunk one", "chunk two")
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := s.Get(ctx, "doc1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Filename != "a.txt" || len(got.Chunks) != 2 {
		t.Errorf("unexpected document: %+v", got)
	}
}

func TestPut_Conflict(t *testing.T) {
	s := New()
	ctx := context.Background()

	doc := makeDoc("doc1", "a.txt", "text")
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Put(ctx, doc); !errors.Is(err, documents.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := New()
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, documents.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Put(ctx, makeDoc("doc1", "a.txt", "one", "two", "three"))

	removed, err := s.Delete(ctx, "doc1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 chunks removed, got %d", removed)
	}
	if _, err := s.Get(ctx, "doc1"); !errors.Is(err, documents.ErrNotFound) {
		t.Errorf("expected document gone, got %v", err)
	}
	if _, err := s.Delete(ctx, "doc1"); !errors.Is(err, documents.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListOrderedByCreation(t *testing.T) {
	s := New()
	ctx := context.Background()

	older := makeDoc("older", "a.txt", "text")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := makeDoc("newer", "b.txt", "text")

	s.Put(ctx, newer)
	s.Put(ctx, older)

	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "older" || docs[1].ID != "newer" {
		t.Errorf("unexpected order: %v, %v", docs[0].ID, docs[1].ID)
	}
}

func TestSearch_RanksByOverlap(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Put(ctx, makeDoc("doc1", "a.txt",
		"the quick brown fox jumps",
		"lazy dogs sleep all day",
		"quick foxes and lazy dogs together",
	))

	results, err := s.Search(ctx, "quick fox", "", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Chunk.Index != 0 {
		t.Errorf("expected exact-term chunk first, got index %d", results[0].Chunk.Index)
	}
	for _, r := range results {
		if r.Score <= 0 {
			t.Errorf("result with non-positive score: %+v", r)
		}
	}
}

func TestSearch_ScopedToDocument(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Put(ctx, makeDoc("doc1", "a.txt", "shared term alpha"))
	s.Put(ctx, makeDoc("doc2", "b.txt", "shared term beta"))

	results, err := s.Search(ctx, "shared term", "doc2", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for _, r := range results {
		if r.Chunk.DocID != "doc2" {
			t.Errorf("result leaked from %q", r.Chunk.DocID)
		}
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestSearch_LimitApplied(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Put(ctx, makeDoc("doc1", "a.txt",
		"match target here", "match target there", "match target everywhere",
	))

	results, err := s.Search(ctx, "match target", "", 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestCount(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Put(ctx, makeDoc("doc1", "a.txt", "text"))
	s.Put(ctx, makeDoc("doc2", "b.txt", "text"))

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}
