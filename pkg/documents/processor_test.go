package documents

import (
	"strings"
	"testing"
)

func TestProcess_CleansText(t *testing.T) {
	p := Processor{}
	doc := p.Process("a.txt", "hello    world\n\n\n\n\nnext  para")

	if strings.Contains(doc.Text, "  ") {
		t.Errorf("expected collapsed spaces, got %q", doc.Text)
	}
	if strings.Contains(doc.Text, "\n\n\n") {
		t.Errorf("expected collapsed blank lines, got %q", doc.Text)
	}
}

func TestProcess_StableID(t *testing.T) {
	p := Processor{}
	a := p.Process("a.txt", "identical content")
	b := p.Process("b.txt", "identical content")

	if a.ID == "" || len(a.ID) != 12 {
		t.Fatalf("unexpected id: %q", a.ID)
	}
	if a.ID != b.ID {
		t.Errorf("expected stable content-derived id, got %q vs %q", a.ID, b.ID)
	}
	if c := p.Process("c.txt", "different content"); c.ID == a.ID {
		t.Error("expected different content to yield a different id")
	}
}

func TestProcess_ChunksRespectBudget(t *testing.T) {
	p := Processor{ChunkSize: 60, ChunkOverlap: 10}

	paras := make([]string, 6)
	for i := range paras {
		paras[i] = strings.Repeat("abcde ", 5)
	}
	doc := p.Process("a.txt", strings.Join(paras, "\n\n"))

	if len(doc.Chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(doc.Chunks))
	}
	for i, c := range doc.Chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.DocID != doc.ID {
			t.Errorf("chunk %d has doc id %q", i, c.DocID)
		}
		if c.Filename != "a.txt" {
			t.Errorf("chunk %d has filename %q", i, c.Filename)
		}
	}
}

func TestProcess_OversizedParagraphIsOneChunk(t *testing.T) {
	p := Processor{ChunkSize: 50, ChunkOverlap: 10}
	big := strings.Repeat("x", 200)

	doc := p.Process("a.txt", big)
	if len(doc.Chunks) != 1 {
		t.Fatalf("expected one oversized chunk, got %d", len(doc.Chunks))
	}
	if len(doc.Chunks[0].Text) != 200 {
		t.Errorf("paragraph was split: %d bytes", len(doc.Chunks[0].Text))
	}
}

func TestProcess_OverlapCarriedForward(t *testing.T) {
	p := Processor{ChunkSize: 30, ChunkOverlap: 8}
	doc := p.Process("a.txt", "first paragraph body here\n\nsecond paragraph body here")

	if len(doc.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(doc.Chunks))
	}
	tail := doc.Chunks[0].Text[len(doc.Chunks[0].Text)-8:]
	if !strings.Contains(doc.Chunks[1].Text, tail) {
		t.Errorf("expected overlap %q in second chunk %q", tail, doc.Chunks[1].Text)
	}
}

func TestProcess_EmptyText(t *testing.T) {
	p := Processor{}
	doc := p.Process("a.txt", "   \n\n  ")
	if len(doc.Chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(doc.Chunks))
	}
}
