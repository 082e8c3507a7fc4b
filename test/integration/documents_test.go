package integration

import (
	"net/http"
	"testing"

	"github.com/rekurs-dev/rekurs/pkg/api"
	"github.com/rekurs-dev/rekurs/pkg/transport"
)

func TestDocumentLifecycle(t *testing.T) {
	id := uploadDocument(t, "lifecycle.txt", "A document that exists only for this test.\n\nIt has two paragraphs.")

	// List contains the document.
	resp := getURL(t, testEnv.BaseURL()+"/v1/documents")
	var list transport.DocumentList
	decodeJSON(t, resp, &list)
	resp.Body.Close()

	found := false
	for _, info := range list.Documents {
		if info.ID == id {
			found = true
			if info.Filename != "lifecycle.txt" {
				t.Errorf("unexpected filename: %q", info.Filename)
			}
			if info.ChunkCount < 1 {
				t.Errorf("expected at least one chunk, got %d", info.ChunkCount)
			}
		}
	}
	if !found {
		t.Fatalf("uploaded document %s not in listing", id)
	}

	// Fetch by ID returns the same metadata.
	resp = getURL(t, testEnv.BaseURL()+"/v1/documents/"+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on get, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var info api.DocumentInfo
	decodeJSON(t, resp, &info)
	resp.Body.Close()
	if info.ID != id || info.Filename != "lifecycle.txt" {
		t.Errorf("unexpected document info: %+v", info)
	}

	// Delete reports removed chunks.
	resp = deleteURL(t, testEnv.BaseURL()+"/v1/documents/"+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var deleted transport.DeleteResult
	decodeJSON(t, resp, &deleted)
	resp.Body.Close()

	if deleted.DocumentID != id || deleted.ChunksRemoved < 1 {
		t.Errorf("unexpected delete result: %+v", deleted)
	}

	// Second delete is a 404.
	resp = deleteURL(t, testEnv.BaseURL()+"/v1/documents/"+id)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", resp.StatusCode)
	}
}

func TestDuplicateUpload(t *testing.T) {
	id := uploadDocument(t, "dup.txt", "Exactly identical content for the conflict test.")
	defer func() { deleteURL(t, testEnv.BaseURL()+"/v1/documents/"+id).Body.Close() }()

	resp := postJSON(t, testEnv.BaseURL()+"/v1/documents", map[string]string{
		"filename": "dup.txt",
		"text":     "Exactly identical content for the conflict test.",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
}

func TestUploadValidation(t *testing.T) {
	resp := postJSON(t, testEnv.BaseURL()+"/v1/documents", map[string]string{
		"filename": "empty.txt",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var errResp api.ErrorResponse
	decodeJSON(t, resp, &errResp)
	if errResp.Error == nil || errResp.Error.Param != "text" {
		t.Errorf("unexpected error: %+v", errResp.Error)
	}
}

func TestDocumentSummary(t *testing.T) {
	id := uploadDocument(t, "summary.txt", "A small document for summarization.")
	defer func() { deleteURL(t, testEnv.BaseURL()+"/v1/documents/"+id).Body.Close() }()

	resp := getURL(t, testEnv.BaseURL()+"/v1/documents/"+id+"/summary")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp))
	}

	var summary api.DocumentSummary
	decodeJSON(t, resp, &summary)

	if summary.DocumentID != id {
		t.Errorf("expected document ID %s, got %s", id, summary.DocumentID)
	}
	if summary.Summary != "A short chunk summary." {
		t.Errorf("unexpected summary: %q", summary.Summary)
	}
	if summary.ChunkCount != 1 || summary.Levels != 1 {
		t.Errorf("expected single-chunk summary, got %+v", summary)
	}
}

func TestSummaryUnknownDocument(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/v1/documents/missing/summary")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
