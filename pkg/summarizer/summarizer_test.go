package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rekurs-dev/rekurs/pkg/provider"
)

// countingClient returns a canned summary per call and records prompts.
type countingClient struct {
	prompts []string
	err     error
}

func (c *countingClient) Name() string { return "mock" }

func (c *countingClient) Generate(_ context.Context, prompt string, _ provider.GenerateOptions) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return fmt.Sprintf("summary %d", len(c.prompts)), nil
}

func (c *countingClient) Healthy(context.Context) bool { return true }

func (c *countingClient) ModelAvailable(context.Context, string) (bool, error) { return true, nil }

func (c *countingClient) ListModels(context.Context) ([]provider.ModelInfo, error) { return nil, nil }

func (c *countingClient) Close() error { return nil }

func TestNew_NilClient(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestSummarize_EmptyDocument(t *testing.T) {
	client := &countingClient{}
	s, _ := New(client, Config{})

	for _, text := range []string{"", "   \n\n   "} {
		res, err := s.Summarize(context.Background(), text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Summary != "Empty document." {
			t.Errorf("expected sentinel summary, got %q", res.Summary)
		}
		if res.ChunkCount != 0 || res.Levels != 0 {
			t.Errorf("expected zero chunks and levels, got %d/%d", res.ChunkCount, res.Levels)
		}
	}
	if len(client.prompts) != 0 {
		t.Errorf("expected no model calls, got %d", len(client.prompts))
	}
}

func TestSummarize_SingleChunk(t *testing.T) {
	client := &countingClient{}
	s, _ := New(client, Config{ChunkSize: 1000})

	res, err := s.Summarize(context.Background(), "A short paragraph.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ChunkCount != 1 {
		t.Errorf("expected 1 chunk, got %d", res.ChunkCount)
	}
	if res.Levels != 1 {
		t.Errorf("expected 1 level, got %d", res.Levels)
	}
	if len(client.prompts) != 1 {
		t.Errorf("expected exactly 1 model call, got %d", len(client.prompts))
	}
	if res.Summary != "summary 1" {
		t.Errorf("unexpected summary: %q", res.Summary)
	}
}

func TestSummarize_MergesInGroupsOfThree(t *testing.T) {
	client := &countingClient{}
	s, _ := New(client, Config{ChunkSize: 10})

	// Four paragraphs, each its own chunk at this chunk size.
	text := strings.Join([]string{
		"paragraph one",
		"paragraph two",
		"paragraph three",
		"paragraph four",
	}, "\n\n")

	res, err := s.Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ChunkCount != 4 {
		t.Fatalf("expected 4 chunks, got %d", res.ChunkCount)
	}
	// Level 1: four chunk summaries. Level 2: merge [3, 1] into two.
	// Level 3: merge the remaining two into one.
	if res.Levels != 3 {
		t.Errorf("expected 3 levels, got %d", res.Levels)
	}
	if len(client.prompts) != 4+2+1 {
		t.Errorf("expected 7 model calls, got %d", len(client.prompts))
	}

	var mergeCalls int
	for _, p := range client.prompts {
		if strings.HasPrefix(p, "Combine these summaries") {
			mergeCalls++
		}
	}
	if mergeCalls != 3 {
		t.Errorf("expected 3 merge calls, got %d", mergeCalls)
	}
}

func TestSummarize_ProviderErrorPropagates(t *testing.T) {
	client := &countingClient{err: errors.New("backend down")}
	s, _ := New(client, Config{})

	if _, err := s.Summarize(context.Background(), "some text"); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}

func TestSplitChunks_ParagraphBoundaries(t *testing.T) {
	text := "first para\n\nsecond para\n\nthird para"
	chunks := splitChunks(text, 25)

	for _, c := range chunks {
		if strings.Contains(c, "first") && strings.Contains(c, "second") {
			if len(c) > 25 {
				t.Errorf("chunk exceeds budget: %q", c)
			}
		}
	}
	joined := strings.Join(chunks, "\n\n")
	for _, want := range []string{"first para", "second para", "third para"} {
		if !strings.Contains(joined, want) {
			t.Errorf("paragraph %q lost in chunking", want)
		}
	}
}

func TestSplitChunks_OversizedParagraphKeptWhole(t *testing.T) {
	big := strings.Repeat("word ", 100)
	text := "small\n\n" + big + "\n\nalso small"

	chunks := splitChunks(text, 50)
	found := false
	for _, c := range chunks {
		if strings.Contains(c, "word word") && len(c) > 50 {
			found = true
			if strings.Contains(c, "small") {
				t.Errorf("oversized paragraph merged with neighbor: %q", c[:60])
			}
		}
	}
	if !found {
		t.Error("expected the oversized paragraph to survive as one chunk")
	}
}

func TestSplitChunks_Empty(t *testing.T) {
	if chunks := splitChunks("", 100); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %v", chunks)
	}
}
