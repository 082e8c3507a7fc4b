package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rekurs-dev/rekurs/pkg/api"
	"github.com/rekurs-dev/rekurs/pkg/observability"
	"github.com/rekurs-dev/rekurs/pkg/provider"
)

// emptySummary is the fixed result text for a document with no content.
const emptySummary = "Empty document."

// mergeGroupSize is the number of summaries combined per merge call.
const mergeGroupSize = 3

// Config holds configuration for the recursive summarizer.
type Config struct {
	// ChunkSize is the chunk budget in bytes. Zero or negative means the
	// default of 2000.
	ChunkSize int

	// Model is the model name passed to the provider.
	Model string

	// Temperature, when set, overrides the provider's sampling default.
	Temperature *float64
}

func (c Config) chunkSize() int {
	if c.ChunkSize <= 0 {
		return 2000
	}
	return c.ChunkSize
}

// Summarizer reduces documents to a single summary through repeated
// chunk-and-merge passes.
type Summarizer struct {
	client provider.Client
	cfg    Config
}

// New creates a Summarizer. The client must not be nil.
func New(client provider.Client, cfg Config) (*Summarizer, error) {
	if client == nil {
		return nil, fmt.Errorf("summarizer: provider client must not be nil")
	}
	return &Summarizer{client: client, cfg: cfg}, nil
}

// Summarize reduces text to one summary. An empty or whitespace-only
// document returns the sentinel result without any model calls.
// Provider errors abort the reduction and propagate to the caller.
func (s *Summarizer) Summarize(ctx context.Context, text string) (*api.SummaryResult, error) {
	chunks := splitChunks(text, s.cfg.chunkSize())
	if len(chunks) == 0 {
		return &api.SummaryResult{Summary: emptySummary, ChunkCount: 0, Levels: 0}, nil
	}

	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		summary, err := s.generate(ctx, "Summarize this in 2-3 sentences:\n\n"+chunk)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, strings.TrimSpace(summary))
	}

	levels := 1
	for len(summaries) > 1 {
		levels++
		merged := make([]string, 0, (len(summaries)+mergeGroupSize-1)/mergeGroupSize)
		for i := 0; i < len(summaries); i += mergeGroupSize {
			end := i + mergeGroupSize
			if end > len(summaries) {
				end = len(summaries)
			}
			group := strings.Join(summaries[i:end], "\n\n")

			combined, err := s.generate(ctx, "Combine these summaries into one:\n\n"+group)
			if err != nil {
				return nil, err
			}
			merged = append(merged, strings.TrimSpace(combined))
		}
		summaries = merged
	}

	return &api.SummaryResult{
		Summary:    summaries[0],
		ChunkCount: len(chunks),
		Levels:     levels,
	}, nil
}

func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	observability.LLMCallsTotal.WithLabelValues("summary").Inc()
	return s.client.Generate(ctx, prompt, provider.GenerateOptions{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
	})
}
