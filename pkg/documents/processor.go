package documents

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

var (
	runsOfSpaces   = regexp.MustCompile(` +`)
	runsOfNewlines = regexp.MustCompile(`\n{3,}`)
)

// Processor turns raw text into a chunked Document. Chunks follow
// paragraph boundaries with a configurable byte budget and overlap.
type Processor struct {
	// ChunkSize is the chunk budget in bytes. Zero or negative means the
	// default of 1000.
	ChunkSize int

	// ChunkOverlap is the number of trailing bytes carried into the next
	// chunk. Zero or negative means the default of 200.
	ChunkOverlap int
}

func (p Processor) chunkSize() int {
	if p.ChunkSize <= 0 {
		return 1000
	}
	return p.ChunkSize
}

func (p Processor) chunkOverlap() int {
	if p.ChunkOverlap <= 0 {
		return 200
	}
	return p.ChunkOverlap
}

// Process cleans text and splits it into chunks. The document ID is
// derived from a content digest so re-uploading the same file yields
// the same ID.
func (p Processor) Process(filename, text string) *Document {
	cleaned := clean(text)
	id := digestID(cleaned)

	return &Document{
		ID:        id,
		Filename:  filename,
		Text:      cleaned,
		Chunks:    p.chunk(cleaned, id, filename),
		CreatedAt: time.Now(),
	}
}

// clean collapses repeated spaces and excess blank lines.
func clean(text string) string {
	text = runsOfSpaces.ReplaceAllString(text, " ")
	text = runsOfNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// digestID hashes the head of the content to a short stable identifier.
func digestID(text string) string {
	head := text
	if len(head) > 1000 {
		head = head[:1000]
	}
	sum := md5.Sum([]byte(head))
	return hex.EncodeToString(sum[:])[:12]
}

// chunk groups paragraphs into chunks of at most the byte budget,
// carrying a tail overlap into the following chunk for continuity. A
// paragraph exceeding the budget on its own becomes one oversized chunk.
func (p Processor) chunk(text, docID, filename string) []Chunk {
	var chunks []Chunk
	size := p.chunkSize()
	overlap := p.chunkOverlap()

	current := ""
	idx := 0
	flush := func() {
		trimmed := strings.TrimSpace(current)
		if trimmed == "" {
			return
		}
		chunks = append(chunks, Chunk{
			DocID:    docID,
			Index:    idx,
			Text:     trimmed,
			Filename: filename,
		})
		idx++
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(current)+len(para) > size {
			if current != "" {
				flush()
				tail := ""
				if len(current) > overlap {
					tail = current[len(current)-overlap:]
				}
				if tail != "" {
					current = tail + "\n\n" + para
				} else {
					current = para
				}
			} else {
				current = para
			}
		} else {
			if current == "" {
				current = para
			} else {
				current = current + "\n\n" + para
			}
		}
	}

	flush()
	return chunks
}
