package summarizer

import "strings"

// splitChunks groups paragraphs into chunks of at most chunkSize bytes.
// Paragraph boundaries (blank lines) are never crossed: a paragraph that
// alone exceeds chunkSize becomes its own oversized chunk rather than
// being cut mid-sentence. Whitespace-only input yields no chunks.
func splitChunks(text string, chunkSize int) []string {
	var chunks []string

	current := ""
	for _, para := range strings.Split(text, "\n\n") {
		if len(current)+len(para) > chunkSize {
			if trimmed := strings.TrimSpace(current); trimmed != "" {
				chunks = append(chunks, trimmed)
			}
			current = para
			continue
		}
		if current == "" {
			current = para
		} else {
			current = current + "\n\n" + para
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}
