// Package summarizer condenses large documents by recursive reduction:
// the text is split into paragraph-aligned chunks, each chunk is
// summarized, and the summaries are merged in groups until a single
// summary remains. Levels counts the per-chunk pass plus every merge
// pass.
package summarizer
