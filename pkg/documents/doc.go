// Package documents provides document ingestion and retrieval shared
// across store implementations: the chunking processor, the Store
// interface, and sentinel errors.
//
// Store adapters (memory, postgres) keep whole documents plus their
// chunks and answer lexical relevance searches over the chunks.
package documents
