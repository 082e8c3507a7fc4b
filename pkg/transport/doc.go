// Package transport defines the handler interfaces and middleware chain for
// the rekurs HTTP transport layer.
//
// The transport layer bridges external clients and the query engine. It
// deserializes incoming requests into the wire types defined in pkg/api,
// dispatches them for processing, and serializes results back to the
// client as JSON.
//
// # Handler Interfaces
//
// Three handler interfaces define the contract between the transport layer
// and the service behind it:
//
//   - QueryHandler runs a query against the document corpus and returns
//     the full execution trace.
//   - DocumentService handles upload, listing, deletion, and
//     summarization of stored documents.
//   - HealthChecker reports backend and store health.
//
// # Middleware
//
// The middleware chain wraps QueryHandler with cross-cutting concerns.
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID), and structured logging via log/slog. Custom middleware
// can be added for application-specific concerns.
package transport
