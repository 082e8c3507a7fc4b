// Package api defines the core data types for the rekurs gateway.
//
// This package provides the shapes shared by the engine, sandbox,
// summarizer, and transport layers: execution steps and run results,
// summarization results, the wire-level request/response types, and the
// structured error taxonomy.
//
// The package has zero external dependencies (Go standard library only)
// and performs no I/O. All types serialize to stable JSON suitable for
// the HTTP surface.
//
// Core types:
//   - [Step]: One entry in a run's execution trace (code, output, llm_call, final)
//   - [Result]: The complete outcome of one engine run, including the full trace
//   - [SummaryResult]: The outcome of one recursive summarization
//   - [APIError]: Structured error with type, param, and message
package api
