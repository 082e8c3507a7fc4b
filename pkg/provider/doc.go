// Package provider defines the protocol-agnostic interface for text
// generation backends. Each adapter implementation (e.g., ollama) handles
// its own backend protocol internally, keeping wire details invisible to
// the engine and summarizer.
package provider
