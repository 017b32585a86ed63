// Package ingestion provides the knowledge-base build pipeline.
//
// The Builder type manages the build workflow for source documents, including:
//   - Fingerprinting sources and skipping ones already processed
//   - Extracting, chunking and embedding new sources concurrently
//   - Merging all persisted units into one served knowledge base
//
// Sources are processed concurrently using a worker pool to maximize
// throughput. Errors during per-source processing are logged but do not fail
// the build of the remaining sources.
package ingestion
