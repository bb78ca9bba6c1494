// Package ingestion provides pipeline orchestration for indexing documents.
//
// The Loader validates upload batches and extracts text into documents. The
// Pipeline then manages the indexing workflow per document:
//   - Splitting text into overlapping chunks
//   - Generating embeddings for the chunks
//   - Upserting chunk records into storage
//
// Documents are processed concurrently using a worker pool. A document that
// fails is isolated in the batch report; the rest of the batch proceeds.
package ingestion
