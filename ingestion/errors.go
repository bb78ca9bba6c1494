package ingestion

import "errors"

var (
	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrExtractorRequired is returned when a text extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrSplitterRequired is returned when a nil splitter is configured.
	ErrSplitterRequired = errors.New("splitter required")

	// ErrNoFiles is returned when an upload batch contains no files.
	ErrNoFiles = errors.New("no files provided")

	// ErrTooManyFiles is returned when an upload batch exceeds the file count limit.
	ErrTooManyFiles = errors.New("too many files in batch")

	// ErrFileTooLarge is returned when a single file exceeds the per-file size limit.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrBatchTooLarge is returned when an upload batch exceeds the total size limit.
	ErrBatchTooLarge = errors.New("batch exceeds total size limit")

	// ErrEmptyFile is returned when an uploaded file has no content.
	ErrEmptyFile = errors.New("file is empty")

	// ErrLowConfidenceExtraction is returned when extraction yields too little
	// text to index meaningfully.
	ErrLowConfidenceExtraction = errors.New("extracted text too short")
)
