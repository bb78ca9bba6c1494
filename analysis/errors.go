package analysis

import "errors"

var (
	// ErrAnalystRequired is returned when an analyst is not provided.
	ErrAnalystRequired = errors.New("analyst required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrDocumentRequired is returned when a document is not provided.
	ErrDocumentRequired = errors.New("document required")
)
