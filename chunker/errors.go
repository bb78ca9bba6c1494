package chunker

import "errors"

var (
	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidChunkOverlap indicates a negative chunk overlap.
	ErrInvalidChunkOverlap = errors.New("invalid chunk overlap")
)
