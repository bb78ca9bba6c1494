package storage

import (
	"context"

	"github.com/docsieve/docsieve/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing chunk records.
type ChunkRepository interface {
	Repository

	// UpsertChunks stores chunk records, skipping any whose ID already
	// exists. Sets InsertedAt on newly stored records.
	// Returns the number of records actually inserted.
	UpsertChunks(ctx context.Context, records ...*core.ChunkRecord) (int, error)

	// UpdateChunks overwrites existing chunk records in place.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateChunks(ctx context.Context, records ...*core.ChunkRecord) error

	// GetChunk retrieves a single chunk record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.ChunkRecord, error)

	// GetAllChunks retrieves every stored chunk record.
	// Order is unspecified.
	GetAllChunks(ctx context.Context) ([]*core.ChunkRecord, error)

	// QuerySimilar finds chunk records similar to the given vector.
	// Returns up to k results ordered by similarity score (highest first).
	// Records without vectors are skipped.
	QuerySimilar(ctx context.Context, vector []float32, k int) ([]*core.SearchResult, error)

	// DeleteBySource removes all chunk records originating from the given
	// source document. Returns the number of records removed.
	DeleteBySource(ctx context.Context, source string) (int, error)

	// Clear removes all chunk records.
	Clear(ctx context.Context) error

	// Stats summarizes the stored collection.
	Stats(ctx context.Context) (*core.CollectionStats, error)
}

// CheckpointRepository provides operations for managing processor checkpoints.
type CheckpointRepository interface {
	Repository

	// SaveCheckpoint stores or overwrites the checkpoint for a processor.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// GetCheckpoint retrieves the checkpoint for a processor type.
	// Returns ErrNotFound if no checkpoint exists.
	GetCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a processor type.
	// Removing a missing checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, processorType string) error
}
