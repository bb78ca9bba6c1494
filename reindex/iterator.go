package reindex

import (
	"context"
	"slices"

	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/storage"
)

const (
	// DefaultBatchSize is the default number of chunks to process per batch
	DefaultBatchSize = 100
)

// ChunkIterator walks all chunk records in ascending id order in batches.
// The stable ordering is what makes checkpoint-based resume possible.
type ChunkIterator struct {
	repo      storage.ChunkRepository
	batchSize int
}

// NewChunkIterator creates a new chunk iterator.
// batchSize: number of chunks per batch (must be > 0)
func NewChunkIterator(repo storage.ChunkRepository, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ChunkIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of chunks with id greater than afterID,
// in ascending id order. Pass 0 to start from the beginning. Iteration stops
// on the first error from fn; context cancellation is checked between batches.
func (it *ChunkIterator) ForEach(ctx context.Context, afterID core.ID, fn func([]*core.ChunkRecord) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	records, err := it.repo.GetAllChunks(ctx)
	if err != nil {
		return err
	}

	slices.SortFunc(records, func(a, b *core.ChunkRecord) int {
		switch {
		case a.Id < b.Id:
			return -1
		case a.Id > b.Id:
			return 1
		default:
			return 0
		}
	})

	if afterID > 0 {
		records = slices.DeleteFunc(records, func(r *core.ChunkRecord) bool {
			return r.Id <= afterID
		})
	}

	for i := 0; i < len(records); i += it.batchSize {
		end := min(i+it.batchSize, len(records))

		if err := fn(records[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

// Count returns the number of chunks with id greater than afterID.
func (it *ChunkIterator) Count(ctx context.Context, afterID core.ID) (int, error) {
	records, err := it.repo.GetAllChunks(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, record := range records {
		if record.Id > afterID {
			count++
		}
	}
	return count, nil
}
