// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/docsieve/docsieve/ai"
	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/storage"
)

// CheckpointType identifies this processor's checkpoint in storage.
const CheckpointType = "reindex"

// Config holds configuration for the re-embedding operation.
type Config struct {
	// BatchSize is the number of chunks to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Resume continues from the last saved checkpoint instead of starting over.
	Resume bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer orchestrates re-embedding every chunk record in the index.
type Reindexer struct {
	chunks      storage.ChunkRepository
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	config      *Config
	progress    io.Writer
	processor   *BatchProcessor
	iterator    *ChunkIterator
}

// NewReindexer creates a new reindexer. The checkpoint repository may be nil,
// in which case runs cannot be resumed.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(
	chunks storage.ChunkRepository,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	config *Config,
	progress io.Writer,
) (*Reindexer, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		chunks:      chunks,
		checkpoints: checkpoints,
		embedder:    embedder,
		config:      config,
		progress:    progress,
		processor:   NewBatchProcessor(chunks, embedder, config.MaxRetries, config.RetryDelay),
		iterator:    NewChunkIterator(chunks, config.BatchSize),
	}, nil
}

// Run re-embeds all chunk records with the configured embedder. With
// Config.Resume, chunks up to the last checkpointed id are skipped. A
// checkpoint is saved after every batch and removed when the run completes.
func (r *Reindexer) Run(ctx context.Context) error {
	afterID, err := r.resumePoint(ctx)
	if err != nil {
		return err
	}

	total, err := r.iterator.Count(ctx, afterID)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	if total == 0 {
		if afterID > 0 {
			fmt.Fprintf(r.progress, "Nothing left to re-embed past checkpoint\n")
			return r.clearCheckpoint(ctx)
		}
		fmt.Fprintf(r.progress, "No chunks found in index (0 chunks)\n")
		return nil
	}

	if afterID > 0 {
		fmt.Fprintf(r.progress, "Resuming re-embedding: %d chunks remaining (batch size: %d)\n",
			total, r.config.BatchSize)
	} else {
		fmt.Fprintf(r.progress, "Starting re-embedding of %d chunks (batch size: %d)\n",
			total, r.config.BatchSize)
	}

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	err = r.iterator.ForEach(ctx, afterID, func(records []*core.ChunkRecord) error {
		if err := r.processor.Process(ctx, records); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(records)
		tracker.Update(processed)

		return r.saveCheckpoint(ctx, records[len(records)-1].Id)
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	if err := r.clearCheckpoint(ctx); err != nil {
		return err
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Re-embedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())

	return nil
}

// resumePoint returns the chunk id to resume after, 0 for a fresh run.
func (r *Reindexer) resumePoint(ctx context.Context) (core.ID, error) {
	if !r.config.Resume || r.checkpoints == nil {
		return 0, nil
	}

	checkpoint, err := r.checkpoints.GetCheckpoint(ctx, CheckpointType)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	return checkpoint.LastID, nil
}

func (r *Reindexer) saveCheckpoint(ctx context.Context, lastID core.ID) error {
	if r.checkpoints == nil {
		return nil
	}

	err := r.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		ProcessorType: CheckpointType,
		LastID:        lastID,
	})
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (r *Reindexer) clearCheckpoint(ctx context.Context) error {
	if r.checkpoints == nil {
		return nil
	}

	if err := r.checkpoints.DeleteCheckpoint(ctx, CheckpointType); err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	return nil
}
