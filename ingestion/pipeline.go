package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/docsieve/docsieve/ai"
	"github.com/docsieve/docsieve/chunker"
	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/storage"
)

// Pipeline orchestrates document ingestion: splitting into chunks, embedding,
// and upserting into the chunk store. Documents in a batch are processed
// concurrently; a failure in one document never aborts the others.
type Pipeline struct {
	chunkRepository storage.ChunkRepository
	splitter        *chunker.Splitter
	embedder        ai.Embedder
	pool            *ants.Pool
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithSplitter sets a custom chunk splitter.
// Default splits at chunker.DefaultChunkSize with chunker.DefaultChunkOverlap.
func WithSplitter(splitter *chunker.Splitter) Option {
	return func(p *Pipeline) error {
		if splitter == nil {
			return ErrSplitterRequired
		}
		p.splitter = splitter
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunkRepository storage.ChunkRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	splitter, err := chunker.NewSplitter()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		chunkRepository: chunkRepository,
		splitter:        splitter,
		embedder:        embedder,
		pool:            pool,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// IngestOptions holds optional parameters for ingestion.
type IngestOptions struct {
	// Replace deletes all previously indexed chunks for each document's
	// filename before upserting. Without it, re-ingesting a changed file
	// leaves the old version's chunks in the index alongside the new ones.
	Replace bool
}

// DocumentFailure records a document that could not be ingested.
type DocumentFailure struct {
	Filename string
	Err      error
}

// Report summarizes one ingestion batch.
type Report struct {
	Documents      int // documents successfully processed
	ChunksIngested int // chunk records newly inserted
	ChunksSkipped  int // chunk records already present, left untouched
	Failed         []DocumentFailure
}

// Ingest chunks, embeds, and stores the given documents. Documents are
// processed concurrently on the worker pool; the call blocks until the whole
// batch is done. A document that fails is recorded in Report.Failed and does
// not affect the rest of the batch. The returned error covers only
// batch-level problems such as pool submission failures.
func (p *Pipeline) Ingest(ctx context.Context, docs []*core.Document, opts *IngestOptions) (*Report, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	report := &Report{}
	if len(docs) == 0 {
		return report, nil
	}

	p.logger.Info("ingesting documents", "documents", len(docs), "replace", opts.Replace)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, doc := range docs {
		doc := doc
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()

			inserted, skipped, err := p.ingestDocument(ctx, doc, opts.Replace)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("document ingestion failed", "filename", doc.Filename, "err", err)
				report.Failed = append(report.Failed, DocumentFailure{Filename: doc.Filename, Err: err})
				return
			}
			report.Documents++
			report.ChunksIngested += inserted
			report.ChunksSkipped += skipped
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return report, fmt.Errorf("submitting document %s: %w", doc.Filename, err)
		}
	}

	wg.Wait()

	p.logger.Info("ingestion complete",
		"documents", report.Documents,
		"ingested", report.ChunksIngested,
		"skipped", report.ChunksSkipped,
		"failed", len(report.Failed))

	return report, nil
}

// ingestDocument runs the full pipeline for a single document. The embedding
// call covers the whole document's chunks at once; if it fails, nothing from
// the document is stored.
func (p *Pipeline) ingestDocument(ctx context.Context, doc *core.Document, replace bool) (inserted, skipped int, err error) {
	chunks, err := p.splitter.Split(doc)
	if err != nil {
		return 0, 0, fmt.Errorf("splitting: %w", err)
	}
	if len(chunks) == 0 {
		return 0, 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	p.logger.Debug("embedding chunks", "filename", doc.Filename, "chunks", len(texts))
	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, 0, fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, 0, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(chunks), len(vectors))
	}

	records := make([]*core.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		record := chunk.Record()
		record.Vector = core.NormalizeVector(vectors[i])
		records[i] = record
	}

	if replace {
		deleted, err := p.chunkRepository.DeleteBySource(ctx, doc.Filename)
		if err != nil {
			return 0, 0, fmt.Errorf("replacing source: %w", err)
		}
		if deleted > 0 {
			p.logger.Debug("replaced previous chunks", "filename", doc.Filename, "deleted", deleted)
		}
	}

	count, err := p.chunkRepository.UpsertChunks(ctx, records...)
	if err != nil {
		return 0, 0, fmt.Errorf("storing chunks: %w", err)
	}

	return count, len(records) - count, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
