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


package docsieve

import (
	"io"
	"log/slog"

	"github.com/docsieve/docsieve/ai"
	"github.com/docsieve/docsieve/ai/openai"
	"github.com/docsieve/docsieve/analysis"
	"github.com/docsieve/docsieve/chat"
	"github.com/docsieve/docsieve/ingestion"
	"github.com/docsieve/docsieve/reindex"
	"github.com/docsieve/docsieve/search"
	"github.com/docsieve/docsieve/storage"
	"github.com/docsieve/docsieve/storage/badger"
)

// Library bundles the storage backend, repositories, and AI provider behind
// a single handle. It is the main entry point for embedding docsieve in an
// application: open a Library, then create pipelines, searchers, and
// assistants from it.
type Library struct {
	backend        *badger.Backend
	chunkRepo      storage.ChunkRepository
	checkpointRepo storage.CheckpointRepository
	provider       ai.AIProvider
	logger         *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig overrides the default AI service configuration.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithInMemoryStorage keeps the index entirely in memory. Useful for tests
// and throwaway sessions; nothing survives Close.
func WithInMemoryStorage() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// Open opens the document library at the given path, creating it if needed.
func Open(filePath string, opts ...LibraryOption) (*Library, error) {
	// Apply options
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Repositories share the backend
	chunkRepo := badger.NewChunkRepository(backend)
	checkpointRepo := badger.NewCheckpointRepository(backend)

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Library{
		backend:        backend,
		chunkRepo:      chunkRepo,
		checkpointRepo: checkpointRepo,
		provider:       provider,
		logger:         slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend. The Library must
// not be used afterwards.
func (lib *Library) Close() error {
	// Close AI provider first
	if err := lib.provider.Close(); err != nil {
		lib.logger.Error("error closing AI provider", "err", err)
	}

	// Repositories share the backend, so close it once
	if lib.backend.IsClosed() {
		return nil
	}
	if err := lib.backend.Close(); err != nil {
		lib.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (lib *Library) ChunkRepository() storage.ChunkRepository {
	return lib.chunkRepo
}

func (lib *Library) CheckpointRepository() storage.CheckpointRepository {
	return lib.checkpointRepo
}

func (lib *Library) Provider() ai.AIProvider {
	return lib.provider
}

// NewIngestionPipeline creates a pipeline that splits, embeds, and stores
// documents into this library's index.
func (lib *Library) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(lib.chunkRepo, lib.provider.Embedder(), opts...)
}

// NewSearcher creates a searcher over this library's index.
func (lib *Library) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(lib.chunkRepo, lib.provider.Embedder(), opts...)
}

// NewReindexer creates a reindexer that re-embeds every stored chunk,
// checkpointing progress so interrupted runs can resume.
func (lib *Library) NewReindexer(config *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(lib.chunkRepo, lib.checkpointRepo, lib.provider.Embedder(), config, progress)
}

// NewClassifier creates a document classifier backed by this library's analyst.
func (lib *Library) NewClassifier(opts ...analysis.ClassifierOption) (*analysis.Classifier, error) {
	opts = append([]analysis.ClassifierOption{analysis.WithAnalyst(lib.provider.Analyst())}, opts...)
	return analysis.NewClassifier(opts...)
}

// NewSummarizer creates a document summarizer backed by this library's analyst.
func (lib *Library) NewSummarizer() (*analysis.Summarizer, error) {
	return analysis.NewSummarizer(lib.provider.Analyst())
}

// NewAssistant creates a chat assistant that answers questions from this
// library's index.
func (lib *Library) NewAssistant(opts ...chat.AssistantOption) (*chat.Assistant, error) {
	searcher, err := lib.NewSearcher()
	if err != nil {
		return nil, err
	}
	return chat.NewAssistant(searcher, lib.provider.Analyst(), opts...)
}
