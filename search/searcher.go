package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docsieve/docsieve/ai"
	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/storage"
)

// Searcher provides semantic and hybrid search over indexed chunks.
type Searcher struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	extractor       *KeywordExtractor
	timeout         time.Duration
	logger          *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithKeywordExtractor sets a custom keyword extractor.
// Default uses DefaultPatterns.
func WithKeywordExtractor(extractor *KeywordExtractor) Option {
	return func(s *Searcher) error {
		if extractor == nil {
			return errors.New("keyword extractor required")
		}
		s.extractor = extractor
		return nil
	}
}

// WithTimeout bounds each search call. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout < 0 {
			return fmt.Errorf("timeout must not be negative, got %s", timeout)
		}
		s.timeout = timeout
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	chunkRepository storage.ChunkRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Searcher, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	extractor, err := NewKeywordExtractor()
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		chunkRepository: chunkRepository,
		embedder:        embedder,
		extractor:       extractor,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// HybridResult holds both search paths' results plus summary counts.
type HybridResult struct {
	Semantic []*core.SearchResult
	Keyword  []*core.KeywordMatch
	Summary  Summary
}

// Summary counts the results of a hybrid search. TotalUnique deduplicates
// across the two paths by chunk content.
type Summary struct {
	SemanticCount int
	KeywordCount  int
	TotalUnique   int
}

// Search performs semantic search: embeds the query and ranks stored chunks
// by cosine similarity. Returns up to maxHits results.
func (s *Searcher) Search(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, maxHits, nil)
}

// SearchWithMonitor is Search with observation hooks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	ctx, cancel := s.searchContext(ctx)
	defer cancel()

	monitor.Start(query)

	results, err := s.semanticSearch(ctx, query, maxHits, monitor)
	if err != nil {
		return nil, s.wrapTimeout(ctx, err)
	}

	monitor.Finish(&Summary{SemanticCount: len(results), TotalUnique: len(results)})
	return results, nil
}

// HybridSearch runs the semantic and keyword paths in parallel and returns
// both result sets. maxHits bounds the semantic path only; the keyword path
// returns every chunk with a positive match score.
// A failure on one path yields an empty collection for that
// path while the other's results are still returned; only both paths failing
// is an error. A dimension mismatch between the query embedding and stored
// vectors is a configuration error and always fails the call.
func (s *Searcher) HybridSearch(ctx context.Context, query string, maxHits int) (*HybridResult, error) {
	return s.HybridSearchWithMonitor(ctx, query, maxHits, nil)
}

// HybridSearchWithMonitor is HybridSearch with observation hooks.
func (s *Searcher) HybridSearchWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) (*HybridResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	ctx, cancel := s.searchContext(ctx)
	defer cancel()

	monitor.Start(query)

	var (
		wg          sync.WaitGroup
		semantic    []*core.SearchResult
		keyword     []*core.KeywordMatch
		semanticErr error
		keywordErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		semantic, semanticErr = s.semanticSearch(ctx, query, maxHits, monitor)
	}()
	go func() {
		defer wg.Done()
		keyword, keywordErr = s.keywordSearch(ctx, query, monitor)
	}()
	wg.Wait()

	if errors.Is(semanticErr, ErrDimensionMismatch) {
		return nil, semanticErr
	}
	if semanticErr != nil && keywordErr != nil {
		return nil, s.wrapTimeout(ctx, errors.Join(semanticErr, keywordErr))
	}
	if semanticErr != nil {
		s.logger.Warn("semantic path failed, returning keyword results only", "err", semanticErr)
		semantic = []*core.SearchResult{}
	}
	if keywordErr != nil {
		s.logger.Warn("keyword path failed, returning semantic results only", "err", keywordErr)
		keyword = []*core.KeywordMatch{}
	}

	result := &HybridResult{
		Semantic: semantic,
		Keyword:  keyword,
		Summary:  summarize(semantic, keyword),
	}
	monitor.Finish(&result.Summary)

	return result, nil
}

// semanticSearch embeds the query and ranks stored chunks by similarity.
func (s *Searcher) semanticSearch(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(len(embedding))

	stats, err := s.chunkRepository.Stats(ctx)
	if err != nil {
		s.logger.Error("error reading collection stats", "err", err)
		return nil, err
	}
	if stats.Dimension > 0 && stats.Dimension != len(embedding) {
		return nil, fmt.Errorf("%w: query %d, index %d", ErrDimensionMismatch, len(embedding), stats.Dimension)
	}

	results, err := s.chunkRepository.QuerySimilar(ctx, embedding, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}
	monitor.AfterSemanticSearch(results)

	return results, nil
}

// keywordSearch extracts keywords from the query and matches them against
// every stored chunk.
func (s *Searcher) keywordSearch(ctx context.Context, query string, monitor SearchMonitor) ([]*core.KeywordMatch, error) {
	keywords := s.extractor.Extract(query)
	monitor.AfterKeywordExtraction(keywords)
	if len(keywords) == 0 {
		return nil, nil
	}

	records, err := s.chunkRepository.GetAllChunks(ctx)
	if err != nil {
		s.logger.Error("error retrieving chunks for keyword search", "err", err)
		return nil, err
	}

	matches := s.extractor.KeywordSearch(query, records)
	monitor.AfterKeywordSearch(matches)

	return matches, nil
}

func summarize(semantic []*core.SearchResult, keyword []*core.KeywordMatch) Summary {
	unique := make(map[string]bool)
	for _, r := range semantic {
		unique[r.Record.Content] = true
	}
	for _, m := range keyword {
		unique[m.Content] = true
	}

	return Summary{
		SemanticCount: len(semantic),
		KeywordCount:  len(keyword),
		TotalUnique:   len(unique),
	}
}

func (s *Searcher) searchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}

func (s *Searcher) wrapTimeout(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrSearchTimeout, err)
	}
	return err
}
