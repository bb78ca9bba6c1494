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


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/docsieve/docsieve"
	"github.com/docsieve/docsieve/ai"
	"github.com/docsieve/docsieve/analysis"
	"github.com/docsieve/docsieve/chat"
	"github.com/docsieve/docsieve/chunker"
	"github.com/docsieve/docsieve/config"
	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/ingestion"
	"github.com/docsieve/docsieve/reindex"
	"github.com/docsieve/docsieve/search"
)

func main() {
	app := &cli.App{
		Name:  "docsieve",
		Usage: "Document indexing and question answering over a local corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (defaults to ./docsieve.yaml, then ~/.config/docsieve/config.yaml)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest documents into the index",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Replace previously indexed chunks from the same sources",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the index with combined semantic and keyword matching",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"n"},
						Usage:   "Maximum hits per search path",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print per-stage search details",
					},
					&cli.BoolFlag{
						Name:  "semantic-only",
						Usage: "Skip the keyword path",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show index statistics",
				Action: statsCommand,
			},
			{
				Name:   "delete",
				Usage:  "Delete all chunks from one source document",
				Action: deleteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Source filename whose chunks should be removed",
						Required: true,
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Remove every chunk from the index",
				Action: clearCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Skip the confirmation prompt",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every stored chunk with the configured embedding model",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Resume from the last checkpoint of an interrupted run",
					},
				},
			},
			{
				Name:      "classify",
				Usage:     "Classify a document into a category",
				ArgsUsage: "FILE",
				Action:    classifyCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "keywords-only",
						Usage: "Skip the model refinement stage",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question over the indexed documents",
				ArgsUsage: "[QUESTION]",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"n"},
						Usage:   "Maximum passages to feed the model",
						Value:   chat.DefaultMaxPassages,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env if present, configures logging, and resolves the config
// file for the rest of the run.
func setup(c *cli.Context) error {
	// Missing .env is fine
	_ = godotenv.Load()

	if err := setupLogger(c); err != nil {
		return err
	}

	var (
		cfg *config.AppConfig
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if dbPath := c.String("db"); dbPath != "" {
		cfg.Storage.Path = dbPath
	}

	c.App.Metadata = map[string]any{"config": cfg}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func appConfig(c *cli.Context) *config.AppConfig {
	return c.App.Metadata["config"].(*config.AppConfig)
}

// openLibrary opens the document library described by the resolved config.
func openLibrary(c *cli.Context) (*docsieve.Library, error) {
	cfg := appConfig(c)

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithAnalystHost(cfg.AI.AnalystHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithAnalystModel(cfg.AI.AnalystModel),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	var opts []docsieve.LibraryOption
	opts = append(opts, docsieve.WithAIConfig(aiConfig))
	if cfg.Storage.InMemory {
		opts = append(opts, docsieve.WithInMemoryStorage())
	}

	lib, err := docsieve.Open(cfg.Storage.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening library at %s: %w", cfg.Storage.Path, err)
	}
	return lib, nil
}

// newSearcher builds a searcher honoring the config's timeout and any custom
// keyword patterns.
func newSearcher(c *cli.Context, lib *docsieve.Library) (*search.Searcher, error) {
	cfg := appConfig(c)

	var opts []search.Option
	if cfg.Search.TimeoutSecs > 0 {
		opts = append(opts, search.WithTimeout(time.Duration(cfg.Search.TimeoutSecs)*time.Second))
	}
	if len(cfg.Search.KeywordPatterns) > 0 {
		extractor, err := search.NewKeywordExtractor(cfg.Search.KeywordPatterns...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, search.WithKeywordExtractor(extractor))
	}
	return lib.NewSearcher(opts...)
}

func maxHits(c *cli.Context) int {
	if k := c.Int("k"); k > 0 {
		return k
	}
	return appConfig(c).Search.MaxHits
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	loaderOpts := []ingestion.LoaderOption{}
	if c.NArg() > ingestion.DefaultMaxFiles {
		loaderOpts = append(loaderOpts, ingestion.WithMaxFiles(c.NArg()))
	}
	loader, err := ingestion.NewLoader(&ingestion.PlainTextExtractor{}, loaderOpts...)
	if err != nil {
		return err
	}

	files := make([]ingestion.FileUpload, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, ingestion.FileUpload{Name: path, Data: data})
	}

	docs, failures, err := loader.Load(files)
	if err != nil {
		return err
	}
	for _, failure := range failures {
		fmt.Fprintf(os.Stderr, "skipping %s: %v\n", failure.Filename, failure.Err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents survived validation")
	}

	cfg := appConfig(c)
	splitter, err := chunker.NewSplitter(
		chunker.WithChunkSize(cfg.Chunker.ChunkSize),
		chunker.WithChunkOverlap(cfg.Chunker.ChunkOverlap),
	)
	if err != nil {
		return err
	}

	pipeline, err := lib.NewIngestionPipeline(ingestion.WithSplitter(splitter))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.Ingest(context.Background(), docs, &ingestion.IngestOptions{
		Replace: c.Bool("replace"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Documents: %d\n", report.Documents)
	fmt.Printf("Chunks ingested: %d\n", report.ChunksIngested)
	fmt.Printf("Chunks skipped: %d\n", report.ChunksSkipped)
	for _, failure := range report.Failed {
		fmt.Fprintf(os.Stderr, "failed %s: %v\n", failure.Filename, failure.Err)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	searcher, err := newSearcher(c, lib)
	if err != nil {
		return err
	}

	ctx := context.Background()
	k := maxHits(c)

	if c.Bool("semantic-only") {
		results, err := searcher.Search(ctx, query, k)
		if err != nil {
			return err
		}
		printSemanticResults(results)
		return nil
	}

	var monitor search.SearchMonitor
	if c.Bool("verbose") {
		monitor = &printMonitor{out: os.Stderr}
	}

	result, err := searcher.HybridSearchWithMonitor(ctx, query, k, monitor)
	if err != nil {
		return err
	}

	printSemanticResults(result.Semantic)
	if len(result.Keyword) > 0 {
		fmt.Println("\nKeyword matches:")
		for i, match := range result.Keyword {
			fmt.Printf("%2d. [%.3f] %s (%s)\n", i+1, match.Score, snippet(match.Content), match.Source)
			fmt.Printf("    keywords: %s\n", strings.Join(match.Keywords, ", "))
		}
	}
	fmt.Printf("\n%d semantic, %d keyword, %d unique\n",
		result.Summary.SemanticCount, result.Summary.KeywordCount, result.Summary.TotalUnique)
	return nil
}

func printSemanticResults(results []*core.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No semantic matches.")
		return
	}
	fmt.Println("Semantic matches:")
	for i, result := range results {
		fmt.Printf("%2d. [%.3f] %s (%s)\n", i+1, result.Score, snippet(result.Record.Content), result.Record.Source)
	}
}

func snippet(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if len(content) > 120 {
		return content[:120] + "..."
	}
	return content
}

func statsCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	stats, err := lib.ChunkRepository().Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Chunks: %d\n", stats.TotalChunks)
	fmt.Printf("Documents: %d\n", stats.UniqueDocuments)
	fmt.Printf("Embedding dimension: %d\n", stats.Dimension)
	for _, source := range stats.Sources {
		fmt.Printf("  %s\n", source)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	source := c.String("source")
	deleted, err := lib.ChunkRepository().DeleteBySource(context.Background(), source)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d chunks from %s\n", deleted, source)
	return nil
}

func clearCommand(c *cli.Context) error {
	if !c.Bool("force") {
		fmt.Print("This removes every indexed chunk. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	if err := lib.ChunkRepository().Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("Index cleared.")
	return nil
}

func reindexCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Resume:         c.Bool("resume"),
	}

	// Validate config
	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer, err := lib.NewReindexer(reindexConfig, os.Stderr)
	if err != nil {
		return err
	}

	cfg := appConfig(c)
	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(context.Background()); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func classifyCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one file is required")
	}
	path := c.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	loader, err := ingestion.NewLoader(&ingestion.PlainTextExtractor{})
	if err != nil {
		return err
	}
	doc, err := loader.BuildDocument(ingestion.FileUpload{Name: path, Data: data})
	if err != nil {
		return err
	}

	var classifier *analysis.Classifier
	if c.Bool("keywords-only") {
		classifier, err = analysis.NewClassifier()
		if err != nil {
			return err
		}
	} else {
		lib, libErr := openLibrary(c)
		if libErr != nil {
			return libErr
		}
		defer lib.Close()
		classifier, err = lib.NewClassifier()
		if err != nil {
			return err
		}
	}

	result, err := classifier.Classify(context.Background(), doc)
	if err != nil {
		return err
	}

	fmt.Printf("Category: %s\n", result.Category)
	if result.Subcategory != "" {
		fmt.Printf("Subcategory: %s\n", result.Subcategory)
	}
	fmt.Printf("Confidence: %.0f%%\n", result.Confidence*100)
	if len(result.MatchedKeywords) > 0 {
		fmt.Printf("Matched keywords: %s\n", strings.Join(result.MatchedKeywords, ", "))
	}
	if len(result.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(result.Tags, ", "))
	}
	return nil
}

func askCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	assistant, err := lib.NewAssistant(chat.WithMaxPassages(c.Int("k")))
	if err != nil {
		return err
	}

	ctx := context.Background()

	// One-shot question
	if c.NArg() > 0 {
		question := strings.Join(c.Args().Slice(), " ")
		answer, err := assistant.Ask(ctx, question)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	}

	// Interactive session
	fmt.Println("Ask questions about your documents. Empty line exits.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("docsieve> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}
		answer, err := assistant.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(answer)
		fmt.Println()
	}
	return scanner.Err()
}
