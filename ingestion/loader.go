package ingestion

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/docsieve/docsieve/core"
)

const (
	// DefaultMaxFiles is the maximum number of files accepted in one batch.
	DefaultMaxFiles = 5

	// DefaultMaxFileBytes is the maximum size of a single uploaded file.
	DefaultMaxFileBytes = 40 << 20 // 40 MB

	// DefaultMaxBatchBytes is the maximum combined size of an upload batch.
	DefaultMaxBatchBytes = 200 << 20 // 200 MB

	// MinExtractedChars is the minimum extracted text length below which a
	// file is rejected as a low-confidence extraction.
	MinExtractedChars = 50
)

// FileUpload is one raw file submitted for ingestion.
type FileUpload struct {
	Name string
	Data []byte
}

// Extractor converts raw file bytes into plain text. Implementations for
// richer formats (PDF, DOCX) live outside this module; the plain text
// extractor below covers text files.
type Extractor interface {
	Extract(filename string, raw []byte) (string, error)
}

// PlainTextExtractor treats file bytes as UTF-8 text.
type PlainTextExtractor struct{}

// Extract returns the file contents as a string, rejecting non-UTF-8 input.
func (PlainTextExtractor) Extract(filename string, raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", filename)
	}
	return string(raw), nil
}

// Loader validates upload batches and turns files into documents.
type Loader struct {
	extractor     Extractor
	maxFiles      int
	maxFileBytes  int
	maxBatchBytes int
	logger        *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithMaxFiles sets the maximum number of files per batch.
func WithMaxFiles(n int) LoaderOption {
	return func(l *Loader) error {
		if n < 1 {
			return fmt.Errorf("max files must be positive, got %d", n)
		}
		l.maxFiles = n
		return nil
	}
}

// WithMaxFileBytes sets the per-file size limit in bytes.
func WithMaxFileBytes(n int) LoaderOption {
	return func(l *Loader) error {
		if n < 1 {
			return fmt.Errorf("max file bytes must be positive, got %d", n)
		}
		l.maxFileBytes = n
		return nil
	}
}

// WithMaxBatchBytes sets the combined batch size limit in bytes.
func WithMaxBatchBytes(n int) LoaderOption {
	return func(l *Loader) error {
		if n < 1 {
			return fmt.Errorf("max batch bytes must be positive, got %d", n)
		}
		l.maxBatchBytes = n
		return nil
	}
}

// WithLoaderLogger sets the logger for the loader.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger != nil {
			l.logger = logger
		}
		return nil
	}
}

// NewLoader creates a loader with the given extractor and options.
func NewLoader(extractor Extractor, opts ...LoaderOption) (*Loader, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	l := &Loader{
		extractor:     extractor,
		maxFiles:      DefaultMaxFiles,
		maxFileBytes:  DefaultMaxFileBytes,
		maxBatchBytes: DefaultMaxBatchBytes,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	l.logger = l.logger.With("component", "loader")
	return l, nil
}

// ValidateFiles checks batch-level limits before any extraction work.
func (l *Loader) ValidateFiles(files []FileUpload) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if len(files) > l.maxFiles {
		return fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(files), l.maxFiles)
	}

	total := 0
	for _, f := range files {
		if len(f.Data) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyFile, f.Name)
		}
		if len(f.Data) > l.maxFileBytes {
			return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, f.Name, len(f.Data), l.maxFileBytes)
		}
		total += len(f.Data)
	}

	if total > l.maxBatchBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrBatchTooLarge, total, l.maxBatchBytes)
	}

	return nil
}

// BuildDocument extracts text from one file and wraps it as a document.
// Files whose extracted text is shorter than MinExtractedChars are rejected;
// such extractions are usually garbage (scanned images, binary content).
func (l *Loader) BuildDocument(file FileUpload) (*core.Document, error) {
	text, err := l.extractor.Extract(file.Name, file.Data)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", file.Name, err)
	}

	if len(strings.TrimSpace(text)) < MinExtractedChars {
		return nil, fmt.Errorf("%w: %s yielded %d chars, minimum %d",
			ErrLowConfidenceExtraction, file.Name, len(strings.TrimSpace(text)), MinExtractedChars)
	}

	doc := core.NewDocument(file.Name, file.Data, text)
	l.logger.Debug("built document",
		"filename", doc.Filename,
		"bytes", doc.ByteSize,
		"words", doc.WordCount)

	return doc, nil
}

// Load validates a batch and builds a document per file. A file that fails
// extraction does not abort the batch; it is reported in the returned
// failures alongside the documents that did load.
func (l *Loader) Load(files []FileUpload) ([]*core.Document, []DocumentFailure, error) {
	if err := l.ValidateFiles(files); err != nil {
		return nil, nil, err
	}

	docs := make([]*core.Document, 0, len(files))
	var failures []DocumentFailure
	for _, file := range files {
		doc, err := l.BuildDocument(file)
		if err != nil {
			l.logger.Warn("skipping file", "filename", file.Name, "err", err)
			failures = append(failures, DocumentFailure{Filename: file.Name, Err: err})
			continue
		}
		docs = append(docs, doc)
	}

	return docs, failures, nil
}
