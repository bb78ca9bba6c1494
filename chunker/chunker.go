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


package chunker

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/docsieve/docsieve/core"
)

// Default splitting parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// DefaultSeparators is the recursive separator hierarchy, tried in order.
// The empty string splits at character positions as a last resort.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter divides document text into overlapping chunks.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
	splitter     textsplitter.RecursiveCharacter
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) error {
		if size <= 0 {
			return fmt.Errorf("%w: chunk size %d", ErrInvalidChunkSize, size)
		}
		s.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks in characters.
func WithChunkOverlap(overlap int) Option {
	return func(s *Splitter) error {
		if overlap < 0 {
			return fmt.Errorf("%w: overlap %d", ErrInvalidChunkOverlap, overlap)
		}
		s.chunkOverlap = overlap
		return nil
	}
}

// WithSeparators overrides the separator hierarchy.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) error {
		if len(separators) == 0 {
			return fmt.Errorf("%w: empty separator list", ErrInvalidChunkSize)
		}
		s.separators = separators
		return nil
	}
}

// NewSplitter creates a Splitter with the given options.
// Overlap at or above the chunk size is clamped to a quarter of the size.
func NewSplitter(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		separators:   DefaultSeparators,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.chunkOverlap >= s.chunkSize {
		s.chunkOverlap = s.chunkSize / 4
	}

	s.splitter = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.chunkOverlap),
		textsplitter.WithSeparators(s.separators),
	)

	return s, nil
}

// ChunkSize returns the configured maximum chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// ChunkOverlap returns the effective overlap after clamping.
func (s *Splitter) ChunkOverlap() int { return s.chunkOverlap }

// Split divides a document's text into chunks. Whitespace-only pieces are
// dropped, but their positions still count: ChunkIndex and TotalChunks
// reflect the split before filtering, so chunk IDs are stable regardless of
// how many blank pieces surround the content.
func (s *Splitter) Split(doc *core.Document) ([]*core.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", core.ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, nil
	}

	pieces, err := s.splitter.SplitText(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("splitting %s: %w", doc.Filename, err)
	}

	total := len(pieces)
	chunks := make([]*core.Chunk, 0, total)
	for i, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		chunks = append(chunks, &core.Chunk{
			Id:          core.ChunkID(doc.ContentHash, i),
			Source:      doc.Filename,
			Content:     piece,
			ChunkIndex:  i,
			TotalChunks: total,
			Size:        len(piece),
		})
	}

	return chunks, nil
}
