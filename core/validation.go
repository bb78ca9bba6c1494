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


package core

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - Text must contain at least one non-whitespace character
//   - ContentHash must be set
//
// NOT validated:
//   - Counts (derived fields, always computed by NewDocument)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if doc.ContentHash == "" {
		return fmt.Errorf("%w: content hash is empty", ErrInvalidDocument)
	}

	return nil
}

// ValidateChunkRecord validates a ChunkRecord according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Source must not be empty
//   - ChunkIndex must be non-negative and less than TotalChunks
//
// NOT validated (populated by the pipeline):
//   - Vector (can be empty until the embedding step runs)
//   - InsertedAt (set by the repository on insert)
func ValidateChunkRecord(record *ChunkRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChunkRecord)
	}

	if record.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyContent)
	}

	if record.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptySource)
	}

	if record.ChunkIndex < 0 || record.ChunkIndex >= record.TotalChunks {
		return fmt.Errorf("%w: index %d of %d", ErrInvalidChunkIndex, record.ChunkIndex, record.TotalChunks)
	}

	return nil
}
