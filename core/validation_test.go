package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "valid document",
			doc:     NewDocument("notes.txt", []byte("hello world"), "hello world"),
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "empty filename",
			doc: &Document{
				Filename:    "",
				Text:        "content",
				ContentHash: "abc",
			},
			wantErr: ErrEmptyFilename,
		},
		{
			name: "whitespace-only text",
			doc: &Document{
				Filename:    "blank.txt",
				Text:        "   \n\t  ",
				ContentHash: "abc",
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "missing content hash",
			doc: &Document{
				Filename: "notes.txt",
				Text:     "content",
			},
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunkRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *ChunkRecord
		wantErr error
	}{
		{
			name: "valid record",
			record: &ChunkRecord{
				Id:          1,
				Source:      "notes.txt",
				Content:     "chunk text",
				ChunkIndex:  0,
				TotalChunks: 1,
			},
			wantErr: nil,
		},
		{
			name: "valid record with empty vector",
			record: &ChunkRecord{
				Id:          1,
				Source:      "notes.txt",
				Content:     "chunk text",
				ChunkIndex:  2,
				TotalChunks: 3,
				Vector:      nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidChunkRecord,
		},
		{
			name: "empty content",
			record: &ChunkRecord{
				Id:          1,
				Source:      "notes.txt",
				Content:     "",
				TotalChunks: 1,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "empty source",
			record: &ChunkRecord{
				Id:          1,
				Content:     "chunk text",
				TotalChunks: 1,
			},
			wantErr: ErrEmptySource,
		},
		{
			name: "negative index",
			record: &ChunkRecord{
				Id:          1,
				Source:      "notes.txt",
				Content:     "chunk text",
				ChunkIndex:  -1,
				TotalChunks: 1,
			},
			wantErr: ErrInvalidChunkIndex,
		},
		{
			name: "index beyond total",
			record: &ChunkRecord{
				Id:          1,
				Source:      "notes.txt",
				Content:     "chunk text",
				ChunkIndex:  3,
				TotalChunks: 3,
			},
			wantErr: ErrInvalidChunkIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunkRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunkRecord() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunkRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
