package chunker

import (
	"strings"
	"testing"

	"github.com/docsieve/docsieve/core"
)

func newDoc(t *testing.T, name, text string) *core.Document {
	t.Helper()
	return core.NewDocument(name, []byte(text), text)
}

func TestNewSplitter_Options(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{
			name:    "defaults",
			opts:    nil,
			wantErr: false,
		},
		{
			name:    "custom size and overlap",
			opts:    []Option{WithChunkSize(200), WithChunkOverlap(20)},
			wantErr: false,
		},
		{
			name:    "zero size rejected",
			opts:    []Option{WithChunkSize(0)},
			wantErr: true,
		},
		{
			name:    "negative overlap rejected",
			opts:    []Option{WithChunkOverlap(-1)},
			wantErr: true,
		},
		{
			name:    "empty separators rejected",
			opts:    []Option{WithSeparators(nil)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSplitter(tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSplitter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSplitter_OverlapClamped(t *testing.T) {
	s, err := NewSplitter(WithChunkSize(100), WithChunkOverlap(100))
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	if s.ChunkOverlap() != 25 {
		t.Errorf("ChunkOverlap() = %d, want 25 after clamping", s.ChunkOverlap())
	}
}

func TestSplit_EmptyDocument(t *testing.T) {
	s, _ := NewSplitter()

	chunks, err := s.Split(newDoc(t, "blank.txt", "   \n\n  "))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if chunks != nil {
		t.Errorf("Split() = %v, want nil for whitespace-only document", chunks)
	}
}

func TestSplit_NilDocument(t *testing.T) {
	s, _ := NewSplitter()

	if _, err := s.Split(nil); err == nil {
		t.Errorf("Split(nil) error = nil, want error")
	}
}

func TestSplit_SmallDocument(t *testing.T) {
	s, _ := NewSplitter()
	doc := newDoc(t, "small.txt", "A short paragraph that fits in one chunk.")

	chunks, err := s.Split(doc)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Split() produced %d chunks, want 1", len(chunks))
	}

	chunk := chunks[0]
	if chunk.Content != doc.Text {
		t.Errorf("Content = %q, want full document text", chunk.Content)
	}
	if chunk.ChunkIndex != 0 || chunk.TotalChunks != 1 {
		t.Errorf("position = (%d, %d), want (0, 1)", chunk.ChunkIndex, chunk.TotalChunks)
	}
	if chunk.Source != "small.txt" {
		t.Errorf("Source = %s, want small.txt", chunk.Source)
	}
	if chunk.Id != core.ChunkID(doc.ContentHash, 0) {
		t.Errorf("Id does not match ChunkID(hash, 0)")
	}
}

func TestSplit_LargeDocument(t *testing.T) {
	s, err := NewSplitter(WithChunkSize(500), WithChunkOverlap(50))
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("Sentence number describing a clause of the agreement in plain words. ")
	}
	doc := newDoc(t, "contract.txt", sb.String())

	chunks, err := s.Split(doc)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("Split() produced %d chunks, want at least 3", len(chunks))
	}

	seen := make(map[core.ID]bool)
	for _, chunk := range chunks {
		if len(chunk.Content) > 500 {
			t.Errorf("chunk %d length %d exceeds chunk size 500", chunk.ChunkIndex, len(chunk.Content))
		}
		if chunk.Size != len(chunk.Content) {
			t.Errorf("chunk %d Size = %d, want %d", chunk.ChunkIndex, chunk.Size, len(chunk.Content))
		}
		if chunk.TotalChunks != chunks[0].TotalChunks {
			t.Errorf("chunk %d TotalChunks = %d, inconsistent with %d",
				chunk.ChunkIndex, chunk.TotalChunks, chunks[0].TotalChunks)
		}
		if seen[chunk.Id] {
			t.Errorf("duplicate chunk ID %d", chunk.Id)
		}
		seen[chunk.Id] = true
	}
}

func TestSplit_OverlapSharesText(t *testing.T) {
	s, err := NewSplitter(WithChunkSize(300), WithChunkOverlap(60))
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("alpha beta gamma delta epsilon zeta eta theta iota kappa ")
	}
	chunks, err := s.Split(newDoc(t, "words.txt", sb.String()))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Split() produced %d chunks, want at least 2", len(chunks))
	}

	// Consecutive chunks should share trailing/leading text.
	for i := 1; i < len(chunks); i++ {
		prev, curr := chunks[i-1].Content, chunks[i].Content
		shared := 0
		max := len(prev)
		if len(curr) < max {
			max = len(curr)
		}
		for j := 1; j <= max; j++ {
			if strings.HasPrefix(curr, prev[len(prev)-j:]) {
				shared = j
			}
		}
		if shared == 0 {
			t.Errorf("chunks %d and %d share no overlapping text", i-1, i)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s, _ := NewSplitter()
	doc := newDoc(t, "same.txt", strings.Repeat("Stable text for hashing. ", 100))

	first, err := s.Split(doc)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	second, err := s.Split(doc)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Id != second[i].Id {
			t.Errorf("chunk %d ID differs between runs", i)
		}
	}
}

func TestSplit_PreservesParagraphs(t *testing.T) {
	s, err := NewSplitter(WithChunkSize(60), WithChunkOverlap(0))
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	text := "First short paragraph here.\n\nSecond short paragraph here.\n\nThird short paragraph here."
	chunks, err := s.Split(newDoc(t, "paras.txt", text))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	for _, chunk := range chunks {
		if strings.Contains(chunk.Content, "\n\n") {
			t.Errorf("chunk %q spans a paragraph break despite fitting separator", chunk.Content)
		}
	}
}
