package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestChunkID(t *testing.T) {
	hash := HashBytes([]byte("document body"))

	if ChunkID(hash, 0) != ChunkID(hash, 0) {
		t.Errorf("ChunkID() not deterministic for same hash and index")
	}
	if ChunkID(hash, 0) == ChunkID(hash, 1) {
		t.Errorf("ChunkID() produced same ID for different indexes")
	}

	other := HashBytes([]byte("another document"))
	if ChunkID(hash, 0) == ChunkID(other, 0) {
		t.Errorf("ChunkID() produced same ID for different documents")
	}
}

func TestHashBytes(t *testing.T) {
	h1 := HashBytes([]byte("same bytes"))
	h2 := HashBytes([]byte("same bytes"))
	h3 := HashBytes([]byte("other bytes"))

	if h1 != h2 {
		t.Errorf("HashBytes() not deterministic: %s vs %s", h1, h2)
	}
	if h1 == h3 {
		t.Errorf("HashBytes() produced same digest for different bytes")
	}
	if len(h1) != 32 {
		t.Errorf("HashBytes() digest length = %d, want 32", len(h1))
	}
}

func TestNewDocument(t *testing.T) {
	raw := []byte("hello world\nsecond line")
	doc := NewDocument("notes.txt", raw, string(raw))

	if doc.Filename != "notes.txt" {
		t.Errorf("Filename = %s, want notes.txt", doc.Filename)
	}
	if doc.ByteSize != len(raw) {
		t.Errorf("ByteSize = %d, want %d", doc.ByteSize, len(raw))
	}
	if doc.WordCount != 4 {
		t.Errorf("WordCount = %d, want 4", doc.WordCount)
	}
	if doc.CharCount != len(raw) {
		t.Errorf("CharCount = %d, want %d", doc.CharCount, len(raw))
	}
	if doc.ContentHash != HashBytes(raw) {
		t.Errorf("ContentHash does not match HashBytes of raw input")
	}
}

func TestChunk_Record(t *testing.T) {
	chunk := &Chunk{
		Id:          ChunkID("abc", 2),
		Source:      "report.txt",
		Content:     "some chunk text",
		ChunkIndex:  2,
		TotalChunks: 5,
		Size:        15,
	}

	record := chunk.Record()

	if record.Id != chunk.Id {
		t.Errorf("Record().Id = %d, want %d", record.Id, chunk.Id)
	}
	if record.Source != chunk.Source {
		t.Errorf("Record().Source = %s, want %s", record.Source, chunk.Source)
	}
	if record.Content != chunk.Content {
		t.Errorf("Record().Content = %s, want %s", record.Content, chunk.Content)
	}
	if record.ChunkIndex != 2 || record.TotalChunks != 5 || record.ChunkSize != 15 {
		t.Errorf("Record() position fields = (%d, %d, %d), want (2, 5, 15)",
			record.ChunkIndex, record.TotalChunks, record.ChunkSize)
	}
	if record.Vector != nil {
		t.Errorf("Record().Vector should be nil before embedding")
	}
}

func TestChunkRecordMUS_RoundTrip(t *testing.T) {
	record := ChunkRecord{
		Id:          IDFromContent("roundtrip"),
		Source:      "contract.txt",
		Content:     "La factura INV-2024 asciende a $1,500.00",
		ChunkIndex:  1,
		TotalChunks: 3,
		ChunkSize:   40,
		Vector:      []float32{0.1, -0.2, 0.3},
		InsertedAt:  time.Now().Truncate(time.Microsecond),
	}

	buf := make([]byte, ChunkRecordMUS.Size(record))
	n := ChunkRecordMUS.Marshal(record, buf)
	if n != len(buf) {
		t.Fatalf("Marshal() wrote %d bytes, Size() said %d", n, len(buf))
	}

	got, n, err := ChunkRecordMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if n != len(buf) {
		t.Errorf("Unmarshal() consumed %d bytes, want %d", n, len(buf))
	}
	if got.Id != record.Id || got.Source != record.Source || got.Content != record.Content {
		t.Errorf("Unmarshal() identity fields differ: got %+v", got)
	}
	if got.ChunkIndex != record.ChunkIndex || got.TotalChunks != record.TotalChunks || got.ChunkSize != record.ChunkSize {
		t.Errorf("Unmarshal() position fields differ: got %+v", got)
	}
	if len(got.Vector) != len(record.Vector) {
		t.Fatalf("Unmarshal() vector length = %d, want %d", len(got.Vector), len(record.Vector))
	}
	for i := range record.Vector {
		if got.Vector[i] != record.Vector[i] {
			t.Errorf("Vector[%d] = %f, want %f", i, got.Vector[i], record.Vector[i])
		}
	}
	if !got.InsertedAt.Equal(record.InsertedAt) {
		t.Errorf("InsertedAt = %v, want %v", got.InsertedAt, record.InsertedAt)
	}
}

func TestChunkRecordMUS_EmptyVector(t *testing.T) {
	record := ChunkRecord{
		Id:          1,
		Source:      "a.txt",
		Content:     "x",
		TotalChunks: 1,
		InsertedAt:  time.UnixMicro(0),
	}

	buf := make([]byte, ChunkRecordMUS.Size(record))
	ChunkRecordMUS.Marshal(record, buf)

	got, _, err := ChunkRecordMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Vector != nil {
		t.Errorf("Unmarshal() Vector = %v, want nil", got.Vector)
	}
}

func TestCheckpointMUS_RoundTrip(t *testing.T) {
	cp := Checkpoint{
		ProcessorType: "reindex",
		LastID:        IDFromContent("last"),
		UpdatedAt:     time.Now().Truncate(time.Microsecond),
	}

	buf := make([]byte, CheckpointMUS.Size(cp))
	CheckpointMUS.Marshal(cp, buf)

	got, _, err := CheckpointMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.ProcessorType != cp.ProcessorType || got.LastID != cp.LastID || !got.UpdatedAt.Equal(cp.UpdatedAt) {
		t.Errorf("Unmarshal() = %+v, want %+v", got, cp)
	}
}
