package core

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persisted chunk records.
// It is generated using content-based hashing, so identical input always
// yields the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the identifier for a chunk from its document's content hash
// and the chunk's position. Re-ingesting an unchanged document therefore
// produces the same IDs, which makes upserts idempotent.
func ChunkID(contentHash string, index int) ID {
	return IDFromContent(contentHash + "_" + strconv.Itoa(index))
}

// HashBytes returns the hex-encoded BLAKE2b digest of raw document bytes.
// It is the stable identity key for a document's exact content.
func HashBytes(data []byte) string {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Document is an immutable snapshot of one extracted file.
type Document struct {
	Filename    string
	Text        string
	ContentHash string
	ByteSize    int
	WordCount   int
	CharCount   int
}

// NewDocument builds a Document from raw file bytes and the text extracted
// from them. The content hash is computed over the raw bytes so the same file
// always maps to the same hash regardless of extraction quirks.
func NewDocument(filename string, raw []byte, text string) *Document {
	return &Document{
		Filename:    filename,
		Text:        text,
		ContentHash: HashBytes(raw),
		ByteSize:    len(raw),
		WordCount:   len(strings.Fields(text)),
		CharCount:   len(text),
	}
}

// Chunk is a bounded slice of a document's text, the unit of indexing.
// Chunks are transient values produced by the splitter; only ChunkRecord
// instances are persisted.
type Chunk struct {
	Id          ID
	Source      string // originating document filename
	Content     string
	ChunkIndex  int // position within the document, pre-filter numbering
	TotalChunks int // pre-filter chunk count for the document
	Size        int // content length in bytes
}

// ChunkRecord is the persisted form of a chunk together with its embedding.
type ChunkRecord struct {
	Id          ID
	Source      string
	Content     string
	ChunkIndex  int
	TotalChunks int
	ChunkSize   int
	Vector      []float32 // embedding, normalized to unit length
	InsertedAt  time.Time // when the record was inserted into the database
}

// Record converts a transient chunk into its persisted form.
// The vector is attached later by the ingestion pipeline.
func (c *Chunk) Record() *ChunkRecord {
	return &ChunkRecord{
		Id:          c.Id,
		Source:      c.Source,
		Content:     c.Content,
		ChunkIndex:  c.ChunkIndex,
		TotalChunks: c.TotalChunks,
		ChunkSize:   c.Size,
	}
}

// SearchResult represents a semantic search hit with its similarity score.
type SearchResult struct {
	Record *ChunkRecord
	Score  float32
}

// KeywordMatch represents a lexical search hit. Matches are computed per
// query and never persisted.
type KeywordMatch struct {
	Content  string
	Source   string
	Score    float32  // intersection size over query keyword count, in [0,1]
	Keywords []string // the intersecting tokens, in query extraction order
}

// CollectionStats summarizes the contents of the chunk store.
type CollectionStats struct {
	TotalChunks     int
	UniqueDocuments int
	Sources         []string
	Dimension       int // embedding dimension of stored vectors, 0 when empty
}

// Checkpoint records progress of a long-running maintenance processor so an
// interrupted run can resume where it left off.
type Checkpoint struct {
	ProcessorType string
	LastID        ID
	UpdatedAt     time.Time
}
