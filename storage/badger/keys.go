package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/docsieve/docsieve/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "chkrec"
	chunkSourcePrefix = "chksrc"
)

// makeChunkRecordKey generates a key for a chunk record by ID.
func makeChunkRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkSourceKey generates a composite key for the source index.
// Format: prefix:source\x00id. The NUL byte terminates the source name so
// one source is never a prefix of another in the index.
func makeChunkSourceKey(source string, id core.ID) []byte {
	prefix := chunkSourcePrefix + ":"
	totalSize := len(prefix) + len(source) + 1 + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(source))
	buf[offset] = 0x00
	offset++
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialChunkSourceKey generates a partial key for source scans.
// Format: prefix:source\x00
func makePartialChunkSourceKey(source string) []byte {
	prefix := chunkSourcePrefix + ":"
	totalSize := len(prefix) + len(source) + 1
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(source))
	buf[offset] = 0x00
	return buf
}

// makeCheckpointKey generates a key for processor checkpoints.
func makeCheckpointKey(processorType string) []byte {
	return []byte(fmt.Sprintf("%s:chkpt", processorType))
}
