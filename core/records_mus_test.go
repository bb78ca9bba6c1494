package core

import (
	"errors"
	"testing"
	"time"

	"github.com/mus-format/mus-go/varint"
)

func TestChunkRecordMUS_RoundTrip_WithVector(t *testing.T) {
	record := ChunkRecord{
		Id:          IDFromContent("round trip"),
		Source:      "factura.txt",
		Content:     "Factura 443 emitida el 12/03/2024",
		ChunkIndex:  2,
		TotalChunks: 5,
		ChunkSize:   33,
		Vector:      []float32{0.6, 0.8},
		InsertedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	bs := make([]byte, ChunkRecordMUS.Size(record))
	n := ChunkRecordMUS.Marshal(record, bs)
	if n != len(bs) {
		t.Fatalf("Marshal() wrote %d bytes, Size() predicted %d", n, len(bs))
	}

	got, _, err := ChunkRecordMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Id != record.Id || got.Source != record.Source || got.Content != record.Content {
		t.Errorf("Unmarshal() = %+v, want %+v", got, record)
	}
	if len(got.Vector) != len(record.Vector) {
		t.Errorf("Unmarshal() vector length = %d, want %d", len(got.Vector), len(record.Vector))
	}
	if !got.InsertedAt.Equal(record.InsertedAt) {
		t.Errorf("Unmarshal() InsertedAt = %v, want %v", got.InsertedAt, record.InsertedAt)
	}
}

func TestUnmarshalVector_CorruptLength(t *testing.T) {
	t.Run("negative length is an error not a panic", func(t *testing.T) {
		bs := make([]byte, 16)
		varint.Int.Marshal(-1, bs)

		_, _, err := unmarshalVector(bs)
		if !errors.Is(err, ErrCorruptVector) {
			t.Errorf("unmarshalVector() error = %v, want ErrCorruptVector", err)
		}
	})

	t.Run("length exceeding value bytes is an error", func(t *testing.T) {
		// Claims a billion elements but carries almost no data; decoding
		// must refuse rather than allocate.
		bs := make([]byte, 16)
		varint.Int.Marshal(1<<30, bs)

		_, _, err := unmarshalVector(bs)
		if !errors.Is(err, ErrCorruptVector) {
			t.Errorf("unmarshalVector() error = %v, want ErrCorruptVector", err)
		}
	})

	t.Run("plausible length still decodes", func(t *testing.T) {
		vector := []float32{1, 0, 0}
		bs := make([]byte, sizeVector(vector))
		marshalVector(vector, bs)

		got, _, err := unmarshalVector(bs)
		if err != nil {
			t.Fatalf("unmarshalVector() error = %v", err)
		}
		if len(got) != 3 || got[0] != 1 {
			t.Errorf("unmarshalVector() = %v, want %v", got, vector)
		}
	})
}
