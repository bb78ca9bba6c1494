package badger

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a ChunkRepository on an open backend.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// Close closes the underlying database.
func (r *ChunkRepository) Close() error {
	return r.backend.Close()
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertChunks stores chunk records, skipping any whose ID already exists.
// Existing records keep their original content and vector; content-derived IDs
// guarantee a colliding ID carries identical content.
//
// Large batches are committed in transaction-sized pieces: badger caps one
// transaction well below what a big document chunks into. A failure can
// therefore leave earlier pieces committed, which is safe to retry because a
// rerun skips the already-stored IDs.
func (r *ChunkRepository) UpsertChunks(ctx context.Context, records ...*core.ChunkRecord) (int, error) {
	inserted := 0
	tx := r.backend.db.NewTransaction(true)
	defer func() { tx.Discard() }()

	for _, record := range records {
		if err := core.ValidateChunkRecord(record); err != nil {
			return 0, err
		}

		key := makeChunkRecordKey(record.Id)
		if _, err := tx.Get(key); err == nil {
			// Already stored, skip
			continue
		} else if err != badger.ErrKeyNotFound {
			return 0, err
		}

		record.InsertedAt = time.Now().UTC()

		// Store primary record
		value := storage.MarshalChunkRecord(record)
		if err := r.setRenewing(&tx, key, value); err != nil {
			return 0, err
		}

		// Update source index
		sourceKey := makeChunkSourceKey(record.Source, record.Id)
		if err := r.setRenewing(&tx, sourceKey, storage.MarshalID(record.Id)); err != nil {
			return 0, err
		}

		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// UpdateChunks overwrites existing chunk records in place.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, records ...*core.ChunkRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeChunkRecordKey(record.Id)

			old, err := r.readChunkRecord(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Source index entry survives unchanged: IDs are content-derived,
			// so an update never moves a record between sources.
			value := storage.MarshalChunkRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk record by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.ChunkRecord, error) {
	var result *core.ChunkRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeChunkRecordKey(id)
		var err error
		result, err = r.readChunkRecord(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetAllChunks retrieves every stored chunk record.
func (r *ChunkRepository) GetAllChunks(ctx context.Context) ([]*core.ChunkRecord, error) {
	var results []*core.ChunkRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.ChunkRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalChunkRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// QuerySimilar finds chunk records similar to the given vector by scanning
// all stored records. Scores are dot products, which equal cosine similarity
// for the unit vectors the pipeline stores.
func (r *ChunkRepository) QuerySimilar(ctx context.Context, vector []float32, k int) ([]*core.SearchResult, error) {
	if k < 1 {
		return nil, storage.ErrInvalidQuery
	}
	if len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.SearchResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.ChunkRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalChunkRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}

			// Skip records without embeddings
			if len(record.Vector) == 0 {
				continue
			}

			results = append(results, &core.SearchResult{
				Record: record,
				Score:  dotProduct(vector, record.Vector),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// DeleteBySource removes all chunk records originating from the given source.
// Deletes are committed in transaction-sized pieces for large sources.
func (r *ChunkRepository) DeleteBySource(ctx context.Context, source string) (int, error) {
	tx := r.backend.db.NewTransaction(true)
	defer func() { tx.Discard() }()

	prefix := makePartialChunkSourceKey(source)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)

	// Collect keys first: badger forbids deleting under an open iterator.
	var sourceKeys [][]byte
	var ids []core.ID
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			iter.Close()
			return 0, err
		}
		sourceKeys = append(sourceKeys, iter.Item().KeyCopy(nil))
		ids = append(ids, id)
	}
	iter.Close()

	deleted := 0
	for i, id := range ids {
		if err := r.deleteRenewing(&tx, makeChunkRecordKey(id)); err != nil {
			return 0, err
		}
		if err := r.deleteRenewing(&tx, sourceKeys[i]); err != nil {
			return 0, err
		}
		deleted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// Clear removes all chunk records and index entries. Deletes are committed
// in transaction-sized pieces for large collections.
func (r *ChunkRepository) Clear(ctx context.Context) error {
	tx := r.backend.db.NewTransaction(true)
	defer func() { tx.Discard() }()

	var keys [][]byte
	for _, prefix := range []string{chunkRecordPrefix + ":", chunkSourcePrefix + ":"} {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()
	}

	for _, key := range keys {
		if err := r.deleteRenewing(&tx, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Stats summarizes the stored collection. Sources are returned sorted.
func (r *ChunkRepository) Stats(ctx context.Context) (*core.CollectionStats, error) {
	stats := &core.CollectionStats{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		sources := make(map[string]bool)

		// Count chunks per source from the index; key layout is
		// prefix:source\x00id.
		prefix := []byte(chunkSourcePrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			rest := key[len(prefix):]
			if sep := bytes.IndexByte(rest, 0x00); sep >= 0 {
				sources[string(rest[:sep])] = true
			}
			stats.TotalChunks++
		}
		iter.Close()

		stats.UniqueDocuments = len(sources)
		stats.Sources = make([]string, 0, len(sources))
		for source := range sources {
			stats.Sources = append(stats.Sources, source)
		}
		sort.Strings(stats.Sources)

		// Dimension comes from the first record carrying a vector.
		recOpts := badger.DefaultIteratorOptions
		recOpts.Prefix = []byte(chunkRecordPrefix + ":")
		recIter := tx.NewIterator(recOpts)
		defer recIter.Close()
		for recIter.Rewind(); recIter.Valid(); recIter.Next() {
			var record *core.ChunkRecord
			err := recIter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalChunkRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil && len(record.Vector) > 0 {
				stats.Dimension = len(record.Vector)
				break
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Helper methods

// setRenewing writes an entry, committing the transaction and starting a
// fresh one when badger reports it full.
func (r *ChunkRepository) setRenewing(tx **badger.Txn, key, value []byte) error {
	err := (*tx).Set(key, value)
	if err != badger.ErrTxnTooBig {
		return err
	}
	if err := (*tx).Commit(); err != nil {
		return err
	}
	*tx = r.backend.db.NewTransaction(true)
	return (*tx).Set(key, value)
}

// deleteRenewing is setRenewing for deletes.
func (r *ChunkRepository) deleteRenewing(tx **badger.Txn, key []byte) error {
	err := (*tx).Delete(key)
	if err != badger.ErrTxnTooBig {
		return err
	}
	if err := (*tx).Commit(); err != nil {
		return err
	}
	*tx = r.backend.db.NewTransaction(true)
	return (*tx).Delete(key)
}

// readChunkRecord reads a chunk record from the transaction.
func (r *ChunkRepository) readChunkRecord(tx *badger.Txn, key []byte) (*core.ChunkRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.ChunkRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalChunkRecord(val)
		return unmarshalErr
	})
	return record, err
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
